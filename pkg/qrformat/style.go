package qrformat

// Style holds the appearance settings passed through to the renderer
type Style struct {
	Foreground        string `json:"foreground" yaml:"foreground"`
	Background        string `json:"background" yaml:"background"`
	BackgroundEnabled bool   `json:"background_enabled" yaml:"background_enabled"`
	Dots              string `json:"dots" yaml:"dots"`               // square, dots, rounded, extra-rounded
	Eyes              string `json:"eyes" yaml:"eyes"`               // square, dot, extra-rounded
	LogoSize          int    `json:"logo_size" yaml:"logo_size"`     // percent of the image side
	LogoRadius        int    `json:"logo_radius" yaml:"logo_radius"` // percent of the logo box
	Margin            int    `json:"margin" yaml:"margin"`           // quiet zone in modules
}

// Dot styles
const (
	DotsSquare       = "square"
	DotsDots         = "dots"
	DotsRounded      = "rounded"
	DotsExtraRounded = "extra-rounded"
)

// Eye styles
const (
	EyesSquare       = "square"
	EyesDot          = "dot"
	EyesExtraRounded = "extra-rounded"
)

// Transparent disables the background fill when used as a colour
const Transparent = "transparent"

var (
	validDots = []string{DotsSquare, DotsDots, DotsRounded, DotsExtraRounded}
	validEyes = []string{EyesSquare, EyesDot, EyesExtraRounded}
)

// DotStyles lists the accepted dot styles
func DotStyles() []string {
	return append([]string(nil), validDots...)
}

// EyeStyles lists the accepted eye styles
func EyeStyles() []string {
	return append([]string(nil), validEyes...)
}

// DefaultStyle returns the appearance used when nothing is configured
func DefaultStyle() Style {
	return Style{
		Foreground:        "#000000",
		Background:        "#ffffff",
		BackgroundEnabled: true,
		Dots:              DotsSquare,
		Eyes:              EyesSquare,
		LogoSize:          22,
		LogoRadius:        18,
	}
}

// BackgroundColor returns the effective background, honouring BackgroundEnabled
func (s Style) BackgroundColor() string {
	if !s.BackgroundEnabled {
		return Transparent
	}
	return s.Background
}
