package qrformat

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Size limits for rendered images, in pixels
const (
	MinImageSize = 64
	MaxImageSize = 4096
)

// Logo sizing limits, in percent
const (
	MaxLogoSize   = 40
	MaxLogoRadius = 50
	MaxMargin     = 16
)

// Validate checks a Style before it reaches the renderer
func (s Style) Validate() error {
	if err := validateColor(s.Foreground, false); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if s.BackgroundEnabled {
		if err := validateColor(s.Background, true); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}

	if !contains(validDots, s.Dots) {
		return fmt.Errorf("invalid dots style '%s' (must be %s)", s.Dots, strings.Join(validDots, ", "))
	}
	if !contains(validEyes, s.Eyes) {
		return fmt.Errorf("invalid eyes style '%s' (must be %s)", s.Eyes, strings.Join(validEyes, ", "))
	}

	if s.LogoSize < 0 || s.LogoSize > MaxLogoSize {
		return fmt.Errorf("invalid logo_size %d (must be 0-%d)", s.LogoSize, MaxLogoSize)
	}
	if s.LogoRadius < 0 || s.LogoRadius > MaxLogoRadius {
		return fmt.Errorf("invalid logo_radius %d (must be 0-%d)", s.LogoRadius, MaxLogoRadius)
	}
	if s.Margin < 0 || s.Margin > MaxMargin {
		return fmt.Errorf("invalid margin %d (must be 0-%d)", s.Margin, MaxMargin)
	}

	return nil
}

// ValidateSize checks an image side length
func ValidateSize(size int) error {
	if size < MinImageSize || size > MaxImageSize {
		return fmt.Errorf("invalid size %d (must be %d-%d)", size, MinImageSize, MaxImageSize)
	}
	return nil
}

// validateColor accepts #rgb and #rrggbb, plus "transparent" when allowed
func validateColor(c string, allowTransparent bool) error {
	c = strings.TrimSpace(c)
	if c == "" {
		return fmt.Errorf("color is required")
	}
	if strings.EqualFold(c, Transparent) {
		if allowTransparent {
			return nil
		}
		return fmt.Errorf("color cannot be transparent")
	}
	_, err := ParseColor(c)
	return err
}

// ParseColor reads a #rgb or #rrggbb colour. Surrounding whitespace is
// ignored and hex digits may be either case.
func ParseColor(c string) (colorful.Color, error) {
	hex := strings.ToLower(strings.TrimSpace(c))
	col, err := colorful.Hex(hex)
	// colorful.Hex stops at the first non-hex digit, so the parsed value
	// must print back to the same colour
	if err != nil || col.Hex() != expandHex(hex) {
		return colorful.Color{}, fmt.Errorf("invalid color '%s' (must be #rgb or #rrggbb)", strings.TrimSpace(c))
	}
	return col, nil
}

// expandHex turns #rgb into #rrggbb
func expandHex(c string) string {
	if len(c) != 4 {
		return c
	}
	return string([]byte{'#', c[1], c[1], c[2], c[2], c[3], c[3]})
}
