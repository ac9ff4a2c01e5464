package renderer

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"math"
	"os"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"github.com/gabriel-vasile/mimetype"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
	_ "golang.org/x/image/webp"
)

// MaxLogoBytes is the largest logo file accepted
const MaxLogoBytes = 8 * 1024 * 1024

// Messages shown when a logo is rejected
const (
	MsgLogoNotImage = "Logo must be an image."
	MsgLogoTooLarge = "Logo must be less than 8 MB."
)

// logoPadding is the gap between the cutout edge and the logo, as a share of the box
const logoPadding = 0.06

// Logo is a decoded logo ready to be drawn onto a QR code
type Logo struct {
	Image     image.Image
	MediaType string
	Bytes     int
}

// LoadLogo validates and decodes logo file contents
func LoadLogo(data []byte) (*Logo, error) {
	mt := mimetype.Detect(data)
	if len(data) == 0 || !strings.HasPrefix(mt.String(), "image/") {
		return nil, &qrformat.ValidationError{Field: "logo", Message: MsgLogoNotImage}
	}
	if len(data) > MaxLogoBytes {
		return nil, &qrformat.ValidationError{Field: "logo", Message: MsgLogoTooLarge}
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, &qrformat.RenderError{Op: "decode logo", Err: err}
	}

	return &Logo{
		Image:     img,
		MediaType: mt.String(),
		Bytes:     len(data),
	}, nil
}

// LoadLogoFile reads and decodes a logo from disk
func LoadLogoFile(path string) (*Logo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	if info.Size() > MaxLogoBytes {
		return nil, &qrformat.ValidationError{Field: "logo", Message: MsgLogoTooLarge}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read logo: %w", err)
	}
	return LoadLogo(data)
}

// drawLogo clears a rounded box in the centre of the canvas and fits the
// logo inside it, clipped to the same corner radius.
func drawLogo(dc *gg.Context, logo *Logo, size, sizePct, radiusPct int) {
	side := float64(size)
	box := math.Round(side * float64(sizePct) / 100)
	x := (side - box) / 2
	y := x
	radius := math.Round(box * float64(radiusPct) / 100)
	pad := math.Round(box * logoPadding)

	dc.Push()
	dc.SetColor(color.White)
	roundRect(dc, x, y, box, box, radius)
	dc.Fill()
	dc.Pop()

	bounds := logo.Image.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	maxSide := box - pad*2
	scale := math.Min(maxSide/float64(bounds.Dx()), maxSide/float64(bounds.Dy()))
	w := float64(bounds.Dx()) * scale
	h := float64(bounds.Dy()) * scale
	if w < 1 || h < 1 {
		return
	}
	cx := x + (box-w)/2
	cy := y + (box-h)/2

	scaled := imaging.Resize(logo.Image, int(math.Round(w)), int(math.Round(h)), imaging.Lanczos)

	dc.Push()
	roundRect(dc, cx, cy, w, h, radius)
	dc.Clip()
	dc.DrawImage(scaled, int(math.Round(cx)), int(math.Round(cy)))
	dc.Pop()
}

// roundRect adds a rounded rectangle path, clamping the radius to half the shorter side
func roundRect(dc *gg.Context, x, y, w, h, r float64) {
	r = math.Min(r, math.Min(w/2, h/2))
	if r <= 0 {
		dc.DrawRectangle(x, y, w, h)
		return
	}
	dc.DrawRoundedRectangle(x, y, w, h, r)
}
