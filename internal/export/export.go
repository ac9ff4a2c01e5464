// Package export writes composed QR images to files and the clipboard
package export

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"strings"
	"time"

	"github.com/disintegration/imaging"
)

// Format is an export file format
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// ParseFormat resolves a format name
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPNG:
		return FormatPNG, nil
	case FormatSVG:
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("invalid format '%s' (must be png or svg)", s)
	}
}

// MediaType returns the MIME type of files in this format
func (f Format) MediaType() string {
	if f == FormatSVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Filename returns the download name for an export made at now
func Filename(format Format, now time.Time) string {
	return fmt.Sprintf("qr-%d.%s", now.UnixMilli(), format)
}

// EncodePNG writes img as PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// EncodeSVG wraps img as a base64 PNG inside a minimal SVG document
func EncodeSVG(w io.Writer, img image.Image) error {
	data, err := DataURL(img)
	if err != nil {
		return err
	}

	size := img.Bounds().Dx()
	_, err = fmt.Fprintf(w,
		`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d">`+"\n"+
			`  <image href="%s" width="%d" height="%d" />`+"\n"+
			`</svg>`+"\n",
		size, size, data, size, size)
	if err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// DataURL returns img as a data:image/png;base64 URL
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Encode writes img in the requested format
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatPNG:
		return EncodePNG(w, img)
	case FormatSVG:
		return EncodeSVG(w, img)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}
