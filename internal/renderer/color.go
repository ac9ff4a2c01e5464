package renderer

import (
	"image/color"
	"strings"

	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// parseColor reads #rgb, #rrggbb or the transparent keyword
func parseColor(s string) (color.Color, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, qrformat.Transparent) {
		return color.Transparent, nil
	}
	c, err := qrformat.ParseColor(s)
	if err != nil {
		return nil, err
	}
	return c.Clamped(), nil
}

func isTransparent(c color.Color) bool {
	_, _, _, a := c.RGBA()
	return a == 0
}
