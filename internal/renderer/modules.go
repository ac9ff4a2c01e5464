package renderer

import (
	"github.com/fogleman/gg"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// grid maps module coordinates to canvas pixels
type grid struct {
	matrix  *Matrix
	cell    float64
	originX float64
	originY float64
}

func (g grid) pos(x, y int) (float64, float64) {
	return g.originX + float64(x)*g.cell, g.originY + float64(y)*g.cell
}

// dot reports a dark data module; finder modules are drawn as eyes
func (g grid) dot(x, y int) bool {
	return g.matrix.Dark(x, y) && !g.matrix.InFinder(x, y)
}

func (g grid) drawDots(dc *gg.Context, style string) {
	s := g.cell
	n := g.matrix.Size()

	for y := 0; y < n; y++ {
		for x := 0; x < n; x++ {
			if !g.dot(x, y) {
				continue
			}
			px, py := g.pos(x, y)

			switch style {
			case qrformat.DotsDots:
				dc.DrawCircle(px+s/2, py+s/2, s/2)
			case qrformat.DotsRounded:
				g.joinedRoundedDot(dc, x, y, px, py, s*0.25)
			case qrformat.DotsExtraRounded:
				g.joinedRoundedDot(dc, x, y, px, py, s/2)
			default:
				dc.DrawRectangle(px, py, s, s)
			}
		}
	}
	dc.Fill()
}

// joinedRoundedDot rounds the corners of a module, then squares off every
// side that touches a dark neighbour so runs of modules read as one shape.
func (g grid) joinedRoundedDot(dc *gg.Context, x, y int, px, py, r float64) {
	s := g.cell
	half := s / 2

	dc.DrawRoundedRectangle(px, py, s, s, r)
	if g.dot(x-1, y) {
		dc.DrawRectangle(px, py, half, s)
	}
	if g.dot(x+1, y) {
		dc.DrawRectangle(px+half, py, half, s)
	}
	if g.dot(x, y-1) {
		dc.DrawRectangle(px, py, s, half)
	}
	if g.dot(x, y+1) {
		dc.DrawRectangle(px, py+half, s, half)
	}
}

// drawEyes paints the three finder patterns: a 7x7 ring and a 3x3 centre
func (g grid) drawEyes(dc *gg.Context, style string) {
	s := g.cell

	for _, o := range g.matrix.finderOrigins() {
		px, py := g.pos(o[0], o[1])
		outer := 7 * s
		inner := 5 * s
		centre := 3 * s

		dc.SetFillRule(gg.FillRuleEvenOdd)
		switch style {
		case qrformat.EyesDot:
			dc.DrawCircle(px+outer/2, py+outer/2, outer/2)
			dc.DrawCircle(px+outer/2, py+outer/2, inner/2)
		case qrformat.EyesExtraRounded:
			dc.DrawRoundedRectangle(px, py, outer, outer, 2.5*s)
			dc.DrawRoundedRectangle(px+s, py+s, inner, inner, 1.5*s)
		default:
			dc.DrawRectangle(px, py, outer, outer)
			dc.DrawRectangle(px+s, py+s, inner, inner)
		}
		dc.Fill()

		dc.SetFillRule(gg.FillRuleWinding)
		cx, cy := px+2*s, py+2*s
		switch style {
		case qrformat.EyesDot:
			dc.DrawCircle(cx+centre/2, cy+centre/2, centre/2)
		case qrformat.EyesExtraRounded:
			dc.DrawRoundedRectangle(cx, cy, centre, centre, s)
		default:
			dc.DrawRectangle(cx, cy, centre, centre)
		}
		dc.Fill()
	}
}
