// Package renderer composes styled QR code images with an optional logo
package renderer

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/fogleman/gg"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

// Request describes one image to compose
type Request struct {
	Payload string
	Size    int // side length in pixels
	Style   qrformat.Style
	Logo    *Logo
}

// Composer renders a payload into a raster image
type Composer interface {
	Compose(ctx context.Context, req Request) (image.Image, error)
}

// Renderer draws QR codes onto a gg canvas
type Renderer struct {
	backend Backend
}

// New creates a renderer on top of a matrix backend
func New(backend Backend) *Renderer {
	if backend == nil {
		backend = skip2Backend{}
	}
	return &Renderer{backend: backend}
}

// Backend returns the matrix backend in use
func (r *Renderer) Backend() Backend {
	return r.backend
}

// Compose renders req. Every failure is reported as a *qrformat.RenderError.
func (r *Renderer) Compose(ctx context.Context, req Request) (image.Image, error) {
	img, err := r.compose(ctx, req)
	if err != nil {
		if _, ok := err.(*qrformat.RenderError); ok {
			return nil, err
		}
		return nil, &qrformat.RenderError{Op: "compose", Err: err}
	}
	return img, nil
}

func (r *Renderer) compose(ctx context.Context, req Request) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Payload == "" {
		return nil, fmt.Errorf("payload is empty")
	}
	if err := qrformat.ValidateSize(req.Size); err != nil {
		return nil, err
	}
	if err := req.Style.Validate(); err != nil {
		return nil, fmt.Errorf("invalid style: %w", err)
	}

	fg, err := parseColor(req.Style.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := parseColor(req.Style.BackgroundColor())
	if err != nil {
		return nil, err
	}

	matrix, err := r.backend.Encode(req.Payload)
	if err != nil {
		return nil, &qrformat.RenderError{Op: "encode", Err: err}
	}

	modules := matrix.Size() + 2*req.Style.Margin
	cell := math.Floor(float64(req.Size) / float64(modules))
	if cell < 1 {
		return nil, fmt.Errorf("size %d is too small for %d modules", req.Size, modules)
	}
	// Centre the grid; leftover pixels are split around it
	origin := math.Floor((float64(req.Size) - cell*float64(matrix.Size())) / 2)

	dc := gg.NewContext(req.Size, req.Size)
	if !isTransparent(bg) {
		dc.SetColor(bg)
		dc.Clear()
	}

	dc.SetColor(fg)
	g := grid{matrix: matrix, cell: cell, originX: origin, originY: origin}
	g.drawDots(dc, req.Style.Dots)
	g.drawEyes(dc, req.Style.Eyes)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if req.Logo != nil && req.Style.LogoSize > 0 {
		drawLogo(dc, req.Logo, req.Size, req.Style.LogoSize, req.Style.LogoRadius)
	}

	return dc.Image(), nil
}
