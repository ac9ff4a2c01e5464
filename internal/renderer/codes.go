package renderer

import (
	"fmt"

	"github.com/boombuler/barcode/qr"
	"github.com/skip2/go-qrcode"
)

// Backend names
const (
	BackendSkip2     = "skip2"
	BackendBoombuler = "boombuler"
)

// Backend turns a payload into a QR module matrix. Error correction is
// always the highest level so a logo can cover the centre.
type Backend interface {
	Name() string
	Encode(payload string) (*Matrix, error)
}

// Matrix is a square grid of QR modules, true meaning dark
type Matrix struct {
	size int
	bits [][]bool
}

// NewMatrix wraps a square bitmap
func NewMatrix(bits [][]bool) *Matrix {
	return &Matrix{size: len(bits), bits: bits}
}

// Size returns the number of modules per side
func (m *Matrix) Size() int {
	return m.size
}

// Dark reports whether the module at (x, y) is dark. Coordinates outside
// the grid are light.
func (m *Matrix) Dark(x, y int) bool {
	if x < 0 || y < 0 || y >= m.size || x >= len(m.bits[y]) {
		return false
	}
	return m.bits[y][x]
}

// InFinder reports whether (x, y) belongs to one of the three 7x7 finder patterns
func (m *Matrix) InFinder(x, y int) bool {
	near := func(v int) bool { return v < finderSize }
	far := func(v int) bool { return v >= m.size-finderSize }
	return (near(x) && near(y)) || (far(x) && near(y)) || (near(x) && far(y))
}

// finderOrigins returns the top-left module of each finder pattern
func (m *Matrix) finderOrigins() [][2]int {
	return [][2]int{
		{0, 0},
		{m.size - finderSize, 0},
		{0, m.size - finderSize},
	}
}

const finderSize = 7

// NewBackend returns the backend registered under name
func NewBackend(name string) (Backend, error) {
	switch name {
	case "", BackendSkip2:
		return skip2Backend{}, nil
	case BackendBoombuler:
		return boombulerBackend{}, nil
	default:
		return nil, fmt.Errorf("unknown qr backend '%s' (must be %s or %s)", name, BackendSkip2, BackendBoombuler)
	}
}

type skip2Backend struct{}

func (skip2Backend) Name() string { return BackendSkip2 }

func (skip2Backend) Encode(payload string) (*Matrix, error) {
	code, err := qrcode.New(payload, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	// Quiet zone is handled by Style.Margin
	code.DisableBorder = true
	return NewMatrix(code.Bitmap()), nil
}

type boombulerBackend struct{}

func (boombulerBackend) Name() string { return BackendBoombuler }

func (boombulerBackend) Encode(payload string) (*Matrix, error) {
	code, err := qr.Encode(payload, qr.H, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}

	bounds := code.Bounds()
	n := bounds.Dx()
	bits := make([][]bool, n)
	for y := 0; y < n; y++ {
		bits[y] = make([]bool, n)
		for x := 0; x < n; x++ {
			r, _, _, _ := code.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			bits[y][x] = r < 0x8000
		}
	}
	return NewMatrix(bits), nil
}
