package renderer

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

func backends(t *testing.T) []Backend {
	t.Helper()
	var out []Backend
	for _, name := range []string{BackendSkip2, BackendBoombuler} {
		b, err := NewBackend(name)
		require.NoError(t, err)
		out = append(out, b)
	}
	return out
}

func isDark(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a > 0xf000 && r < 0x1000 && g < 0x1000 && b < 0x1000
}

func isWhite(c color.Color) bool {
	r, g, b, a := c.RGBA()
	return a > 0xf000 && r > 0xf000 && g > 0xf000 && b > 0xf000
}

func TestBackends_FinderPattern(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.Name(), func(t *testing.T) {
			m, err := b.Encode("hello")
			require.NoError(t, err)
			assert.Equal(t, 21, m.Size())

			assert.True(t, m.Dark(0, 0), "finder corner")
			assert.False(t, m.Dark(1, 1), "finder ring gap")
			assert.True(t, m.Dark(3, 3), "finder centre")
			assert.True(t, m.InFinder(20, 0))
			assert.True(t, m.InFinder(0, 20))
			assert.False(t, m.InFinder(20, 20))
			assert.False(t, m.Dark(-1, 0))
			assert.False(t, m.Dark(0, 21))
		})
	}
}

func TestNewBackend_Unknown(t *testing.T) {
	_, err := NewBackend("zxing")
	assert.Error(t, err)

	b, err := NewBackend("")
	require.NoError(t, err)
	assert.Equal(t, BackendSkip2, b.Name())
}

func TestCompose_Square(t *testing.T) {
	for _, b := range backends(t) {
		t.Run(b.Name(), func(t *testing.T) {
			r := New(b)
			img, err := r.Compose(context.Background(), Request{
				Payload: "hello",
				Size:    210,
				Style:   qrformat.DefaultStyle(),
			})
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 210, 210), img.Bounds())

			// 21 modules at 10px each
			assert.True(t, isDark(img.At(5, 5)), "finder ring")
			assert.True(t, isWhite(img.At(15, 15)), "finder gap")
			assert.True(t, isDark(img.At(35, 35)), "finder centre")
		})
	}
}

func TestCompose_AllStyles(t *testing.T) {
	r := New(nil)
	for _, dots := range qrformat.DotStyles() {
		for _, eyes := range qrformat.EyeStyles() {
			style := qrformat.DefaultStyle()
			style.Dots = dots
			style.Eyes = eyes

			img, err := r.Compose(context.Background(), Request{Payload: "https://example.com", Size: 256, Style: style})
			require.NoError(t, err, "dots=%s eyes=%s", dots, eyes)
			assert.Equal(t, 256, img.Bounds().Dx())
		}
	}
}

func TestCompose_TransparentBackground(t *testing.T) {
	style := qrformat.DefaultStyle()
	style.BackgroundEnabled = false

	img, err := New(nil).Compose(context.Background(), Request{Payload: "hello", Size: 210, Style: style})
	require.NoError(t, err)

	_, _, _, a := img.At(15, 15).RGBA()
	assert.Zero(t, a, "gap between finder ring and centre should be transparent")
	assert.True(t, isDark(img.At(5, 5)))
}

func TestCompose_Margin(t *testing.T) {
	style := qrformat.DefaultStyle()
	style.Margin = 2

	img, err := New(nil).Compose(context.Background(), Request{Payload: "hello", Size: 250, Style: style})
	require.NoError(t, err)

	// 25 modules at 10px, the code starts after two light modules
	assert.True(t, isWhite(img.At(5, 5)))
	assert.True(t, isDark(img.At(25, 25)))
}

func TestCompose_ForegroundColor(t *testing.T) {
	style := qrformat.DefaultStyle()
	style.Foreground = "#f00"

	img, err := New(nil).Compose(context.Background(), Request{Payload: "hello", Size: 210, Style: style})
	require.NoError(t, err)

	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Greater(t, r, uint32(0xf000))
	assert.Less(t, g, uint32(0x1000))
	assert.Less(t, b, uint32(0x1000))
}

func pngBytes(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestCompose_Logo(t *testing.T) {
	logo, err := LoadLogo(pngBytes(t, 40, 40, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)
	assert.Equal(t, "image/png", logo.MediaType)

	style := qrformat.DefaultStyle()
	style.LogoSize = 30

	img, err := New(nil).Compose(context.Background(), Request{
		Payload: "https://example.com/with/a/longer/path",
		Size:    420,
		Style:   style,
		Logo:    logo,
	})
	require.NoError(t, err)

	r, g, b, _ := img.At(210, 210).RGBA()
	assert.Greater(t, r, uint32(0xf000), "logo centre should be red")
	assert.Less(t, g, uint32(0x1000))
	assert.Less(t, b, uint32(0x1000))

	// box is 126px starting at 147; the logo is inset by 8px of padding
	assert.True(t, isWhite(img.At(150, 210)), "cutout padding should be white")
}

func TestCompose_LogoSizeZeroSkipsLogo(t *testing.T) {
	logo, err := LoadLogo(pngBytes(t, 10, 10, color.RGBA{R: 255, A: 255}))
	require.NoError(t, err)

	style := qrformat.DefaultStyle()
	style.LogoSize = 0

	img, err := New(nil).Compose(context.Background(), Request{Payload: "hello", Size: 210, Style: style, Logo: logo})
	require.NoError(t, err)

	r, g, _, _ := img.At(105, 105).RGBA()
	assert.False(t, r > 0xf000 && g < 0x1000, "no red pixels expected")
}

func TestCompose_Errors(t *testing.T) {
	r := New(nil)

	tests := []struct {
		name string
		req  Request
	}{
		{"empty payload", Request{Size: 256, Style: qrformat.DefaultStyle()}},
		{"size too small", Request{Payload: "x", Size: 10, Style: qrformat.DefaultStyle()}},
		{"bad style", Request{Payload: "x", Size: 256, Style: qrformat.Style{Foreground: "red"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.Compose(context.Background(), tt.req)
			var re *qrformat.RenderError
			require.True(t, errors.As(err, &re), "expected RenderError, got %v", err)
			assert.Equal(t, qrformat.RenderMessage, err.Error())
		})
	}
}

func TestCompose_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Compose(ctx, Request{Payload: "x", Size: 256, Style: qrformat.DefaultStyle()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadLogo_RejectsNonImage(t *testing.T) {
	_, err := LoadLogo([]byte("just some text"))
	var ve *qrformat.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, MsgLogoNotImage, ve.Message)

	_, err = LoadLogo(nil)
	assert.EqualError(t, err, MsgLogoNotImage)
}

func TestLoadLogo_RejectsLargeFile(t *testing.T) {
	data := make([]byte, MaxLogoBytes+1)
	copy(data, []byte("\x89PNG\r\n\x1a\n"))

	_, err := LoadLogo(data)
	assert.EqualError(t, err, MsgLogoTooLarge)
}

func TestLoadLogo_CorruptImage(t *testing.T) {
	data := pngBytes(t, 4, 4, color.Black)
	_, err := LoadLogo(data[:len(data)/2])

	var re *qrformat.RenderError
	assert.True(t, errors.As(err, &re), "expected RenderError, got %v", err)
}

func TestParseColor(t *testing.T) {
	c, err := parseColor("transparent")
	require.NoError(t, err)
	assert.True(t, isTransparent(c))

	c, err = parseColor("#FFFFFF")
	require.NoError(t, err)
	assert.True(t, isWhite(c))

	_, err = parseColor("white")
	assert.Error(t, err)
}

func TestParseColor_MatchesStyleValidation(t *testing.T) {
	for _, in := range []string{" #ff0000 ", "#F00", "#12345g", "#1234567", "#ggg"} {
		style := qrformat.DefaultStyle()
		style.Foreground = in

		_, parseErr := parseColor(in)
		validateErr := style.Validate()
		assert.Equal(t, parseErr == nil, validateErr == nil, "colour %q: parse=%v validate=%v", in, parseErr, validateErr)
	}
}
