package command

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/session"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
)

type memClipboard struct {
	copied int
}

func (m *memClipboard) Copy(ctx context.Context, img image.Image) error {
	m.copied++
	return nil
}

func newExecutor(t *testing.T) (*Executor, *session.Session, string, *memClipboard) {
	t.Helper()
	dir := t.TempDir()
	clip := &memClipboard{}
	s := session.New(session.Options{
		Files:       export.NewFileSink(dir),
		Clipboard:   clip,
		PreviewSize: 128,
		Resolution:  256,
	})
	t.Cleanup(s.Close)
	return NewExecutor(s, export.FormatPNG), s, dir, clip
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{"   ", []string{}},
		{"kind wifi", []string{"kind", "wifi"}},
		{`set value_ssid "Home Network"`, []string{"set", "value_ssid", "Home Network"}},
		{`set c_name 'Jane "JD" Doe'`, []string{"set", "c_name", `Jane "JD" Doe`}},
		{`set value_text a\ b`, []string{"set", "value_text", "a b"}},
	}

	for _, tt := range tests {
		got, err := parseCommand(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := parseCommand(`set value_text "unterminated`)
	assert.Error(t, err)
}

func TestExecute_Unknown(t *testing.T) {
	e, _, _, _ := newExecutor(t)

	res := e.Execute(context.Background(), "print now")
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "unknown command: print")

	res = e.Execute(context.Background(), "")
	assert.False(t, res.Success)
	assert.Equal(t, "empty command", res.Error)
}

func TestExecute_KindAndSet(t *testing.T) {
	e, s, _, _ := newExecutor(t)
	ctx := context.Background()

	res := e.Execute(ctx, "kind WiFi")
	require.True(t, res.Success, res.Error)
	assert.True(t, res.Refresh)
	assert.Equal(t, qrformat.KindWiFi, s.Kind())

	res = e.Execute(ctx, `set value_ssid "Home Network"`)
	require.True(t, res.Success, res.Error)
	assert.Equal(t, `WIFI:T:WPA;S:Home Network;P:;H:false;;`, res.Data["payload"])

	res = e.Execute(ctx, "set value_url example.com")
	assert.False(t, res.Success)

	res = e.Execute(ctx, "kind barcode")
	assert.False(t, res.Success)
	assert.Equal(t, qrformat.KindWiFi, s.Kind())
}

func TestExecute_SetIncompleteForm(t *testing.T) {
	e, s, _, _ := newExecutor(t)

	res := e.Execute(context.Background(), "set value_url")
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "Please enter a URL.")
	_, ok := s.Payload()
	assert.False(t, ok)
}

func TestExecute_Payload(t *testing.T) {
	e, _, _, _ := newExecutor(t)
	ctx := context.Background()

	res := e.Execute(ctx, "payload")
	assert.False(t, res.Success)
	assert.Equal(t, "Please enter a URL.", res.Error)

	e.Execute(ctx, "set value_url example.com")
	res = e.Execute(ctx, "payload")
	require.True(t, res.Success)
	assert.Equal(t, "https://example.com", res.Message)
}

func TestExecute_Style(t *testing.T) {
	e, s, _, _ := newExecutor(t)
	ctx := context.Background()

	for _, cmd := range []string{
		`style fg "#123456"`,
		"style background off",
		"style dots extra-rounded",
		"style eyes dot",
		"style logo-size 30%",
		"style margin 2",
	} {
		res := e.Execute(ctx, cmd)
		require.True(t, res.Success, "%s: %s", cmd, res.Error)
		assert.True(t, res.Refresh)
	}

	style := s.Style()
	assert.Equal(t, "#123456", style.Foreground)
	assert.False(t, style.BackgroundEnabled)
	assert.Equal(t, qrformat.DotsExtraRounded, style.Dots)
	assert.Equal(t, qrformat.EyesDot, style.Eyes)
	assert.Equal(t, 30, style.LogoSize)
	assert.Equal(t, 2, style.Margin)

	for _, cmd := range []string{
		"style dots stars",
		"style logo-size 90",
		"style margin lots",
		"style glow on",
		"style fg",
	} {
		res := e.Execute(ctx, cmd)
		assert.False(t, res.Success, cmd)
	}
	assert.Equal(t, style, s.Style())
}

func TestExecute_ExportAndCopy(t *testing.T) {
	e, _, dir, clip := newExecutor(t)
	ctx := context.Background()

	res := e.Execute(ctx, "export")
	assert.False(t, res.Success)
	assert.Equal(t, "Nothing to export yet.", res.Error)

	res = e.Execute(ctx, "copy")
	assert.False(t, res.Success)

	e.Execute(ctx, "set value_url example.com")

	res = e.Execute(ctx, "export svg")
	require.True(t, res.Success, res.Error)
	path := res.Data["path"].(string)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, ".svg"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<svg"))

	res = e.Execute(ctx, "export gif")
	assert.False(t, res.Success)

	res = e.Execute(ctx, "copy")
	require.True(t, res.Success, res.Error)
	assert.Equal(t, 1, clip.copied)
}

func TestExecute_LogoAndReset(t *testing.T) {
	e, s, _, _ := newExecutor(t)
	ctx := context.Background()

	notImage := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(notImage, []byte("just some text"), 0644))

	res := e.Execute(ctx, "logo "+notImage)
	assert.False(t, res.Success)
	assert.Equal(t, "Logo must be an image.", res.Error)

	res = e.Execute(ctx, "logo remove")
	require.True(t, res.Success)
	assert.False(t, s.HasLogo())

	e.Execute(ctx, "set value_url example.com")
	e.Execute(ctx, "style dots dots")
	res = e.Execute(ctx, "reset")
	require.True(t, res.Success)
	assert.Empty(t, s.Values())
	assert.Equal(t, qrformat.DefaultStyle(), s.Style())
}

func TestExecute_HelpAndFields(t *testing.T) {
	e, _, _, _ := newExecutor(t)
	ctx := context.Background()

	res := e.Execute(ctx, "help")
	require.True(t, res.Success)
	for _, cmd := range []string{"kind", "set", "style", "logo", "export", "copy", "reset"} {
		assert.Contains(t, res.Message, "  "+cmd)
	}

	e.Execute(ctx, "kind upi")
	res = e.Execute(ctx, "fields")
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "value_vpa")
	assert.Contains(t, res.Message, "value_amount")
}
