package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 380, cfg.PreviewSize)
	assert.Equal(t, 160*time.Millisecond, cfg.Debounce)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qr-engine.yaml")
	data := []byte(`
debounce: 250ms
backend: boombuler
export:
  dir: /tmp/qr
  format: svg
style:
  foreground: "#112233"
  dots: rounded
  background_enabled: false
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	want := Default()
	want.Debounce = 250 * time.Millisecond
	want.Backend = "boombuler"
	want.Export.Dir = "/tmp/qr"
	want.Export.Format = "svg"
	want.Style.Foreground = "#112233"
	want.Style.Dots = "rounded"
	want.Style.BackgroundEnabled = false

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":      "preview_size: [",
		"small size":    "preview_size: 8",
		"backend":       "backend: zxing",
		"format":        "export: {format: gif}",
		"dots":          "style: {dots: stars}",
		"long debounce": "debounce: 1m",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			assert.Error(t, Parse([]byte(doc), &cfg))
		})
	}
}

func TestResolvePath(t *testing.T) {
	t.Setenv(EnvPath, "/etc/qr.yaml")
	assert.Equal(t, "/etc/qr.yaml", ResolvePath("ignored.yaml"))

	t.Setenv(EnvPath, "")
	assert.Equal(t, "custom.yaml", ResolvePath("custom.yaml"))
}
