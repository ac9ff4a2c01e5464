// Package config loads qr-engine settings from YAML
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/thereceipt/qr-engine/internal/export"
	"github.com/thereceipt/qr-engine/internal/renderer"
	"github.com/thereceipt/qr-engine/pkg/qrformat"
	"gopkg.in/yaml.v3"
)

// EnvPath names the environment variable that overrides the config path
const EnvPath = "QR_ENGINE_CONFIG"

// FileName is the default config file name
const FileName = "qr-engine.yaml"

// Config holds every tunable of the engine
type Config struct {
	PreviewSize int            `yaml:"preview_size"`
	Debounce    time.Duration  `yaml:"debounce"`
	Backend     string         `yaml:"backend"`
	LogLevel    string         `yaml:"log_level"`
	Export      Export         `yaml:"export"`
	Style       qrformat.Style `yaml:"style"`
}

// Export configures file exports
type Export struct {
	Dir        string `yaml:"dir"`
	Resolution int    `yaml:"resolution"`
	Format     string `yaml:"format"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		PreviewSize: 380,
		Debounce:    160 * time.Millisecond,
		Backend:     renderer.BackendSkip2,
		LogLevel:    "info",
		Export: Export{
			Dir:        ".",
			Resolution: 1024,
			Format:     string(export.FormatPNG),
		},
		Style: qrformat.DefaultStyle(),
	}
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Parse decodes YAML into cfg and validates the result
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg.Validate()
}

// Validate checks ranges and names
func (c Config) Validate() error {
	if err := qrformat.ValidateSize(c.PreviewSize); err != nil {
		return fmt.Errorf("preview_size: %w", err)
	}
	if c.Debounce < 0 || c.Debounce > 5*time.Second {
		return fmt.Errorf("invalid debounce %s (must be 0-5s)", c.Debounce)
	}
	if _, err := renderer.NewBackend(c.Backend); err != nil {
		return fmt.Errorf("backend: %w", err)
	}
	if err := qrformat.ValidateSize(c.Export.Resolution); err != nil {
		return fmt.Errorf("export.resolution: %w", err)
	}
	if _, err := export.ParseFormat(c.Export.Format); err != nil {
		return fmt.Errorf("export.format: %w", err)
	}
	if err := c.Style.Validate(); err != nil {
		return fmt.Errorf("style: %w", err)
	}
	return nil
}

// ResolvePath picks the config file: the environment variable first, then
// the flag value, then the user config directory, then the working directory.
func ResolvePath(flagPath string) string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	if flagPath != "" {
		return flagPath
	}
	if dir, err := os.UserConfigDir(); err == nil {
		p := filepath.Join(dir, "qr-engine", FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	if wd, err := os.Getwd(); err == nil {
		return filepath.Join(wd, FileName)
	}
	return FileName
}
