// Package system provides infrastructure for system-level configuration.
// This is the user's ~/.vitae/config.yaml, separate from any CV document.
package system

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	apperrors "github.com/vitae-cv/vitae/internal/application/errors"
)

// Config represents the global configuration file (~/.vitae/config.yaml).
type Config struct {
	Render    RenderConfig    `yaml:"render"`
	Themes    ThemesConfig    `yaml:"themes"`
	Redaction RedactionConfig `yaml:"redaction"`
	Server    ServerConfig    `yaml:"server"`
}

// RenderConfig holds render defaults. Document settings override them.
type RenderConfig struct {
	OutputDir string   `yaml:"output_dir"`
	Formats   []string `yaml:"formats" validate:"dive,oneof=markdown html pdf"`
	// ChromePath points at a Chrome/Chromium binary for PDF output. Empty
	// means let chromedp find one.
	ChromePath string `yaml:"chrome_path"`
	// PDFTimeout bounds one PDF render, e.g. "30s".
	PDFTimeout string `yaml:"pdf_timeout"`
}

// ThemesConfig configures where custom themes are looked up.
type ThemesConfig struct {
	// Dirs are searched in order after the working directory.
	Dirs []string `yaml:"dirs"`
}

// RedactionConfig configures how offending values are sanitized in reports.
type RedactionConfig struct {
	HashMode HashModeConfig `yaml:"hash_mode"`
	Patterns []string       `yaml:"patterns"`
	// Personal hides the CV owner's email and phone in reports.
	Personal        bool `yaml:"personal"`
	DisableGitleaks bool `yaml:"disable_gitleaks"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt"`
	Enabled bool   `yaml:"enabled"`
}

// ServerConfig configures `vitae serve`.
type ServerConfig struct {
	Address   string `yaml:"address" validate:"required,hostname_port"`
	BodyLimit int    `yaml:"body_limit" validate:"gte=0"`
}

// PDFTimeoutDuration parses PDFTimeout, falling back to 30s.
func (r RenderConfig) PDFTimeoutDuration() time.Duration {
	if d, err := time.ParseDuration(r.PDFTimeout); err == nil && d > 0 {
		return d
	}
	return 30 * time.Second
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct {
	validate *validator.Validate
}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// DefaultPath returns ~/.vitae/config.yaml.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".vitae", "config.yaml")
	}
	return filepath.Join(home, ".vitae", "config.yaml")
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no system config file exists.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{
			OutputDir:  "vitae_output",
			Formats:    []string{"markdown", "html"},
			PDFTimeout: "30s",
		},
		Themes: ThemesConfig{
			Dirs: []string{},
		},
		Redaction: RedactionConfig{
			HashMode: HashModeConfig{
				Enabled: false,
			},
			Patterns: []string{},
		},
		Server: ServerConfig{
			Address:   "127.0.0.1:8080",
			BodyLimit: 1 << 20,
		},
	}
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig() with safe defaults.
// Keys present in the file override the defaults; absent keys keep them.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := yaml.UnmarshalWithOptions(data, config, yaml.Strict()); err != nil {
		return nil, apperrors.NewConfigurationError(path, "failed to parse system config", err)
	}

	if err := l.validate.Struct(config); err != nil {
		return nil, apperrors.NewConfigurationError(path, "invalid system config", err)
	}
	if config.Render.PDFTimeout != "" {
		if _, err := time.ParseDuration(config.Render.PDFTimeout); err != nil {
			return nil, apperrors.NewConfigurationError(path, "invalid system config: render.pdf_timeout", err)
		}
	}

	return config, nil
}
