// Package config handles treeline configuration: theme colors, glyph
// set, and the root label. Configuration is optional; a missing file
// means defaults, not an error.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Sentinel errors.
var ErrInvalid = errors.New("invalid config")

// Config is the on-disk configuration.
type Config struct {
	Version   int    `yaml:"version"`
	RootLabel string `yaml:"root_label,omitempty"`
	Glyphs    string `yaml:"glyphs,omitempty"` // "unicode" or "ascii"
	Theme     Theme  `yaml:"theme,omitempty"`

	// path is where the config was loaded from (not serialized).
	path string `yaml:"-"`
}

// Theme holds the palette as ANSI 256 color codes or hex strings.
// Empty values fall back to the terminal defaults.
type Theme struct {
	Foreground         string `yaml:"foreground,omitempty"`
	Background         string `yaml:"background,omitempty"`
	SelectedForeground string `yaml:"selected_foreground,omitempty"`
	SelectedBackground string `yaml:"selected_background,omitempty"`
	Connector          string `yaml:"connector,omitempty"`
}

// Path returns the file the config was loaded from, or the default
// location for a config created from defaults.
func (c *Config) Path() string {
	return c.path
}

// GlyphSet resolves the effective glyph set name, letting the
// TREELINE_GLYPHS environment variable override the file.
func (c *Config) GlyphSet() string {
	if v := strings.ToLower(strings.TrimSpace(os.Getenv(glyphsEnv))); v != "" {
		if v == GlyphsASCII || v == GlyphsUnicode {
			return v
		}
	}
	if c.Glyphs == "" {
		return GlyphsUnicode
	}
	return c.Glyphs
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	switch c.Glyphs {
	case "", GlyphsUnicode, GlyphsASCII:
	default:
		return fmt.Errorf("%w: glyphs must be %q or %q, got %q", ErrInvalid, GlyphsUnicode, GlyphsASCII, c.Glyphs)
	}
	if c.RootLabel == "" {
		return fmt.Errorf("%w: root_label is required", ErrInvalid)
	}
	return nil
}

// NewDefault creates a Config with default values, nominally located at
// path (which need not exist).
func NewDefault(path string) *Config {
	return &Config{
		Version:   CurrentVersion,
		RootLabel: DefaultRootLabel,
		Glyphs:    GlyphsUnicode,
		Theme: Theme{
			SelectedForeground: DefaultSelectedFG,
			SelectedBackground: DefaultSelectedBG,
			Connector:          DefaultConnectorColor,
		},
		path: path,
	}
}

// DefaultPath returns ~/.config/treeline/config.yml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config/treeline", ConfigFileName), nil
}

// Load reads and validates the config at path. A missing file yields
// the defaults; a present but malformed file is an error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return NewDefault(path), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := NewDefault(path)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.path = path

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config to its path, creating parent directories.
func (c *Config) Save() error {
	const dirMode = 0o750
	if err := os.MkdirAll(filepath.Dir(c.path), dirMode); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.path, data, fileMode)
}
