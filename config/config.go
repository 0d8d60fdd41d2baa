// Package config resolves converter settings from defaults, an optional TOML
// file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"

	"github.com/lixenwraith/ascii-mosaic/export"
	"github.com/lixenwraith/ascii-mosaic/raster"
	"github.com/lixenwraith/ascii-mosaic/terminal"
)

// Output width range exposed to users
const (
	MinWidth     = 50
	MaxWidth     = 200
	DefaultWidth = 100
)

const defaultMaxUpload = 10 << 20

// Environment variable names
const (
	EnvDetail    = "ASCII_MOSAIC_DETAIL"
	EnvWidth     = "ASCII_MOSAIC_WIDTH"
	EnvColor     = "ASCII_MOSAIC_COLOR"
	EnvResample  = "ASCII_MOSAIC_RESAMPLE"
	EnvInvert    = "ASCII_MOSAIC_INVERT"
	EnvFormat    = "ASCII_MOSAIC_FORMAT"
	EnvDepth     = "ASCII_MOSAIC_COLOR_DEPTH"
	EnvOutputDir = "ASCII_MOSAIC_OUTPUT_DIR"
	EnvSound     = "ASCII_MOSAIC_SOUND"
	EnvAddr      = "ASCII_MOSAIC_ADDR"
)

// Config holds every user-facing setting
type Config struct {
	Detail     string `toml:"detail"`
	Width      int    `toml:"width"`
	Colorize   bool   `toml:"color"`
	Resample   string `toml:"resample"`
	Invert     bool   `toml:"invert"`
	Format     string `toml:"format"`
	ColorDepth string `toml:"color_depth"`
	OutputDir  string `toml:"output_dir"`

	Sound  SoundConfig  `toml:"sound"`
	Server ServerConfig `toml:"server"`
}

// SoundConfig controls previewer audio feedback
type SoundConfig struct {
	Enabled bool    `toml:"enabled"`
	Volume  float64 `toml:"volume"` // 0.0-1.0
}

// ServerConfig controls the HTTP service
type ServerConfig struct {
	Addr           string `toml:"addr"`
	MaxUploadBytes int64  `toml:"max_upload_bytes"`
	ReadTimeout    string `toml:"read_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
}

// Default returns the built-in settings
func Default() *Config {
	return &Config{
		Detail:     raster.Medium.String(),
		Width:      DefaultWidth,
		Colorize:   false,
		Resample:   raster.ResampleNearest.String(),
		Invert:     false,
		Format:     "auto",
		ColorDepth: "auto",
		OutputDir:  ".",
		Sound: SoundConfig{
			Enabled: false,
			Volume:  0.5,
		},
		Server: ServerConfig{
			Addr:           ":8080",
			MaxUploadBytes: defaultMaxUpload,
			ReadTimeout:    "10s",
			WriteTimeout:   "30s",
		},
	}
}

// Load builds the configuration: defaults, then the TOML file at path (if
// non-empty), then environment overrides. The result is validated.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile overlays values present in the TOML file at path
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	md, err := toml.Decode(string(data), c)
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("parse config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// ApplyEnv overlays environment variables; unparsable values are ignored
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvDetail); v != "" {
		c.Detail = v
	}
	if v := os.Getenv(EnvWidth); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Width = n
		}
	}
	if v := os.Getenv(EnvColor); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Colorize = b
		}
	}
	if v := os.Getenv(EnvResample); v != "" {
		c.Resample = v
	}
	if v := os.Getenv(EnvInvert); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Invert = b
		}
	}
	if v := os.Getenv(EnvFormat); v != "" {
		c.Format = v
	}
	if v := os.Getenv(EnvDepth); v != "" {
		c.ColorDepth = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv(EnvSound); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Sound.Enabled = b
		}
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks enumerated values and clamps numeric ranges in place
func (c *Config) Validate() error {
	var errs []error

	if _, err := raster.ParseDetailLevel(c.Detail); err != nil {
		errs = append(errs, err)
	}
	if _, err := raster.ParseResampleMode(c.Resample); err != nil {
		errs = append(errs, err)
	}
	if _, err := export.ParseFormat(c.Format, c.Colorize); err != nil {
		errs = append(errs, err)
	}
	if _, err := terminal.ParseColorMode(c.ColorDepth); err != nil {
		errs = append(errs, err)
	}

	c.Width = ClampWidth(c.Width)

	if c.Sound.Volume < 0 {
		c.Sound.Volume = 0
	}
	if c.Sound.Volume > 1 {
		c.Sound.Volume = 1
	}
	if c.Server.MaxUploadBytes <= 0 {
		c.Server.MaxUploadBytes = defaultMaxUpload
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// ClampWidth limits an output width to [MinWidth, MaxWidth]
func ClampWidth(w int) int {
	if w < MinWidth {
		return MinWidth
	}
	if w > MaxWidth {
		return MaxWidth
	}
	return w
}

// Raster returns the conversion settings. Invalid enumerations fall back to
// their defaults; call Validate first to surface them.
func (c *Config) Raster() raster.Config {
	detail, _ := raster.ParseDetailLevel(c.Detail)
	mode, _ := raster.ParseResampleMode(c.Resample)
	return raster.Config{
		Detail:      detail,
		OutputWidth: ClampWidth(c.Width),
		Colorize:    c.Colorize,
		Resample:    mode,
		Invert:      c.Invert,
	}
}

// OutputFormat resolves the export format for the current color setting
func (c *Config) OutputFormat() export.Format {
	f, _ := export.ParseFormat(c.Format, c.Colorize)
	return f
}

// TerminalColorMode resolves the ANSI color depth
func (c *Config) TerminalColorMode() terminal.ColorMode {
	m, _ := terminal.ParseColorMode(c.ColorDepth)
	return m
}
