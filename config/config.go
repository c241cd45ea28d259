// Package config loads tally settings from defaults, an optional YAML file
// and TALLY_* environment variables, in that order of precedence.
package config

import (
	"fmt"

	"golang.org/x/text/language"

	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/format"
)

// Config is the complete set of tally settings.
type Config struct {
	Locale              string            `yaml:"locale" env:"LOCALE"`
	Format              string            `yaml:"format" env:"FORMAT"`
	Formatter           string            `yaml:"formatter" env:"FORMATTER"`
	Decimals            int               `yaml:"decimals" env:"DECIMALS"`
	ExcludeDecimalZeros bool              `yaml:"exclude_decimal_zeros" env:"EXCLUDE_DECIMAL_ZEROS"`
	Leaderboard         LeaderboardConfig `yaml:"leaderboard" envPrefix:"LEADERBOARD_"`
	Width               WidthConfig       `yaml:"width" envPrefix:"WIDTH_"`
	Log                 LogConfig         `yaml:"log" envPrefix:"LOG_"`
	Telemetry           TelemetryConfig   `yaml:"telemetry" envPrefix:"TELEMETRY_"`
}

// LeaderboardConfig bounds the values sampled for a leaderboard scale.
type LeaderboardConfig struct {
	Dimensions int `yaml:"dimensions" env:"DIMENSIONS"`
	Values     int `yaml:"values" env:"VALUES"`
}

// WidthConfig selects how rendered text is measured.
type WidthConfig struct {
	// Mode is "monospace", "font" or "none".
	Mode   string  `yaml:"mode" env:"MODE"`
	CellPx float64 `yaml:"cell_px" env:"CELL_PX"`
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string `yaml:"level" env:"LEVEL"`
	File  string `yaml:"file" env:"FILE"`
}

// TelemetryConfig toggles behaviour events.
type TelemetryConfig struct {
	Enabled bool `yaml:"enabled" env:"ENABLED"`
}

const (
	WidthMonospace = "monospace"
	WidthFont      = "font"
	WidthNone      = "none"
)

// Validate checks every field that has a closed set of values.
func (c *Config) Validate() error {
	if _, err := format.ParseKind(c.Format); err != nil {
		return err
	}
	if _, ok := format.LookupFactory(c.Formatter); !ok {
		return fmt.Errorf("config: unknown formatter %q", c.Formatter)
	}
	if _, err := c.LanguageTag(); err != nil {
		return err
	}
	if c.Leaderboard.Dimensions <= 0 || c.Leaderboard.Values <= 0 {
		return fmt.Errorf("config: leaderboard limits must be positive, got %d dimensions and %d values",
			c.Leaderboard.Dimensions, c.Leaderboard.Values)
	}
	switch c.Width.Mode {
	case WidthMonospace, WidthFont, WidthNone:
	default:
		return fmt.Errorf("config: unknown width mode %q", c.Width.Mode)
	}
	if c.Width.Mode == WidthMonospace && c.Width.CellPx <= 0 {
		return fmt.Errorf("config: width.cell_px must be positive, got %v", c.Width.CellPx)
	}
	return nil
}

// Kind returns the parsed format kind.
func (c *Config) Kind() format.Kind {
	k, err := format.ParseKind(c.Format)
	if err != nil {
		return format.KindHumanize
	}
	return k
}

// LanguageTag parses Locale.
func (c *Config) LanguageTag() (language.Tag, error) {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.Und, fmt.Errorf("config: invalid locale %q: %w", c.Locale, err)
	}
	return tag, nil
}

// FormatOptions builds the per-call formatting options.
func (c *Config) FormatOptions() format.Options {
	return format.Options{
		Decimals:            c.Decimals,
		ExcludeDecimalZeros: c.ExcludeDecimalZeros,
	}
}

// WidthFunc returns the configured text measurement, memoized, or nil for
// mode "none".
func (c *Config) WidthFunc() align.WidthFunc {
	switch c.Width.Mode {
	case WidthMonospace:
		return align.CachedWidth(align.MonospaceWidth(c.Width.CellPx))
	case WidthFont:
		return align.CachedWidth(align.FontWidth(nil))
	default:
		return nil
	}
}
