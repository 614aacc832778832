// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"time"
)

const (
	// ColorSchemeAuto lets depcheck pick a scheme.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces the dark scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces the light scheme.
	ColorSchemeLight ColorScheme = "light"

	// LogLevelDebug logs parse and traversal details.
	LogLevelDebug LogLevel = "debug"
	// LogLevelInfo logs run summaries.
	LogLevelInfo LogLevel = "info"
	// LogLevelWarn logs malformed input and recoverable problems.
	LogLevelWarn LogLevel = "warn"
	// LogLevelError logs failures only.
	LogLevelError LogLevel = "error"

	defaultDebounce = 300 * time.Millisecond
)

var (
	// ErrInvalidColorScheme is the sentinel error wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidLogLevel is the sentinel error wrapped by InvalidLogLevelError.
	ErrInvalidLogLevel = errors.New("invalid log level")
)

type (
	// ColorScheme selects the style used for rendered help and issue text.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// LogLevel is the minimum level written by the logger.
	LogLevel string

	// InvalidLogLevelError is returned when a LogLevel value is not recognized.
	InvalidLogLevelError struct {
		Value LogLevel
	}

	// Config holds the application configuration.
	Config struct {
		Input InputConfig `json:"input" mapstructure:"input"`
		Log   LogConfig   `json:"log" mapstructure:"log"`
		UI    UIConfig    `json:"ui" mapstructure:"ui"`
		Watch WatchConfig `json:"watch" mapstructure:"watch"`
	}

	// InputConfig controls how dependency files are read.
	InputConfig struct {
		// Format is auto, lines, toml or cue. Auto picks by file extension.
		Format string `json:"format" mapstructure:"format"`
		// Strict turns malformed records into a failed run.
		Strict bool `json:"strict" mapstructure:"strict"`
	}

	// LogConfig configures the logger.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// UIConfig configures terminal output.
	UIConfig struct {
		// Verbose enables debug logging and full error chains.
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
	}

	// WatchConfig configures --watch mode.
	WatchConfig struct {
		// Debounce is the quiet period after the last change before re-checking.
		Debounce time.Duration `json:"debounce" mapstructure:"debounce"`
	}
)

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Input: InputConfig{Format: "auto"},
		Log:   LogConfig{Level: LogLevelWarn},
		UI:    UIConfig{ColorScheme: ColorSchemeAuto},
		Watch: WatchConfig{Debounce: defaultDebounce},
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate returns an error if the ColorScheme is not one of the known values.
func (c ColorScheme) Validate() error {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: c}
	}
}

// GlamourStyle maps the scheme to a glamour standard style name.
// Auto falls back to dark, matching the palette of the CLI styles.
func (c ColorScheme) GlamourStyle() string {
	if c == ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// Error implements the error interface.
func (e *InvalidLogLevelError) Error() string {
	return fmt.Sprintf("invalid log level %q (valid: debug, info, warn, error)", e.Value)
}

// Unwrap returns ErrInvalidLogLevel.
func (e *InvalidLogLevelError) Unwrap() error { return ErrInvalidLogLevel }

// Validate returns an error if the LogLevel is not one of the known values.
func (l LogLevel) Validate() error {
	switch l {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
		return nil
	default:
		return &InvalidLogLevelError{Value: l}
	}
}

// Validate checks the values the CUE schema cannot see, namely those that
// arrive through environment variables.
func (c *Config) Validate() error {
	return errors.Join(c.Log.Level.Validate(), c.UI.ColorScheme.Validate())
}
