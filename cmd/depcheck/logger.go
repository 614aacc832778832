// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/invowk/depcheck/internal/config"

	"github.com/charmbracelet/log"
)

// newLogger builds the run logger. --verbose forces debug level. The logger
// also becomes the slog default so slog calls in this package share it.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *log.Logger {
	lvl, err := log.ParseLevel(string(level))
	if err != nil {
		lvl = log.WarnLevel
	}
	if verbose {
		lvl = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix: "depcheck",
		Level:  lvl,
	})
	slog.SetDefault(slog.New(logger))
	return logger
}
