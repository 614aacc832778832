// SPDX-License-Identifier: MPL-2.0

// Package config handles depcheck configuration using Viper with CUE as the
// file format.
//
// Configuration is loaded from config.cue in the platform configuration
// directory (~/.config/depcheck on Linux, ~/Library/Application Support/depcheck
// on macOS, %APPDATA%\depcheck on Windows), or from the current directory.
// Files are validated against the embedded #Config schema before being merged
// over the defaults, and DEPCHECK_* environment variables override both.
package config
