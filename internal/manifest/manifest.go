// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	// FormatAuto picks a format from the file extension.
	FormatAuto Format = "auto"
	// FormatLines is the line-oriented "name: dep1, dep2" format.
	FormatLines Format = "lines"
	// FormatTOML is a TOML document with [[file]] tables.
	FormatTOML Format = "toml"
	// FormatCUE is a CUE document with a files list.
	FormatCUE Format = "cue"
)

var (
	// ErrMalformedInput is the sentinel error wrapped by MalformedInputError.
	ErrMalformedInput = errors.New("malformed input")
	// ErrUnknownFormat is the sentinel error wrapped by UnknownFormatError.
	ErrUnknownFormat = errors.New("unknown manifest format")
)

type (
	// Format names a manifest input format.
	Format string

	// UnknownFormatError is returned when a Format value is not recognized.
	UnknownFormatError struct {
		Value string
	}

	// Record is one dependency declaration: Source depends on each entry of
	// Dependencies, in order.
	Record struct {
		Source       string
		Dependencies []string
		// Line is the 1-based position of the record in its input: the line
		// number for the line format, the entry ordinal for TOML and CUE.
		Line int
	}

	// MalformedInputError describes one record that could not be parsed.
	// It wraps ErrMalformedInput for errors.Is() compatibility.
	MalformedInputError struct {
		Path    string
		Line    int
		Content string
		Reason  string
	}

	// Result holds the records read from one input together with any
	// malformed records that were skipped.
	Result struct {
		Records   []Record
		Malformed []*MalformedInputError
	}

	// Reader parses a manifest. Malformed records are reported on the Result;
	// a non-nil error means the input could not be read at all.
	Reader interface {
		Read(r io.Reader, path string) (*Result, error)
	}
)

// Error implements the error interface.
func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown manifest format %q (valid: auto, lines, toml, cue)", e.Value)
}

// Unwrap returns ErrUnknownFormat.
func (e *UnknownFormatError) Unwrap() error { return ErrUnknownFormat }

// Error implements the error interface.
func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("%s:%d: %s: %q", e.Path, e.Line, e.Reason, e.Content)
}

// Unwrap returns ErrMalformedInput.
func (e *MalformedInputError) Unwrap() error { return ErrMalformedInput }

// ParseFormat converts a user-supplied string into a Format.
// The empty string is treated as FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatLines, FormatTOML, FormatCUE:
		return f, nil
	default:
		return "", &UnknownFormatError{Value: s}
	}
}

// String returns the format name.
func (f Format) String() string { return string(f) }

// DetectFormat picks a concrete format for path from its extension.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML
	case ".cue":
		return FormatCUE
	default:
		return FormatLines
	}
}

// Resolve returns f, or the format detected from path when f is FormatAuto.
func (f Format) Resolve(path string) Format {
	if f == FormatAuto || f == "" {
		return DetectFormat(path)
	}
	return f
}

// NewReader returns the Reader for a concrete format.
func NewReader(f Format) (Reader, error) {
	switch f {
	case FormatLines:
		return &lineReader{}, nil
	case FormatTOML:
		return &tomlReader{}, nil
	case FormatCUE:
		return &cueReader{}, nil
	default:
		return nil, &UnknownFormatError{Value: string(f)}
	}
}

// ReadFile opens path and reads it with the reader for f, resolving
// FormatAuto from the file extension.
func ReadFile(path string, f Format) (*Result, error) {
	reader, err := NewReader(f.Resolve(path))
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close() //nolint:errcheck // read-only

	return reader.Read(file, path)
}

func (r *Result) addMalformed(path string, line int, content, reason string) {
	r.Malformed = append(r.Malformed, &MalformedInputError{
		Path:    path,
		Line:    line,
		Content: content,
		Reason:  reason,
	})
}

// checkEntry validates a structured (TOML or CUE) entry and appends it as a
// record or as a malformed entry.
func (r *Result) checkEntry(path string, ordinal int, name string, deps []string) {
	source := strings.TrimSpace(name)
	if source == "" {
		r.addMalformed(path, ordinal, name, "missing file name")
		return
	}
	cleaned := make([]string, 0, len(deps))
	for _, dep := range deps {
		dep = strings.TrimSpace(dep)
		if dep == "" {
			r.addMalformed(path, ordinal, source, "empty dependency name")
			return
		}
		cleaned = append(cleaned, dep)
	}
	r.Records = append(r.Records, Record{Source: source, Dependencies: cleaned, Line: ordinal})
}
