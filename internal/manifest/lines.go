// SPDX-License-Identifier: MPL-2.0

package manifest

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

const (
	// separator divides the source name from its dependency list.
	separator = ":"
	// listDelimiter divides dependency names.
	listDelimiter = ","
	// commentPrefix starts a line that is ignored.
	commentPrefix = "#"

	initialLineBuffer = 64 * 1024
	maxLineLength     = 16 * 1024 * 1024
)

type lineReader struct{}

// Read parses "name: dep1, dep2" records, one per line. Whitespace around
// names is ignored; blank lines and lines starting with '#' are skipped.
func (lr *lineReader) Read(r io.Reader, path string) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, initialLineBuffer), maxLineLength)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" || strings.HasPrefix(trimmed, commentPrefix) {
			continue
		}

		rec, reason := parseLine(trimmed)
		if reason != "" {
			res.addMalformed(path, lineNo, raw, reason)
			continue
		}
		rec.Line = lineNo
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return res, nil
}

// parseLine splits one non-blank line into a Record. A non-empty reason means
// the line is malformed.
func parseLine(line string) (Record, string) {
	parts := strings.Split(line, separator)
	switch {
	case len(parts) < 2:
		return Record{}, "missing ':' separator"
	case len(parts) > 2:
		return Record{}, "more than one ':' separator"
	}

	source := strings.TrimSpace(parts[0])
	if source == "" {
		return Record{}, "missing file name before ':'"
	}

	list := strings.TrimSpace(parts[1])
	if list == "" {
		return Record{Source: source}, ""
	}

	names := strings.Split(list, listDelimiter)
	deps := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return Record{}, "empty dependency name"
		}
		deps = append(deps, name)
	}
	return Record{Source: source, Dependencies: deps}, ""
}
