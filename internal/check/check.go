// SPDX-License-Identifier: MPL-2.0

package check

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/invowk/depcheck/internal/dag"
	"github.com/invowk/depcheck/internal/manifest"

	"github.com/charmbracelet/log"
)

const (
	// NoCycle means the graph is acyclic.
	NoCycle Verdict = iota
	// Cycle means at least one directed cycle exists.
	Cycle
)

// ErrInputUnreadable is the sentinel error wrapped by InputUnreadableError.
var ErrInputUnreadable = errors.New("input unreadable")

type (
	// Verdict is the binary outcome of a check.
	Verdict int

	// Options configures a Checker.
	Options struct {
		// Format selects the manifest reader. The zero value means auto.
		Format manifest.Format
		// Strict fails the check on the first malformed record.
		Strict bool
		// Logger receives debug details about skipped records and the run.
		// nil discards them.
		Logger *log.Logger
	}

	// Checker runs checks with fixed options. It holds no state between
	// runs and is safe to reuse.
	Checker struct {
		format manifest.Format
		strict bool
		logger *log.Logger
	}

	// Report is the outcome of one successful check.
	Report struct {
		Path      string
		Format    manifest.Format
		Verdict   Verdict
		Vertices  int
		Edges     int
		Records   int
		Malformed []*manifest.MalformedInputError
	}

	// InputUnreadableError is returned when no graph could be built from the
	// input: the file is missing or unopenable, a structured document failed
	// to parse, or every record was malformed. It wraps ErrInputUnreadable.
	InputUnreadableError struct {
		Path string
		Err  error
	}
)

// String returns the verdict line printed by the CLI.
func (v Verdict) String() string {
	if v == Cycle {
		return "Cyclic dependency"
	}
	return "No Cyclic dependency"
}

// Error implements the error interface.
func (e *InputUnreadableError) Error() string {
	return fmt.Sprintf("cannot read dependency file %s: %v", e.Path, e.Err)
}

// Is matches ErrInputUnreadable.
func (e *InputUnreadableError) Is(target error) bool {
	return target == ErrInputUnreadable
}

// Unwrap returns the underlying cause.
func (e *InputUnreadableError) Unwrap() error { return e.Err }

// New creates a Checker.
func New(opts Options) *Checker {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	format := opts.Format
	if format == "" {
		format = manifest.FormatAuto
	}
	return &Checker{format: format, strict: opts.Strict, logger: logger}
}

// Check reads path, builds its dependency graph and detects cycles.
// Malformed records are returned on the Report and skipped unless the
// Checker is strict.
func (c *Checker) Check(ctx context.Context, path string) (*Report, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("check canceled: %w", ctx.Err())
	default:
	}

	format := c.format.Resolve(path)
	start := time.Now()

	result, err := manifest.ReadFile(path, format)
	if err != nil {
		if errors.Is(err, manifest.ErrUnknownFormat) {
			return nil, err
		}
		return nil, &InputUnreadableError{Path: path, Err: err}
	}

	for _, m := range result.Malformed {
		c.logger.Debug("skipping malformed record", "path", m.Path, "line", m.Line, "reason", m.Reason, "content", m.Content)
	}
	if len(result.Malformed) > 0 {
		if c.strict {
			return nil, &InputUnreadableError{Path: path, Err: result.Malformed[0]}
		}
		if len(result.Records) == 0 {
			return nil, &InputUnreadableError{
				Path: path,
				Err:  fmt.Errorf("no valid records (%d malformed): %w", len(result.Malformed), manifest.ErrMalformedInput),
			}
		}
	}

	g := buildGraph(result.Records)
	verdict := NoCycle
	if dag.HasCycle(g) {
		verdict = Cycle
	}

	c.logger.Debug("check complete",
		"path", path,
		"format", format,
		"records", len(result.Records),
		"vertices", g.Len(),
		"edges", g.EdgeCount(),
		"verdict", verdict,
		"elapsed", time.Since(start))

	return &Report{
		Path:      path,
		Format:    format,
		Verdict:   verdict,
		Vertices:  g.Len(),
		Edges:     g.EdgeCount(),
		Records:   len(result.Records),
		Malformed: result.Malformed,
	}, nil
}

func buildGraph(records []manifest.Record) *dag.Graph {
	b := dag.NewBuilder()
	for _, r := range records {
		b.Add(r.Source, r.Dependencies...)
	}
	return b.Graph()
}
