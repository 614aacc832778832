// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"github.com/invowk/depcheck/pkg/types"
)

type (
	// ExitError signals a non-zero exit code without forcing os.Exit in RunE
	// handlers. A nil Err means the failure was already reported to stderr.
	ExitError struct {
		Code types.ExitCode
		Err  error
	}

	// UsageError reports invalid command-line usage: a wrong argument count,
	// an unknown flag or a bad flag value. It exits with types.ExitUsage.
	UsageError struct {
		Msg string
	}
)

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// Error returns the message followed by a short usage line.
func (e *UsageError) Error() string {
	return e.Msg + "\nusage: depcheck [flags] <file>"
}

// exitCodeFor maps an error returned by the root command to a process exit
// status.
func exitCodeFor(err error) types.ExitCode {
	if err == nil {
		return types.ExitSuccess
	}
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		return types.ExitUsage
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return types.ExitFailure
}
