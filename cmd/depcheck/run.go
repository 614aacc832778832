// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/invowk/depcheck/internal/check"
	"github.com/invowk/depcheck/internal/config"
	"github.com/invowk/depcheck/internal/issue"
	"github.com/invowk/depcheck/internal/manifest"
	"github.com/invowk/depcheck/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// runSettings is the effective configuration of one run: config file values
// overridden by flags.
type runSettings struct {
	cfg          *config.Config
	format       manifest.Format
	strict       bool
	verbose      bool
	clearScreen  bool
	glamourStyle string
	logger       *log.Logger
}

func runRoot(cmd *cobra.Command, app *App, flags *rootFlags, path string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	settings, err := resolveSettings(ctx, cmd, app, flags)
	if err != nil {
		return err
	}

	checker := app.NewChecker(check.Options{
		Format: settings.format,
		Strict: settings.strict,
		Logger: settings.logger,
	})

	if flags.watch {
		return runWatch(ctx, app, checker, path, settings)
	}

	if err := checkOnce(ctx, app, checker, path, settings); err != nil {
		return &ExitError{Code: types.ExitFailure}
	}
	return nil
}

// resolveSettings loads the configuration and applies flag overrides.
func resolveSettings(ctx context.Context, cmd *cobra.Command, app *App, flags *rootFlags) (*runSettings, error) {
	cfg, err := app.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, flags.verbose)+"\n")
		if !flags.verbose {
			svcErr.IssueID = 0
		}
		renderServiceError(app.stderr, svcErr, "dark")
		return nil, &ExitError{Code: types.ExitFailure}
	}

	formatValue := cfg.Input.Format
	if cmd.Flags().Changed("format") {
		formatValue = flags.format
	}
	format, err := manifest.ParseFormat(formatValue)
	if err != nil {
		return nil, &UsageError{Msg: err.Error()}
	}

	verbose := flags.verbose || cfg.UI.Verbose
	return &runSettings{
		cfg:          cfg,
		format:       format,
		strict:       flags.strict || cfg.Input.Strict,
		verbose:      verbose,
		clearScreen:  flags.clear,
		glamourStyle: cfg.UI.ColorScheme.GlamourStyle(),
		logger:       newLogger(app.stderr, cfg.Log.Level, verbose),
	}, nil
}

// checkOnce runs one check and prints its verdict. Failures are reported on
// stderr and returned so the caller can pick an exit status.
func checkOnce(ctx context.Context, app *App, checker CheckService, path string, s *runSettings) error {
	report, err := checker.Check(ctx, path)
	if err != nil {
		renderServiceError(app.stderr, checkServiceError(err, path, s), s.glamourStyle)
		return err
	}

	// One warning per skipped record, at every log level.
	for _, m := range report.Malformed {
		fmt.Fprintln(app.stderr, WarningStyle.Render("Warning: ")+"skipping malformed line "+m.Error())
	}

	fmt.Fprintln(app.stdout, report.Verdict.String())

	if s.verbose {
		fmt.Fprintln(app.stderr, VerboseStyle.Render(fmt.Sprintf(
			"%s: %d records, %d files, %d dependencies, %d malformed (%s format)",
			report.Path, report.Records, report.Vertices, report.Edges, len(report.Malformed), report.Format)))
		if len(report.Malformed) > 0 {
			renderServiceError(app.stderr, newServiceError(report.Malformed[0], issue.MalformedInputId, ""), s.glamourStyle)
		}
		if report.Verdict == check.Cycle {
			renderServiceError(app.stderr, newServiceError(errors.New(report.Verdict.String()), issue.DependencyCycleId, ""), s.glamourStyle)
		}
	}
	return nil
}

// checkServiceError turns a check failure into an actionable error linked
// to the matching issue catalog entry.
func checkServiceError(err error, path string, s *runSettings) *ServiceError {
	ec := issue.NewErrorContext().
		WithOperation("check dependency file").
		WithResource(path).
		Wrap(err)

	var id issue.Id
	switch {
	case errors.Is(err, os.ErrNotExist):
		id = issue.InputNotFoundId
		ec.WithSuggestion("Check the path for typos").
			WithSuggestion("Relative paths are resolved from the current directory")
	case errors.Is(err, manifest.ErrMalformedInput):
		id = issue.MalformedInputId
		ec.WithSuggestion("Each line must look like 'main.c: util.h, io.h'")
		if s.strict {
			ec.WithSuggestion("Run without --strict to skip malformed lines")
		}
	default:
		id = issue.InputUnreadableId
		ec.WithSuggestion("Check that the file is readable and uses the expected --format")
	}
	ec.WithIssue(id)

	ae := ec.Build()
	styled := ErrorStyle.Render("Error: ") + ae.Format(s.verbose) + "\n"
	if !s.verbose {
		id = 0
	}
	return newServiceError(ae, id, styled)
}

// formatErrorForDisplay formats an error for user display. ActionableErrors
// use their Format method; verbose mode adds the error chain.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
