// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the flag values of one root command instance.
type rootFlags struct {
	configPath string
	verbose    bool
	format     string
	strict     bool
	watch      bool
	clear      bool
}

// NewRootCommand builds the depcheck command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "depcheck [flags] <file>",
		Short: "Detect circular dependencies between files",
		Long: TitleStyle.Render("depcheck") + SubtitleStyle.Render(" - Detect circular dependencies between files") + `

depcheck reads a dependency file, builds the graph of which file depends
on which, and reports whether that graph contains a cycle. It prints
exactly one line: "Cyclic dependency" or "No Cyclic dependency".

` + SubtitleStyle.Render("Input formats:") + `
  lines   one record per line: "main.c: util.h, io.h" (default)
  toml    [[file]] tables with name and depends_on (*.toml)
  cue     files: [{name: ..., depends_on: [...]}] (*.cue)

Malformed lines are reported on stderr and skipped unless --strict is set.

` + SubtitleStyle.Render("Examples:") + `
  depcheck deps.txt              Check a line-oriented dependency file
  depcheck --strict deps.toml    Fail on the first malformed entry
  depcheck -w deps.txt           Re-check every time deps.txt changes
  depcheck -w --clear deps.txt   Clear the screen before each re-check
  depcheck ./config              Check a file named "config" (not the subcommand)
  depcheck config show           Show current configuration`,
		Args:         exactlyOneFile,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, app, flags, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/depcheck/config.cue)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.Flags().StringVar(&flags.format, "format", "", "input format: auto, lines, toml or cue (default from config, then auto)")
	rootCmd.Flags().BoolVar(&flags.strict, "strict", false, "treat malformed input as a fatal error")
	rootCmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check whenever the file changes")
	rootCmd.Flags().BoolVar(&flags.clear, "clear", false, "clear the screen before each re-check in watch mode")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &UsageError{Msg: err.Error()}
	})
	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(newConfigCommand(app, flags))

	return rootCmd
}

func exactlyOneFile(_ *cobra.Command, args []string) error {
	if len(args) != 1 {
		return &UsageError{Msg: fmt.Sprintf("expected exactly one dependency file, got %d arguments", len(args))}
	}
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version != "dev" {
		return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev (built from source)"
}

// Execute runs the root command and exits with the mapped status code.
// It is called by main.main().
func Execute() {
	rootCmd := NewRootCommand(NewApp(Dependencies{}))

	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(handleError),
	); err != nil {
		os.Exit(int(exitCodeFor(err)))
	}
}

// handleError prints errors that were not already reported by the command.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}
