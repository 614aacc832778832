// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/invowk/depcheck/internal/watch"
	"github.com/invowk/depcheck/pkg/types"
)

// runWatch checks path once, then again after every change until ctx is
// canceled. Check failures are reported and the watch continues.
func runWatch(ctx context.Context, app *App, checker CheckService, path string, s *runSettings) error {
	w, err := watch.New(watchConfig(app, checker, path, s))
	if err != nil {
		fmt.Fprintln(app.stderr, ErrorStyle.Render("Error: ")+err.Error())
		return &ExitError{Code: types.ExitFailure}
	}

	_ = checkOnce(ctx, app, checker, path, s)
	fmt.Fprintln(app.stderr, SubtitleStyle.Render(fmt.Sprintf("Watching %s for changes (Ctrl+C to stop)", path)))

	if err := w.Run(ctx); err != nil {
		return &ExitError{Code: types.ExitFailure, Err: err}
	}
	return nil
}

// watchConfig builds the watcher configuration for path from the run settings.
func watchConfig(app *App, checker CheckService, path string, s *runSettings) watch.Config {
	return watch.Config{
		Files:       []types.FilesystemPath{types.FilesystemPath(path)},
		Debounce:    s.cfg.Watch.Debounce,
		ClearScreen: s.clearScreen,
		Stdout:      app.stdout,
		Stderr:      app.stderr,
		OnChange: func(ctx context.Context, changed []string) error {
			s.logger.Info("dependency file changed", "files", changed)
			// The failure was already rendered; keep watching.
			_ = checkOnce(ctx, app, checker, path, s)
			return nil
		},
	}
}
