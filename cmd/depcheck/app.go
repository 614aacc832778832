// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/invowk/depcheck/internal/check"
	"github.com/invowk/depcheck/internal/config"
)

type (
	// CheckService runs one dependency check.
	CheckService interface {
		Check(ctx context.Context, path string) (*check.Report, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer: command handlers receive an App and delegate
	// through its services.
	App struct {
		Config     config.Provider
		NewChecker func(check.Options) CheckService
		stdout     io.Writer
		stderr     io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     config.Provider
		NewChecker func(check.Options) CheckService
		Stdout     io.Writer
		Stderr     io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewChecker == nil {
		deps.NewChecker = func(opts check.Options) CheckService { return check.New(opts) }
	}

	return &App{
		Config:     deps.Config,
		NewChecker: deps.NewChecker,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
	}
}
