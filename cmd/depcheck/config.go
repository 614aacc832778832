// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/invowk/depcheck/internal/config"
	"github.com/invowk/depcheck/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `depcheck config` command tree.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage depcheck configuration",
		Long: `Manage depcheck configuration.

Configuration is stored in:
  - Linux: ~/.config/depcheck/config.cue
  - macOS: ~/Library/Application Support/depcheck/config.cue
  - Windows: %APPDATA%\depcheck\config.cue

Every key can be overridden with a DEPCHECK_ environment variable,
e.g. DEPCHECK_INPUT_STRICT=true.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadForCommand(cmd, app, flags)
			if err != nil {
				return err
			}
			return showConfig(app.stdout, cfg, flags.configPath)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return initConfig(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return showConfigPath(app.stdout)
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadForCommand(cmd, app, flags)
			if err != nil {
				return err
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func loadForCommand(cmd *cobra.Command, app *App, flags *rootFlags) (*config.Config, error) {
	cfg, err := app.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		svcErr := newServiceError(err, issue.ConfigLoadFailedId, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, flags.verbose)+"\n")
		renderServiceError(app.stderr, svcErr, "dark")
		return nil, &ExitError{Code: 1}
	}
	return cfg, nil
}

func showConfig(w io.Writer, cfg *config.Config, explicitPath string) error {
	keyStyle := CmdStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	cfgPath, err := config.ResolvePath(config.LoadOptions{ConfigFilePath: explicitPath})
	if err != nil || cfgPath == "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfgPath)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s:\n", keyStyle.Render("input"))
	fmt.Fprintf(w, "  format: %s\n", valueStyle.Render(cfg.Input.Format))
	fmt.Fprintf(w, "  strict: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.Input.Strict)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", valueStyle.Render(string(cfg.Log.Level)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(w, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))
	fmt.Fprintf(w, "  color_scheme: %s\n", valueStyle.Render(string(cfg.UI.ColorScheme)))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("watch"))
	fmt.Fprintf(w, "  debounce: %s\n", valueStyle.Render(cfg.Watch.Debounce.String()))

	return nil
}

func initConfig(w io.Writer) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(cfgPath)
	existed := statErr == nil

	if _, err := config.CreateDefaultConfig(); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if existed {
		fmt.Fprintf(w, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), cfgPath)
		return nil
	}
	fmt.Fprintf(w, "%s Created configuration file: %s\n", SuccessStyle.Render("✓"), cfgPath)
	return nil
}

func showConfigPath(w io.Writer) error {
	cfgPath, err := config.ConfigFilePath()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, cfgPath)
	return nil
}
