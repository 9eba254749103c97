// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/config"
	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `splitpkgscan config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage splitpkgscan configuration",
		Long: `Manage splitpkgscan configuration.

Configuration is stored in:
  - Linux: ~/.config/splitpkgscan/config.cue
  - macOS: ~/Library/Application Support/splitpkgscan/config.cue
  - Windows: %APPDATA%\splitpkgscan\config.cue

A .splitpkgscan.cue file in the project directory is used when the user
file does not exist. SPLITPKGSCAN_* environment variables override both.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app); err != nil {
				return failCommand(cmd, app, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(app, ""); err != nil {
				return failCommand(cmd, app, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfigPath(app); err != nil {
				return failCommand(cmd, app, err)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), "")
			if err != nil {
				return failCommand(cmd, app, err)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App) error {
	cfg, err := app.loadConfig(ctx, "")
	if err != nil {
		return err
	}

	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	w := app.stdout
	kv := func(indent, key string, value any) {
		fmt.Fprintf(w, "%s%s: %s\n", indent, keyStyle.Render(key), valueStyle.Render(fmt.Sprint(value)))
	}
	unset := SubtitleStyle.Render("(not set)")
	orUnset := func(s string) string {
		if s == "" {
			return unset
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if path := effectiveConfigFile(app); path != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	kv("", "scopes", strings.Join(cfg.Scopes, ", "))
	kv("", "output_dir", cfg.OutputDir)
	kv("", "fail_on_split", cfg.FailOnSplit)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("tool"))
	kv("  ", "name", cfg.Tool.Name)
	kv("  ", "kind", cfg.Tool.Kind)
	switch cfg.Tool.Kind {
	case config.ToolKindScript:
		fmt.Fprintf(w, "  %s: %d lines\n", keyStyle.Render("script"), strings.Count(cfg.Tool.Script, "\n")+1)
	default:
		kv("  ", "command", cfg.Tool.Command)
	}
	if len(cfg.Tool.Args) > 0 {
		kv("  ", "args", strings.Join(cfg.Tool.Args, " "))
	}
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("env_file"), orUnset(cfg.Tool.EnvFile))
	fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("dir"), orUnset(cfg.Tool.Dir))

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("repository"))
	if cfg.Repository.Local == "" {
		fmt.Fprintf(w, "  %s: %s\n", keyStyle.Render("local"), SubtitleStyle.Render("(~/.m2/repository)"))
	} else {
		kv("  ", "local", cfg.Repository.Local)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("report"))
	kv("  ", "format", cfg.Report.Format)

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", keyStyle.Render("ui"))
	kv("  ", "color_scheme", cfg.UI.ColorScheme)
	kv("  ", "verbose", cfg.UI.Verbose)

	return nil
}

// effectiveConfigFile mirrors the lookup order of config.Load for display.
func effectiveConfigFile(app *App) string {
	if app.configFile != "" {
		return app.configFile
	}
	if dir, err := config.ConfigDir(); err == nil {
		if p := filepath.Join(dir, config.ConfigFileName+"."+config.ConfigFileExt); fspath.IsRegularFile(types.FilesystemPath(p)) {
			return p
		}
	}
	if fspath.IsRegularFile(config.LocalConfigFileName) {
		return config.LocalConfigFileName
	}
	return ""
}

func initConfig(app *App, configDir string) error {
	path, created, err := config.CreateDefaultConfig(configDir)
	if err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}

	if !created {
		fmt.Fprintf(app.stdout, "%s Configuration already exists at %s\n", WarningStyle.Render("!"), path)
		return nil
	}
	fmt.Fprintf(app.stdout, "%s Created default configuration at %s\n", SuccessStyle.Render("✓"), path)
	return nil
}

func showConfigPath(app *App) error {
	cfgDir, err := config.ConfigDir()
	if err != nil {
		return err
	}

	fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
	fmt.Fprintf(app.stdout, "Config file: %s\n", filepath.Join(cfgDir, config.ConfigFileName+"."+config.ConfigFileExt))
	fmt.Fprintf(app.stdout, "Local config file: %s\n", config.LocalConfigFileName)
	return nil
}
