// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/adoptopenjdk/splitpkgscan/internal/config"
	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/internal/tool"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/log"
	"golang.org/x/term"
)

type (
	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// App wires CLI services and shared dependencies. It is the composition
	// root for the CLI layer; every command handler receives an App reference.
	App struct {
		Config ConfigProvider
		tools  []tool.Tool
		stdout io.Writer
		stderr io.Writer

		// Set by persistent flags.
		verbose    bool
		configFile string
		// Set from the loaded configuration.
		colorScheme config.ColorScheme
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config ConfigProvider
		// Tools are registered after the configured tool and replace it
		// when they share its name.
		Tools  []tool.Tool
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	app := &App{
		Config: deps.Config,
		tools:  deps.Tools,
		stdout: deps.Stdout,
		stderr: deps.Stderr,
	}
	if app.Config == nil {
		app.Config = config.NewProvider()
	}
	if app.stdout == nil {
		app.stdout = os.Stdout
	}
	if app.stderr == nil {
		app.stderr = os.Stderr
	}
	return app
}

// loadOptions returns the config lookup for a project rooted at baseDir.
func (a *App) loadOptions(baseDir types.FilesystemPath) config.LoadOptions {
	return config.LoadOptions{
		ConfigFilePath: types.FilesystemPath(a.configFile),
		BaseDir:        baseDir,
	}
}

// loadConfig loads the configuration and applies its UI settings. The
// verbose flag wins over ui.verbose.
func (a *App) loadConfig(ctx context.Context, baseDir types.FilesystemPath) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, a.loadOptions(baseDir))
	if err != nil {
		return nil, newServiceError(err, issue.ConfigLoadFailedId, styledError(err, a.verbose))
	}
	if !a.verbose {
		a.verbose = cfg.UI.Verbose
	}
	a.colorScheme = cfg.UI.ColorScheme
	return cfg, nil
}

// stylePath maps the configured color scheme onto a glamour style. Output
// that is not a terminal gets the plain notty style.
func (a *App) stylePath() string {
	f, ok := a.stderr.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return "notty"
	}
	if a.colorScheme == config.ColorSchemeLight {
		return "light"
	}
	return "dark"
}

// newLogger returns the CLI logger writing to the App's stderr.
func (a *App) newLogger() *log.Logger {
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: config.AppName,
		Level:  log.InfoLevel,
	})
	if a.verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}
