// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/pkg/cueutil"
	"github.com/adoptopenjdk/splitpkgscan/pkg/platform"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "splitpkgscan"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// LocalConfigFileName is the project-local config file looked up in BaseDir.
	LocalConfigFileName = ".splitpkgscan.cue"
	// EnvPrefix prefixes environment variable overrides, e.g. SPLITPKGSCAN_TOOL_COMMAND.
	EnvPrefix = "SPLITPKGSCAN"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the splitpkgscan configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case platform.Darwin:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// Load reads configuration as described by opts and also returns the path
// of the file it was read from ("" when only defaults and environment
// variables apply).
func Load(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := newViper()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}

	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'splitpkgscan config show' to see the default configuration").
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// CUE cannot see environment overrides, so the typed checks run again here.
	if err := cfg.Validate(); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check SPLITPKGSCAN_* environment variables for typos").
			WithSuggestion("Use 'kind: \"script\"' only together with a 'script' value").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// newViper returns a Viper instance seeded with defaults and wired to the
// environment. Every key needs a default for AutomaticEnv to see it.
func newViper() *viper.Viper {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("scopes", defaults.Scopes)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("fail_on_split", defaults.FailOnSplit)
	v.SetDefault("tool.name", defaults.Tool.Name)
	v.SetDefault("tool.kind", defaults.Tool.Kind)
	v.SetDefault("tool.command", defaults.Tool.Command)
	v.SetDefault("tool.args", defaults.Tool.Args)
	v.SetDefault("tool.script", defaults.Tool.Script)
	v.SetDefault("tool.env_file", defaults.Tool.EnvFile)
	v.SetDefault("tool.dir", defaults.Tool.Dir)
	v.SetDefault("repository.local", defaults.Repository.Local)
	v.SetDefault("report.format", defaults.Report.Format)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// resolveConfigFile picks the config file: the explicit path exclusively
// when set, else the user config directory, else the local file in BaseDir.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		path := string(opts.ConfigFilePath)
		if !fileExists(path) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Run 'splitpkgscan config init' to create a default configuration").
				Wrap(fmt.Errorf("config file not found: %s", path)).
				BuildError()
		}
		return path, nil
	}

	cfgDir, err := configDirWithOverride(string(opts.ConfigDirPath))
	if err != nil {
		return "", err
	}
	if cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt); fileExists(cuePath) {
		return cuePath, nil
	}

	localPath := filepath.Join(string(opts.BaseDir), LocalConfigFileName)
	if fileExists(localPath) {
		return localPath, nil
	}

	// No config file: defaults apply.
	return "", nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config schema,
// and merges its contents into Viper.
//
// This does not use cueutil.ParseAndDecode: the result is merged into Viper
// as a map, and Concrete(false) applies because every field is optional.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	// Merging keeps defaults for absent keys and leaves env overrides on top.
	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// CreateDefaultConfig writes a default config file into configDir (the
// platform directory when empty) unless one exists. It returns the file
// path and whether it was created.
func CreateDefaultConfig(configDir string) (string, bool, error) {
	cfgDir, err := configDirWithOverride(configDir)
	if err != nil {
		return "", false, err
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
	if _, err := os.Stat(cfgPath); err == nil {
		return cfgPath, false, nil
	}

	if err := Save(DefaultConfig(), cfgPath); err != nil {
		return "", false, err
	}
	return cfgPath, true, nil
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// splitpkgscan configuration file\n")
	sb.WriteString("// Every field is optional. Environment variables prefixed with\n")
	sb.WriteString("// SPLITPKGSCAN_ override these values.\n\n")

	sb.WriteString("scopes: " + cueList(cfg.Scopes) + "\n")
	sb.WriteString(fmt.Sprintf("output_dir: %q\n", cfg.OutputDir))
	sb.WriteString(fmt.Sprintf("fail_on_split: %v\n", cfg.FailOnSplit))

	sb.WriteString("\ntool: {\n")
	sb.WriteString(fmt.Sprintf("\tname: %q\n", cfg.Tool.Name))
	sb.WriteString(fmt.Sprintf("\tkind: %q\n", cfg.Tool.Kind))
	if cfg.Tool.Command != "" {
		sb.WriteString(fmt.Sprintf("\tcommand: %q\n", cfg.Tool.Command))
	}
	if len(cfg.Tool.Args) > 0 {
		sb.WriteString("\targs: " + cueList(cfg.Tool.Args) + "\n")
	}
	if cfg.Tool.Script != "" {
		sb.WriteString(fmt.Sprintf("\tscript: %q\n", cfg.Tool.Script))
	}
	if cfg.Tool.EnvFile != "" {
		sb.WriteString(fmt.Sprintf("\tenv_file: %q\n", cfg.Tool.EnvFile))
	}
	if cfg.Tool.Dir != "" {
		sb.WriteString(fmt.Sprintf("\tdir: %q\n", cfg.Tool.Dir))
	}
	sb.WriteString("}\n")

	if cfg.Repository.Local != "" {
		sb.WriteString("\nrepository: {\n")
		sb.WriteString(fmt.Sprintf("\tlocal: %q\n", cfg.Repository.Local))
		sb.WriteString("}\n")
	}

	sb.WriteString("\nreport: {\n")
	sb.WriteString(fmt.Sprintf("\tformat: %q\n", cfg.Report.Format))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}

func cueList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
