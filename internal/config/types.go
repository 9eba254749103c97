// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/tool"
	"github.com/adoptopenjdk/splitpkgscan/internal/verdict"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

const (
	// ToolKindExec runs the scanner as a host executable.
	ToolKindExec ToolKind = "exec"
	// ToolKindScript runs the scanner as a script in the embedded mvdan/sh interpreter.
	ToolKindScript ToolKind = "script"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultOutputDir is the report directory used when none is configured.
	DefaultOutputDir = "target"
)

var (
	// ErrInvalidToolKind is returned when a ToolKind value is not recognized.
	ErrInvalidToolKind = errors.New("invalid tool kind")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidToolConfig is the sentinel error wrapped by InvalidToolConfigError.
	ErrInvalidToolConfig = errors.New("invalid tool config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ToolKind selects how the scanner is run.
	ToolKind string

	// InvalidToolKindError is returned when a ToolKind value is not recognized.
	// It wraps ErrInvalidToolKind for errors.Is() compatibility.
	InvalidToolKindError struct {
		Value ToolKind
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidToolConfigError is returned when a ToolConfig has invalid fields.
	// It wraps ErrInvalidToolConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidToolConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Scopes lists the accepted artifact scopes
		Scopes []string `json:"scopes" mapstructure:"scopes"`
		// OutputDir receives the split-package report
		OutputDir string `json:"output_dir" mapstructure:"output_dir"`
		// FailOnSplit makes split packages a failing outcome
		FailOnSplit bool `json:"fail_on_split" mapstructure:"fail_on_split"`
		// Tool configures the package scanner
		Tool ToolConfig `json:"tool" mapstructure:"tool"`
		// Repository configures dependency lookup
		Repository RepositoryConfig `json:"repository" mapstructure:"repository"`
		// Report configures the report file
		Report ReportConfig `json:"report" mapstructure:"report"`
		// UI configures the user interface
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}

	// ToolConfig configures the package scanner.
	ToolConfig struct {
		// Name is the registry name of the scanner
		Name string `json:"name" mapstructure:"name"`
		// Kind selects exec or script
		Kind ToolKind `json:"kind" mapstructure:"kind"`
		// Command is the executable for kind exec
		Command string `json:"command" mapstructure:"command"`
		// Args are placed before the artifact paths
		Args []string `json:"args" mapstructure:"args"`
		// Script is the shell source for kind script
		Script string `json:"script" mapstructure:"script"`
		// EnvFile is a dotenv file exported to the scanner; a trailing '?' makes it optional
		EnvFile string `json:"env_file" mapstructure:"env_file"`
		// Dir is the scanner's working directory
		Dir string `json:"dir" mapstructure:"dir"`
	}

	// RepositoryConfig configures the local artifact repository.
	RepositoryConfig struct {
		// Local is the repository root; empty means ~/.m2/repository
		Local string `json:"local" mapstructure:"local"`
	}

	// ReportConfig configures the report file.
	ReportConfig struct {
		// Format is yaml, json or none
		Format verdict.Format `json:"format" mapstructure:"format"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug logging
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// String returns the string representation of the ToolKind.
func (k ToolKind) String() string { return string(k) }

// Validate returns nil if the ToolKind is exec or script.
func (k ToolKind) Validate() error {
	switch k {
	case ToolKindExec, ToolKindScript:
		return nil
	default:
		return &InvalidToolKindError{Value: k}
	}
}

// Error implements the error interface for InvalidToolKindError.
func (e *InvalidToolKindError) Error() string {
	return fmt.Sprintf("invalid tool kind %q (valid: exec, script)", e.Value)
}

// Unwrap returns ErrInvalidToolKind for errors.Is() compatibility.
func (e *InvalidToolKindError) Unwrap() error { return ErrInvalidToolKind }

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// Validate returns nil if the ColorScheme is one of the defined color schemes.
func (cs ColorScheme) Validate() error {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return nil
	default:
		return &InvalidColorSchemeError{Value: cs}
	}
}

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Validate checks the tool fields against the selected kind.
func (c ToolConfig) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, errors.New("tool.name: must not be empty"))
	}
	if err := c.Kind.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Kind == ToolKindScript && strings.TrimSpace(c.Script) == "" {
		errs = append(errs, errors.New("tool.script: required for kind script"))
	}
	if len(errs) > 0 {
		return &InvalidToolConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidToolConfigError.
func (e *InvalidToolConfigError) Error() string {
	return fmt.Sprintf("invalid tool config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidToolConfig and the field errors.
func (e *InvalidToolConfigError) Unwrap() []error {
	return append([]error{ErrInvalidToolConfig}, e.FieldErrors...)
}

// ScopeSet parses Scopes. An empty list yields the default scopes.
func (c Config) ScopeSet() (artifact.ScopeSet, error) {
	return artifact.ParseScopeSet(c.Scopes)
}

// Validate delegates to every typed field and collects the failures.
func (c Config) Validate() error {
	var errs []error
	if _, err := c.ScopeSet(); err != nil {
		errs = append(errs, err)
	}
	if err := types.FilesystemPath(c.OutputDir).Validate(); err != nil {
		errs = append(errs, fmt.Errorf("output_dir: %w", err))
	}
	if err := c.Tool.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Report.Format.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.UI.ColorScheme.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return &InvalidConfigError{FieldErrors: errs}
	}
	return nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s", joinErrors(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

func joinErrors(errs []error) string {
	msgs := make([]string, len(errs))
	for i, err := range errs {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Scopes:      []string{string(artifact.ScopeCompile), string(artifact.ScopeRuntime)},
		OutputDir:   DefaultOutputDir,
		FailOnSplit: false,
		Tool: ToolConfig{
			Name:    tool.DefaultName,
			Kind:    ToolKindExec,
			Command: tool.DefaultName,
			Args:    []string{},
		},
		Repository: RepositoryConfig{
			Local: "", // Will use ~/.m2/repository if empty
		},
		Report: ReportConfig{
			Format: verdict.FormatYAML,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
