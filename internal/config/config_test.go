// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/internal/testutil"
	"github.com/adoptopenjdk/splitpkgscan/internal/verdict"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// isolated returns options that see neither the user's config directory nor
// a config file in the working directory.
func isolated(t *testing.T) LoadOptions {
	t.Helper()
	return LoadOptions{
		ConfigDirPath: types.FilesystemPath(t.TempDir()),
		BaseDir:       types.FilesystemPath(t.TempDir()),
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if diff := cmp.Diff([]string{"compile", "runtime"}, cfg.Scopes); diff != "" {
		t.Errorf("default scopes mismatch (-want +got):\n%s", diff)
	}
	if cfg.OutputDir != "target" {
		t.Errorf("expected default output dir to be target, got %s", cfg.OutputDir)
	}
	if cfg.FailOnSplit {
		t.Error("expected fail_on_split to be false by default")
	}
	if cfg.Tool.Name != "jsplitpgkscan" || cfg.Tool.Kind != ToolKindExec || cfg.Tool.Command != "jsplitpgkscan" {
		t.Errorf("unexpected default tool %+v", cfg.Tool)
	}
	if cfg.Report.Format != verdict.FormatYAML {
		t.Errorf("expected default report format to be yaml, got %s", cfg.Report.Format)
	}
	if cfg.UI.ColorScheme != ColorSchemeAuto || cfg.UI.Verbose {
		t.Errorf("unexpected default UI %+v", cfg.UI)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is Linux-specific")
	}

	t.Setenv("XDG_CONFIG_HOME", "/tmp/test-xdg-config")
	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join("/tmp/test-xdg-config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	home := t.TempDir()
	testutil.SetHomeDir(t, home)
	t.Setenv("XDG_CONFIG_HOME", "")
	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, path, err := Load(context.Background(), isolated(t))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != "" {
		t.Errorf("Load() path = %q, want none", path)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ConfigDirFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	cfgPath := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	testutil.MustWriteFile(t, cfgPath, `
scopes: ["compile", "provided"]
fail_on_split: true
tool: {
	kind: "script"
	script: "echo scanning"
	args: ["--verbose"]
}
report: format: "json"
`)

	cfg, path, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != cfgPath {
		t.Errorf("Load() path = %q, want %q", path, cfgPath)
	}

	want := DefaultConfig()
	want.Scopes = []string{"compile", "provided"}
	want.FailOnSplit = true
	want.Tool.Kind = ToolKindScript
	want.Tool.Script = "echo scanning"
	want.Tool.Args = []string{"--verbose"}
	want.Report.Format = verdict.FormatJSON
	if diff := cmp.Diff(want, cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_LocalFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	localPath := filepath.Join(string(opts.BaseDir), LocalConfigFileName)
	testutil.MustWriteFile(t, localPath, `output_dir: "build/reports"`)

	cfg, path, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if path != localPath || cfg.OutputDir != "build/reports" {
		t.Errorf("Load() = (%q, %q), want the local file", path, cfg.OutputDir)
	}
}

func TestLoad_ConfigDirWinsOverLocal(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `output_dir: "from-user"`)
	testutil.MustWriteFile(t, filepath.Join(string(opts.BaseDir), LocalConfigFileName), `output_dir: "from-local"`)

	cfg, _, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "from-user" {
		t.Errorf("OutputDir = %q, want from-user", cfg.OutputDir)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `output_dir: "ignored"`)
	explicit := filepath.Join(t.TempDir(), "custom.cue")
	testutil.MustWriteFile(t, explicit, `output_dir: "explicit"`)
	opts.ConfigFilePath = types.FilesystemPath(explicit)

	cfg, path, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if path != explicit || cfg.OutputDir != "explicit" {
		t.Errorf("Load() = (%q, %q), want the explicit file only", path, cfg.OutputDir)
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	opts := isolated(t)
	opts.ConfigFilePath = types.FilesystemPath(filepath.Join(t.TempDir(), "missing.cue"))

	_, _, err := Load(context.Background(), opts)
	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("Load() error = %v, want *issue.ActionableError", err)
	}
	if !actionable.HasSuggestions() || !strings.Contains(err.Error(), "config file not found") {
		t.Errorf("unexpected error %v", err)
	}
}

func TestLoad_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"unknown field", `plugins: []`, "plugins"},
		{"bad kind", `tool: kind: "docker"`, "kind"},
		{"bad format", `report: format: "xml"`, "format"},
		{"bad scope type", `scopes: [1]`, "scopes"},
		{"syntax", `scopes: [`, "config.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := isolated(t)
			testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), tt.content)

			_, _, err := Load(context.Background(), opts)
			if err == nil {
				t.Fatal("Load() should fail")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("Load() error = %v, want mention of %q", err, tt.wantMsg)
			}
		})
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	opts := isolated(t)
	testutil.MustWriteFile(t, filepath.Join(string(opts.ConfigDirPath), "config.cue"), `output_dir: "from-file"`)

	t.Setenv("SPLITPKGSCAN_OUTPUT_DIR", "from-env")
	t.Setenv("SPLITPKGSCAN_TOOL_COMMAND", "/opt/jdk/bin/jsplitpgkscan")
	t.Setenv("SPLITPKGSCAN_FAIL_ON_SPLIT", "true")

	cfg, _, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.OutputDir != "from-env" {
		t.Errorf("OutputDir = %q, want from-env", cfg.OutputDir)
	}
	if cfg.Tool.Command != "/opt/jdk/bin/jsplitpgkscan" {
		t.Errorf("Tool.Command = %q", cfg.Tool.Command)
	}
	if !cfg.FailOnSplit {
		t.Error("FailOnSplit should be overridden to true")
	}
}

func TestLoad_EnvValidated(t *testing.T) {
	t.Setenv("SPLITPKGSCAN_REPORT_FORMAT", "xml")

	_, _, err := Load(context.Background(), isolated(t))
	if !errors.Is(err, verdict.ErrInvalidFormat) {
		t.Errorf("Load() error = %v, want ErrInvalidFormat", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, err := Load(ctx, isolated(t)); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Scopes = []string{"compile", "test"}
	cfg.FailOnSplit = true
	cfg.Tool = ToolConfig{
		Name:    "wrapped",
		Kind:    ToolKindScript,
		Script:  "jsplitpgkscan \"$@\"\necho done",
		Args:    []string{"-q"},
		EnvFile: "scan.env?",
		Dir:     "/work",
	}
	cfg.Repository.Local = "/srv/m2"
	cfg.Report.Format = verdict.FormatNone
	cfg.UI = UIConfig{ColorScheme: ColorSchemeDark, Verbose: true}

	opts := isolated(t)
	path := filepath.Join(string(opts.ConfigDirPath), "config.cue")
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, _, err := Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error = %v\n%s", err, GenerateCUE(cfg))
	}
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), AppName)

	path, created, err := CreateDefaultConfig(dir)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	if !created || path != filepath.Join(dir, "config.cue") {
		t.Errorf("CreateDefaultConfig() = (%q, %v)", path, created)
	}

	_, created, err = CreateDefaultConfig(dir)
	if err != nil || created {
		t.Errorf("second CreateDefaultConfig() = (%v, %v), want existing file kept", created, err)
	}

	cfg, _, err := Load(context.Background(), LoadOptions{ConfigDirPath: types.FilesystemPath(dir), BaseDir: types.FilesystemPath(t.TempDir())})
	if err != nil {
		t.Fatalf("Load() of generated default error = %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("generated default mismatch (-want +got):\n%s", diff)
	}
}
