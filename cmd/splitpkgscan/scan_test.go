// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/config"
	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/internal/tool"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

func TestScan_ReportsSplitPackages(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	stdout, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--repository", f.repoDir)
	if err != nil {
		t.Fatalf("scan error = %v\nstderr:\n%s", err, stderr)
	}

	for _, want := range []string{"com.acme.util", "split", "acme-util@1.0", "acme-io-1.0@1.0", "Scanned 3 artifacts: 2 packages, 1 split"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "com.acme.app") {
		t.Errorf("clean packages are only listed with --verbose:\n%s", stdout)
	}
	if !strings.Contains(stderr, "skipped:") || !strings.Contains(stderr, "acme-missing") {
		t.Errorf("stderr should list the unresolved dependency:\n%s", stderr)
	}
	if n := strings.Count(stderr, "Artifact not found!"); n != 1 {
		t.Errorf("artifact guidance rendered %d times, want once:\n%s", n, stderr)
	}
	if !strings.Contains(stderr, "Processing 3 artifacts...") || !strings.Contains(stderr, "Split package found") {
		t.Errorf("stderr missing progress logs:\n%s", stderr)
	}

	data, err := os.ReadFile(filepath.Join(f.projectDir, "target", "split-packages.yaml"))
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var doc struct {
		Summary struct {
			Packages int `yaml:"packages"`
			Split    int `yaml:"split"`
		} `yaml:"summary"`
		Packages []struct {
			Package string `yaml:"package"`
			Split   bool   `yaml:"split"`
		} `yaml:"packages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		t.Fatal(err)
	}
	if doc.Summary.Packages != 2 || doc.Summary.Split != 1 {
		t.Errorf("report summary = %+v", doc.Summary)
	}
}

func TestScan_SkipsJarNotBuilt(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	if err := os.Remove(filepath.Join(f.projectDir, "target", "acme-app.jar")); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--repository", f.repoDir)
	if err != nil {
		t.Fatalf("scan error = %v\nstderr:\n%s", err, stderr)
	}

	if !strings.Contains(stdout, "Scanned 2 artifacts: 1 packages, 1 split") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
	if !strings.Contains(stderr, filepath.Join(f.projectDir, "target", "acme-app.jar")) {
		t.Errorf("stderr should name the missing primary jar:\n%s", stderr)
	}
	if !strings.Contains(stderr, "Artifact not found!") {
		t.Errorf("stderr missing artifact guidance:\n%s", stderr)
	}
}

func TestScan_VerboseListsEveryPackage(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	stdout, stderr, err := runCLI(t, Dependencies{},
		"scan", "-v", "--config", f.configFile, "--project", filepath.Join(f.projectDir, "splitpkgscan.cue"),
		"--repository", f.repoDir, "--format", "none")
	if err != nil {
		t.Fatalf("scan error = %v\nstderr:\n%s", err, stderr)
	}
	if !strings.Contains(stdout, "com.acme.app") || !strings.Contains(stdout, "clean") {
		t.Errorf("verbose output should list clean packages:\n%s", stdout)
	}
	if strings.Contains(stdout, "Report written to") {
		t.Errorf("format none should not write a report:\n%s", stdout)
	}
	if !strings.Contains(stderr, "DEBU") {
		t.Errorf("verbose should enable debug logs:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(f.projectDir, "target")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output directory should not be created, stat error = %v", err)
	}
}

func TestScan_FailOnSplit(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	_, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--repository", f.repoDir, "--fail-on-split")

	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != types.ExitFailure {
		t.Fatalf("scan error = %v, want ExitError with code 1", err)
	}
	if !errors.Is(err, ErrSplitPackages) {
		t.Errorf("error should wrap ErrSplitPackages, got %v", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.SplitPackagesFoundId {
		t.Errorf("error should carry the split packages issue, got %v", err)
	}
	if !strings.Contains(stderr, "Split packages found") {
		t.Errorf("stderr should render the catalog entry:\n%s", stderr)
	}
}

func TestScan_InjectedTool(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `tool: name: "fake"`)
	var gotArgs []string
	fake := tool.NewFunc("fake", func(_ context.Context, _ io.Reader, stdout, _ io.Writer, args []string) (types.ExitCode, error) {
		gotArgs = args
		for _, a := range args {
			fmt.Fprintf(stdout, "package com.acme.shared %s %s\n", strings.TrimSuffix(filepath.Base(a), ".jar"), a)
		}
		return 0, nil
	})

	stdout, stderr, err := runCLI(t, Dependencies{Tools: []tool.Tool{fake}},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--repository", f.repoDir,
		"--scopes", "compile,test", "--output-dir", "reports", "--format", "json")
	if err != nil {
		t.Fatalf("scan error = %v\nstderr:\n%s", err, stderr)
	}

	want := []string{
		filepath.Join(f.projectDir, "target", "acme-app.jar"),
		filepath.Join(f.projectDir, "lib", "acme-util.jar"),
		filepath.Join(f.projectDir, "lib", "acme-test.jar"),
		filepath.Join(f.repoDir, "org", "acme", "acme-io", "1.0", "acme-io-1.0.jar"),
	}
	if diff := cmp.Diff(want, gotArgs); diff != "" {
		t.Errorf("tool arguments mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(stdout, "Scanned 4 artifacts: 1 packages, 1 split") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
	if _, err := os.Stat(filepath.Join(f.projectDir, "reports", "split-packages.json")); err != nil {
		t.Errorf("json report not written: %v", err)
	}
}

func TestScan_ToolFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `
tool: {
	kind: "script"
	script: """
		echo "cannot open $1" >&2
		exit 3
		"""
}
`)
	stdout, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--repository", f.repoDir)

	if !errors.Is(err, tool.ErrNonZeroExit) {
		t.Fatalf("scan error = %v, want ErrNonZeroExit", err)
	}
	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.ToolExecutionFailedId {
		t.Errorf("error should carry the tool execution issue, got %v", err)
	}
	if !strings.Contains(stdout, "Scanned 0 artifacts") {
		t.Errorf("a failed tool run scans no artifacts:\n%s", stdout)
	}
	if !strings.Contains(stderr, "cannot open") {
		t.Errorf("tool stderr should be forwarded:\n%s", stderr)
	}
	if _, err := os.Stat(filepath.Join(f.projectDir, "target")); !errors.Is(err, os.ErrNotExist) {
		t.Error("no report should be written when the tool fails")
	}
}

func TestScan_ProjectNotFound(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	_, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", t.TempDir())

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.ProjectNotFoundId {
		t.Fatalf("scan error = %v, want project not found issue", err)
	}
	if !strings.Contains(stderr, "No project descriptor found") {
		t.Errorf("stderr should render the catalog entry:\n%s", stderr)
	}
}

func TestScan_InvalidFlagValue(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	_, _, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--format", "xml")

	var cfgErr *config.InvalidConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("scan error = %v, want *config.InvalidConfigError", err)
	}
}

func TestScan_InvalidScope(t *testing.T) {
	t.Parallel()

	f := newFixture(t, scannerScript)
	_, _, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir, "--scopes", "compile,not a scope")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("scan error = %v, want *ServiceError", err)
	}
	if !errors.Is(err, artifact.ErrInvalidScope) {
		t.Errorf("scan error = %v, want ErrInvalidScope", err)
	}
}

func TestScan_ConfigLoadFailure(t *testing.T) {
	t.Parallel()

	f := newFixture(t, `tool: kind: "docker"`)
	_, stderr, err := runCLI(t, Dependencies{},
		"scan", "--config", f.configFile, "--project", f.projectDir)

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) || svcErr.IssueID != issue.ConfigLoadFailedId {
		t.Fatalf("scan error = %v, want config load issue", err)
	}
	if !strings.Contains(stderr, "Failed to load configuration") {
		t.Errorf("stderr should render the catalog entry:\n%s", stderr)
	}
}

func TestResolveTool_InvalidScript(t *testing.T) {
	t.Parallel()

	app := NewApp(Dependencies{Stdout: io.Discard, Stderr: io.Discard})
	_, err := resolveTool(app, config.ToolConfig{Name: "broken", Kind: config.ToolKindScript, Script: "echo 'unterminated"}, types.FilesystemPath(t.TempDir()))
	if err == nil {
		t.Fatal("resolveTool() should fail for a script that does not parse")
	}
	if got := issue.IssueOf(err); got != issue.ConfigLoadFailedId {
		t.Errorf("IssueOf() = %d, want %d", got, issue.ConfigLoadFailedId)
	}
}

func TestResolveTool_InjectedReplacesConfigured(t *testing.T) {
	t.Parallel()

	injected := tool.NewFunc(tool.DefaultName, func(context.Context, io.Reader, io.Writer, io.Writer, []string) (types.ExitCode, error) {
		return 0, nil
	})
	app := NewApp(Dependencies{Tools: []tool.Tool{injected}, Stdout: io.Discard, Stderr: io.Discard})

	got, err := resolveTool(app, config.DefaultConfig().Tool, types.FilesystemPath(t.TempDir()))
	if err != nil {
		t.Fatalf("resolveTool() error = %v", err)
	}
	if got != tool.Tool(injected) {
		t.Errorf("resolveTool() = %T, want the injected tool", got)
	}
}

func TestScanIssue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"unavailable", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotFound, Cause: tool.ErrToolUnavailable}, issue.ToolNotFoundId},
		{"not registered", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotFound, Cause: tool.ErrToolNotFound}, issue.ToolNotFoundId},
		{"permission", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotExecutable, Cause: os.ErrPermission}, issue.PermissionDeniedId},
		{"wrapper exit 127", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotFound, Cause: tool.ErrNonZeroExit}, issue.ToolNotFoundId},
		{"wrapper exit 126", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotExecutable, Cause: tool.ErrNonZeroExit}, issue.ToolNotFoundId},
		{"wrapped exit 127", fmt.Errorf("scan: %w", &tool.ToolInvocationError{Tool: "x", ExitCode: types.ExitNotFound, Cause: tool.ErrNonZeroExit}), issue.ToolNotFoundId},
		{"exit status", &tool.ToolInvocationError{Tool: "x", ExitCode: 2, Cause: tool.ErrNonZeroExit}, issue.ToolExecutionFailedId},
		{"canceled", context.Canceled, issue.ToolExecutionFailedId},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := scanIssue(tt.err); got != tt.want {
				t.Errorf("scanIssue() = %d, want %d", got, tt.want)
			}
		})
	}
}
