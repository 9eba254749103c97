// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/config"
	"github.com/adoptopenjdk/splitpkgscan/internal/issue"
	"github.com/adoptopenjdk/splitpkgscan/internal/project"
	"github.com/adoptopenjdk/splitpkgscan/internal/report"
	"github.com/adoptopenjdk/splitpkgscan/internal/repository"
	"github.com/adoptopenjdk/splitpkgscan/internal/scan"
	"github.com/adoptopenjdk/splitpkgscan/internal/tool"
	"github.com/adoptopenjdk/splitpkgscan/internal/verdict"
	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// ErrSplitPackages is returned by scan when split packages are found and
// fail_on_split is set.
var ErrSplitPackages = errors.New("split packages found")

// scanFlags holds the scan command's flag values. Config values are only
// overridden by flags the user set.
type scanFlags struct {
	project     string
	scopes      []string
	outputDir   string
	format      string
	repository  string
	failOnSplit bool
	timeout     time.Duration
}

func newScanCommand(app *App) *cobra.Command {
	var flags scanFlags

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan a project for split packages",
		Long: `Scan a project for split packages.

The project artifact, the extra artifacts and the dependencies whose scope is
accepted are handed to the package scanner in one run. Dependencies are
resolved in the local repository (~/.m2/repository by default); the ones that
cannot be resolved are reported and skipped.

A report file listing every package is written to the output directory.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := runScan(cmd.Context(), app, flags, cmd.Flags().Changed); err != nil {
				return failCommand(cmd, app, err)
			}
			return nil
		},
	}

	scanCmd.Flags().StringVarP(&flags.project, "project", "p", ".", "project descriptor or the directory holding it")
	scanCmd.Flags().StringSliceVar(&flags.scopes, "scopes", nil, "accepted dependency scopes (default compile,runtime)")
	scanCmd.Flags().StringVarP(&flags.outputDir, "output-dir", "o", "", "report directory, relative to the project (default target)")
	scanCmd.Flags().StringVar(&flags.format, "format", "", "report format: yaml, json or none")
	scanCmd.Flags().StringVar(&flags.repository, "repository", "", "local repository root (default ~/.m2/repository)")
	scanCmd.Flags().BoolVar(&flags.failOnSplit, "fail-on-split", false, "exit with status 1 when split packages are found")
	scanCmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "abort the scan after this duration (0 disables)")

	return scanCmd
}

// apply copies the flags the user set onto cfg.
func (f scanFlags) apply(cfg *config.Config, changed func(name string) bool) {
	if changed("scopes") {
		cfg.Scopes = f.scopes
	}
	if changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if changed("format") {
		cfg.Report.Format = verdict.Format(f.format)
	}
	if changed("repository") {
		cfg.Repository.Local = f.repository
	}
	if changed("fail-on-split") {
		cfg.FailOnSplit = f.failOnSplit
	}
}

func runScan(ctx context.Context, app *App, flags scanFlags, changed func(name string) bool) error {
	descriptorPath, projectDir := locateProject(flags.project)

	cfg, err := app.loadConfig(ctx, projectDir)
	if err != nil {
		return err
	}
	flags.apply(cfg, changed)
	if err := cfg.Validate(); err != nil {
		return newServiceError(err, 0, styledError(err, app.verbose))
	}

	logger := app.newLogger()

	desc, err := loadProject(descriptorPath, projectDir)
	if err != nil {
		return newServiceError(err, projectIssue(err), styledError(err, app.verbose))
	}
	projectDir = fspath.Dir(desc.Path())

	outputDir := fspath.ResolveAgainst(projectDir, types.FilesystemPath(cfg.OutputDir))
	logger.Debug("project", "name", desc.Name(), "descriptor", desc.Path())
	logger.Debug("output directory", "path", outputDir)

	scopes, err := cfg.ScopeSet()
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId, styledError(err, app.verbose))
	}
	logger.Debug("scopes", "accepted", scopes.String())

	builder := artifact.NewBuilder(
		openRepository(cfg, logger),
		artifact.WithScopes(scopes),
		artifact.WithLogger(logger.WithPrefix("artifact")),
	)

	scanner, err := resolveTool(app, cfg.Tool, projectDir)
	if err != nil {
		return newServiceError(err, issue.IssueOf(err), styledError(err, app.verbose))
	}

	writer, err := verdict.NewReportWriter(outputDir, cfg.Report.Format)
	if err != nil {
		return newServiceError(err, issue.ReportWriteFailedId, styledError(err, app.verbose))
	}
	var collector verdict.Collector

	if flags.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flags.timeout)
		defer cancel()
	}

	res, err := scan.New(builder, scanner,
		scan.WithConsumers(verdict.NewLogConsumer(logger.WithPrefix("verdict")), &collector, writer),
		scan.WithStderr(app.stderr),
		scan.WithLogger(logger),
	).Run(ctx, desc)

	renderSkipped(app.stderr, res.ScanSet, app.stylePath())
	if err != nil {
		renderSummary(app.stdout, res, "")
		id := scanIssue(err)
		wrapped := issue.NewErrorContext().
			WithOperation("scan project").
			WithResource(desc.Name()).
			WithIssue(id).
			WithSuggestion("Run with --verbose to see the scanner's arguments").
			Wrap(err).
			BuildError()
		return newServiceError(wrapped, id, styledError(wrapped, app.verbose))
	}

	reportPath, err := writer.Flush()
	if err != nil {
		return newServiceError(err, issue.ReportWriteFailedId, styledError(err, app.verbose))
	}

	renderVerdicts(app.stdout, collector.Verdicts(), app.verbose)
	renderSummary(app.stdout, res, reportPath)

	if split := res.SplitPackages(); len(split) > 0 && cfg.FailOnSplit {
		err := fmt.Errorf("%w: %d", ErrSplitPackages, len(split))
		return &ExitError{
			Code: types.ExitFailure,
			Err:  newServiceError(err, issue.SplitPackagesFoundId, styledError(err, false)),
		}
	}
	return nil
}

// locateProject splits the --project value into a descriptor path (empty
// when a directory was given) and the project directory.
func locateProject(p string) (descriptor, dir types.FilesystemPath) {
	path := types.FilesystemPath(p)
	if path == "" {
		path = "."
	}
	if info, err := os.Stat(string(path)); err == nil && info.IsDir() {
		return "", path
	}
	return path, fspath.Dir(path)
}

func loadProject(descriptor, dir types.FilesystemPath) (*project.Descriptor, error) {
	if descriptor == "" {
		found, err := project.Find(dir)
		if err != nil {
			return nil, err
		}
		descriptor = found
	}
	return project.Load(descriptor)
}

func projectIssue(err error) issue.Id {
	if errors.Is(err, project.ErrDescriptorNotFound) || errors.Is(err, fs.ErrNotExist) {
		return issue.ProjectNotFoundId
	}
	return issue.ProjectInvalidId
}

// openRepository opens the configured local repository. A missing
// repository is not fatal: dependencies are then reported as skipped.
func openRepository(cfg *config.Config, logger *log.Logger) artifact.Repository {
	root := types.FilesystemPath(cfg.Repository.Local)
	if root == "" {
		var err error
		if root, err = repository.DefaultRoot(); err != nil {
			logger.Warn("no local repository", "error", err)
			return nil
		}
	}
	logger.Debug("repository", "root", root)

	repo, err := repository.NewLocal(root, repository.WithLogger(logger.WithPrefix("repository")))
	if err != nil {
		logger.Warn("local repository unavailable, dependencies will be skipped", "error", err)
		return nil
	}
	return repo
}

// resolveTool registers the configured tool and the injected ones, then
// looks up the configured name.
func resolveTool(app *App, tc config.ToolConfig, projectDir types.FilesystemPath) (tool.Tool, error) {
	configured, err := newConfiguredTool(tc, projectDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("configure package scanner").
			WithResource(tc.Name).
			WithIssue(issue.ConfigLoadFailedId).
			WithSuggestion("Check the 'tool.script' value for shell syntax errors").
			Wrap(err).
			BuildError()
	}

	registry := tool.NewRegistry(configured)
	for _, t := range app.tools {
		registry.Register(t)
	}

	t, err := registry.Get(tc.Name)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("find package scanner").
			WithResource(tc.Name).
			WithIssue(issue.ToolNotFoundId).
			Wrap(err).
			BuildError()
	}
	return t, nil
}

// newConfiguredTool builds the tool described by tc. Relative directories
// are resolved against the project directory.
func newConfiguredTool(tc config.ToolConfig, projectDir types.FilesystemPath) (tool.Tool, error) {
	opts := []tool.Option{tool.WithArgs(tc.Args...)}
	if tc.Dir != "" {
		opts = append(opts, tool.WithDir(fspath.ResolveAgainst(projectDir, types.FilesystemPath(tc.Dir))))
	} else {
		opts = append(opts, tool.WithDir(projectDir))
	}
	if tc.EnvFile != "" {
		opts = append(opts, tool.WithEnvFile(tc.EnvFile))
	}

	switch tc.Kind {
	case config.ToolKindScript:
		return tool.NewScriptTool(tc.Name, tc.Script, opts...)
	default:
		return tool.NewExecTool(tc.Name, tc.Command, opts...), nil
	}
}

func scanIssue(err error) issue.Id {
	var invErr *tool.ToolInvocationError
	switch {
	case errors.Is(err, tool.ErrToolNotFound), errors.Is(err, tool.ErrToolUnavailable):
		return issue.ToolNotFoundId
	case errors.Is(err, report.ErrParse):
		return issue.ReportParseFailedId
	case errors.Is(err, os.ErrPermission):
		return issue.PermissionDeniedId
	// A wrapper script reporting that the scanner itself is missing.
	case errors.As(err, &invErr) && invErr.ExitCode.IsUnavailable():
		return issue.ToolNotFoundId
	default:
		return issue.ToolExecutionFailedId
	}
}
