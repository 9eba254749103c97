// SPDX-License-Identifier: MPL-2.0

package scan

import (
	"context"
	"fmt"
	"io"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/report"
	"github.com/adoptopenjdk/splitpkgscan/internal/splitpkg"
	"github.com/adoptopenjdk/splitpkgscan/internal/tool"
	"github.com/adoptopenjdk/splitpkgscan/internal/verdict"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"
)

type (
	// Scanner wires a Builder and a Tool into a scan pipeline. It holds no
	// per-run state; every Run starts from scratch.
	Scanner struct {
		builder    *artifact.Builder
		tool       tool.Tool
		consumers  []verdict.Consumer
		parserOpts []report.Option
		stderr     io.Writer
		logger     *log.Logger
	}

	// Option configures a Scanner.
	Option func(*Scanner)

	// Result describes one run. Run always returns a non-nil Result.
	Result struct {
		// ArtifactsScanned is the number of paths handed to a tool that
		// completed successfully; zero when the tool failed or never ran.
		ArtifactsScanned int
		// ScanSet is the builder output, nil if building was cancelled.
		ScanSet *artifact.ScanSet
		// Classification holds every aggregated package. It is empty when
		// the tool failed and partial when parsing failed.
		Classification splitpkg.Classification
		// Records counts decoded data lines, duplicates included.
		Records int
		// SkippedLines counts non-data lines that were not blank or comments.
		SkippedLines int
		// ExitCode is the tool's exit status. The tool goroutine writes it,
		// so it is only valid once Run has returned.
		ExitCode types.ExitCode
	}
)

// WithConsumers adds verdict consumers, called in order after a
// successful run.
func WithConsumers(consumers ...verdict.Consumer) Option {
	return func(s *Scanner) { s.consumers = append(s.consumers, consumers...) }
}

// WithParserOptions passes options through to the report parser.
func WithParserOptions(opts ...report.Option) Option {
	return func(s *Scanner) { s.parserOpts = append(s.parserOpts, opts...) }
}

// WithStderr forwards the tool's diagnostic output to w.
func WithStderr(w io.Writer) Option {
	return func(s *Scanner) { s.stderr = w }
}

// WithLogger sets the logger for progress messages.
func WithLogger(logger *log.Logger) Option {
	return func(s *Scanner) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Scanner.
func New(builder *artifact.Builder, t tool.Tool, opts ...Option) *Scanner {
	s := &Scanner{
		builder: builder,
		tool:    t,
		stderr:  io.Discard,
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SplitPackages returns the split packages in lexical order.
func (r *Result) SplitPackages() []string {
	return r.Classification.SplitPackages()
}

// Run scans project. Resolution problems are recorded in the ScanSet and do
// not fail the run. A *tool.ToolInvocationError or *report.ParseError is
// returned as is, together with the Result built so far.
func (s *Scanner) Run(ctx context.Context, project artifact.Project) (*Result, error) {
	res := &Result{Classification: make(splitpkg.Classification)}
	defer func() {
		s.logger.Info("scan finished.", "artifacts", res.ArtifactsScanned, "packages", res.Classification.Len())
	}()

	set, err := s.builder.Build(ctx, project)
	if err != nil {
		return res, err
	}
	res.ScanSet = set

	args := set.Args()
	s.logger.Info(fmt.Sprintf("Processing %d artifacts...", len(args)))
	for _, a := range args {
		s.logger.Debug("artifact", "path", a)
	}
	if len(args) == 0 {
		s.logger.Warn("no artifacts to scan")
		return res, nil
	}

	agg, toolErr, parseErr := s.stream(ctx, args, res)
	switch {
	case parseErr != nil:
		res.Records = agg.Records()
		res.Classification = agg.Classification()
		if toolErr == nil {
			res.ArtifactsScanned = len(args)
		}
		return res, parseErr
	case toolErr != nil:
		return res, toolErr
	}

	res.ArtifactsScanned = len(args)
	res.Records = agg.Records()
	res.Classification = agg.Classification()
	verdict.Emit(res.Classification, s.consumers...)
	return res, nil
}

// stream runs the tool and the parser concurrently. When parsing fails the
// pipe is closed and the tool cancelled, so any tool error that follows is a
// consequence of the parse error.
func (s *Scanner) stream(ctx context.Context, args []string, res *Result) (agg *splitpkg.Aggregator, toolErr, parseErr error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	pr, pw := io.Pipe()
	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		code, err := s.tool.Run(gctx, nil, pw, s.stderr, args)
		res.ExitCode = code
		pw.Close()
		return err
	})

	opts := append([]report.Option{report.WithLogger(s.logger)}, s.parserOpts...)
	parser := report.NewParser(pr, opts...)
	agg = splitpkg.NewAggregator()
	if parseErr = agg.Consume(parser.Records()); parseErr != nil {
		cancel()
		pr.CloseWithError(parseErr)
	} else {
		pr.Close()
	}

	toolErr = g.Wait()
	res.SkippedLines = parser.Skipped()
	return agg, toolErr, parseErr
}
