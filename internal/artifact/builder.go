// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"fmt"
	"io"

	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/log"
)

type (
	// Builder assembles the scan input. A Builder holds no per-run state and
	// may be reused; each Build call starts from an empty set.
	Builder struct {
		scopes ScopeSet
		repo   Repository
		logger *log.Logger
	}

	// BuilderOption configures a Builder.
	BuilderOption func(*Builder)

	// ScanSet is the result of Build.
	ScanSet struct {
		// Paths are absolute, cleaned and distinct, in order of first
		// appearance. The primary artifact comes first when it has a file.
		Paths []types.FilesystemPath
		// Skipped lists every artifact or dependency that could not be resolved.
		Skipped []*ResolutionError
	}
)

// WithScopes sets the accepted scopes. An empty set means DefaultScopes.
func WithScopes(scopes ScopeSet) BuilderOption {
	return func(b *Builder) {
		if len(scopes) > 0 {
			b.scopes = scopes
		}
	}
}

// WithLogger sets the logger used for skip warnings and debug traces.
func WithLogger(logger *log.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a Builder resolving dependencies through repo.
// repo may be nil, in which case every declared dependency is skipped.
func NewBuilder(repo Repository, opts ...BuilderOption) *Builder {
	b := &Builder{
		scopes: DefaultScopes(),
		repo:   repo,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Scopes returns the scope filter in effect.
func (b *Builder) Scopes() ScopeSet { return b.scopes }

// Build collects the primary artifact, the scope-filtered project artifacts
// and the scope-filtered resolved dependencies, in that order. Resolution
// failures are recorded in ScanSet.Skipped; the only error returned is a
// cancelled context.
func (b *Builder) Build(ctx context.Context, project Project) (*ScanSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("build scan set: %w", err)
	}
	acc := newAccumulator()

	primary := project.PrimaryArtifact()
	b.logger.Debug("primary artifact", "artifact", primary.String(), "file", primary.Path)
	b.add(acc, primary)

	for _, a := range project.Artifacts() {
		if !b.scopes.Contains(a.Scope) {
			b.logger.Debug("artifact excluded by scope", "artifact", a.String(), "scope", a.Scope)
			continue
		}
		b.add(acc, a)
	}

	for _, dep := range project.Dependencies() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("build scan set: %w", err)
		}

		a, err := b.resolve(ctx, dep)
		if err != nil {
			b.skip(acc, &ResolutionError{Subject: dep.String(), Cause: err})
			continue
		}
		if !b.scopes.Contains(a.Scope) {
			b.logger.Debug("dependency excluded by scope", "dependency", dep.String(), "scope", a.Scope)
			continue
		}
		b.add(acc, a)
	}

	return &ScanSet{Paths: acc.paths, Skipped: acc.skipped}, nil
}

func (b *Builder) resolve(ctx context.Context, dep Dependency) (Artifact, error) {
	if b.repo == nil {
		return Artifact{}, ErrNoRepository
	}
	if err := dep.Validate(); err != nil {
		return Artifact{}, err
	}
	a, err := b.repo.Find(ctx, dep)
	if err != nil {
		return Artifact{}, err
	}
	if a.Scope == "" {
		a.Scope = dep.EffectiveScope()
	}
	if a.ID == "" {
		a.ID = dep.String()
	}
	return a, nil
}

// add appends the artifact's absolute path unless it was already seen or
// the file does not exist.
func (b *Builder) add(acc *accumulator, a Artifact) {
	if !a.HasFile() {
		b.skip(acc, &ResolutionError{Subject: a.String(), Cause: ErrNoFile})
		return
	}
	p, err := fspath.Abs(a.Path)
	if err != nil {
		b.skip(acc, &ResolutionError{Subject: a.String(), Cause: err})
		return
	}
	if acc.has(p) {
		b.logger.Debug("duplicate artifact path ignored", "artifact", a.String(), "path", p)
		return
	}
	// Declared but not built yet.
	if !fspath.IsRegularFile(p) {
		b.skip(acc, &ResolutionError{Subject: a.String(), Cause: fmt.Errorf("%w: %s", ErrNoFile, p)})
		return
	}
	acc.push(p)
}

func (b *Builder) skip(acc *accumulator, err *ResolutionError) {
	b.logger.Warn("skipping artifact", "error", err)
	acc.skipped = append(acc.skipped, err)
}

// Args returns the paths as plain strings, ready for a tool's argv.
func (s *ScanSet) Args() []string {
	args := make([]string, len(s.Paths))
	for i, p := range s.Paths {
		args[i] = string(p)
	}
	return args
}

// accumulator keeps first-occurrence order with O(1) membership.
type accumulator struct {
	seen    map[types.FilesystemPath]struct{}
	paths   []types.FilesystemPath
	skipped []*ResolutionError
}

func newAccumulator() *accumulator {
	return &accumulator{seen: make(map[types.FilesystemPath]struct{})}
}

func (a *accumulator) has(p types.FilesystemPath) bool {
	_, ok := a.seen[p]
	return ok
}

func (a *accumulator) push(p types.FilesystemPath) {
	a.seen[p] = struct{}{}
	a.paths = append(a.paths, p)
}
