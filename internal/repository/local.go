// SPDX-License-Identifier: MPL-2.0

// Package repository resolves declared dependencies to jar files in a local
// repository laid out the Maven way:
//
//	<root>/<group with dots as dirs>/<artifact>/<version>/<artifact>-<version>[-<classifier>].<type>
package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/charmbracelet/log"
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize bounds the number of lookups remembered by one Local.
const DefaultCacheSize = 512

var (
	// ErrArtifactNotFound is the sentinel error wrapped by NotFoundError.
	ErrArtifactNotFound = errors.New("artifact not found in repository")
	// ErrInvalidRoot is returned when the repository root is unusable.
	ErrInvalidRoot = errors.New("invalid repository root")
)

type (
	// Local is a read-only view of a local repository directory.
	// Lookups are memoized for the lifetime of the value only; create a new
	// Local for every scan.
	Local struct {
		root   types.FilesystemPath
		cache  *lru.Cache[string, lookup]
		logger *log.Logger
	}

	// Option configures a Local.
	Option func(*localOptions)

	localOptions struct {
		cacheSize int
		logger    *log.Logger
	}

	// NotFoundError reports the path probed for a missing dependency.
	NotFoundError struct {
		Coordinates string
		Path        types.FilesystemPath
	}

	lookup struct {
		artifact artifact.Artifact
		err      error
	}
)

// WithCacheSize overrides DefaultCacheSize.
func WithCacheSize(n int) Option {
	return func(o *localOptions) { o.cacheSize = n }
}

// WithLogger sets the logger used for lookup traces.
func WithLogger(logger *log.Logger) Option {
	return func(o *localOptions) { o.logger = logger }
}

// DefaultRoot returns ~/.m2/repository.
func DefaultRoot() (types.FilesystemPath, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return fspath.JoinStr(types.FilesystemPath(home), ".m2", "repository"), nil
}

// NewLocal opens the repository rooted at root. The directory must exist.
func NewLocal(root types.FilesystemPath, opts ...Option) (*Local, error) {
	o := localOptions{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = log.New(io.Discard)
	}

	if err := root.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	abs, err := fspath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	info, err := os.Stat(string(abs))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRoot, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, abs)
	}

	cache, err := lru.New[string, lookup](max(o.cacheSize, 1))
	if err != nil {
		return nil, fmt.Errorf("create lookup cache: %w", err)
	}

	return &Local{root: abs, cache: cache, logger: o.logger}, nil
}

// Root returns the absolute repository root.
func (r *Local) Root() types.FilesystemPath { return r.root }

// PathOf returns where dep is expected to live, whether or not it exists.
func (r *Local) PathOf(dep artifact.Dependency) types.FilesystemPath {
	file := dep.ArtifactID + "-" + dep.Version
	if dep.Classifier != "" {
		file += "-" + dep.Classifier
	}
	file += "." + extension(dep.EffectiveType())

	segments := strings.Split(dep.GroupID, ".")
	segments = append(segments, dep.ArtifactID, dep.Version, file)
	return fspath.JoinStr(r.root, segments...)
}

// Find implements artifact.Repository.
func (r *Local) Find(ctx context.Context, dep artifact.Dependency) (artifact.Artifact, error) {
	if err := ctx.Err(); err != nil {
		return artifact.Artifact{}, err
	}

	key := dep.String()
	if hit, ok := r.cache.Get(key); ok {
		return hit.artifact, hit.err
	}

	p := r.PathOf(dep)
	var res lookup
	if fspath.IsRegularFile(p) {
		res.artifact = artifact.Artifact{ID: key, Path: p, Scope: dep.EffectiveScope()}
		r.logger.Debug("resolved dependency", "dependency", key, "path", p)
	} else {
		res.err = &NotFoundError{Coordinates: key, Path: p}
	}
	r.cache.Add(key, res)
	return res.artifact, res.err
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found in repository (looked for %s)", e.Coordinates, e.Path)
}

// Unwrap returns ErrArtifactNotFound for errors.Is() compatibility.
func (e *NotFoundError) Unwrap() error { return ErrArtifactNotFound }

// extension maps packaging types whose file extension differs from the type name.
func extension(typ string) string {
	switch typ {
	case "test-jar", "ejb", "ejb-client", "java-source", "javadoc", "maven-plugin", "bundle":
		return "jar"
	default:
		return typ
	}
}
