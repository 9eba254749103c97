// SPDX-License-Identifier: MPL-2.0

package project

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/pkg/cueutil"
	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// BaseName is the descriptor file name without extension.
const BaseName = "splitpkgscan"

var (
	//go:embed project_schema.cue
	projectSchema string

	// Extensions lists the supported descriptor extensions in lookup order.
	Extensions = []string{".cue", ".toml", ".yaml", ".yml"}

	// ErrDescriptorNotFound is returned by Find when no descriptor exists.
	ErrDescriptorNotFound = errors.New("project descriptor not found")
	// ErrUnsupportedFormat is returned for an unknown descriptor extension.
	ErrUnsupportedFormat = errors.New("unsupported descriptor format")
	// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
	ErrInvalidDescriptor = errors.New("invalid project descriptor")
)

type (
	// ArtifactEntry is an artifact as written in a descriptor.
	ArtifactEntry struct {
		Path  string `json:"path,omitempty" toml:"path" yaml:"path"`
		Scope string `json:"scope,omitempty" toml:"scope" yaml:"scope"`
		ID    string `json:"id,omitempty" toml:"id" yaml:"id"`
	}

	// DependencyEntry is a dependency as written in a descriptor. Explicit
	// fields override the parts parsed from Coordinates.
	DependencyEntry struct {
		Coordinates string `json:"coordinates,omitempty" toml:"coordinates" yaml:"coordinates"`
		GroupID     string `json:"group_id,omitempty" toml:"group_id" yaml:"group_id"`
		ArtifactID  string `json:"artifact_id,omitempty" toml:"artifact_id" yaml:"artifact_id"`
		Version     string `json:"version,omitempty" toml:"version" yaml:"version"`
		Scope       string `json:"scope,omitempty" toml:"scope" yaml:"scope"`
		Type        string `json:"type,omitempty" toml:"type" yaml:"type"`
		Classifier  string `json:"classifier,omitempty" toml:"classifier" yaml:"classifier"`
	}

	// File is the decoded descriptor document.
	File struct {
		Name         string            `json:"name" toml:"name" yaml:"name"`
		Artifact     ArtifactEntry     `json:"artifact" toml:"artifact" yaml:"artifact"`
		Artifacts    []ArtifactEntry   `json:"artifacts,omitempty" toml:"artifacts" yaml:"artifacts"`
		Dependencies []DependencyEntry `json:"dependencies,omitempty" toml:"dependencies" yaml:"dependencies"`
	}

	// Descriptor is a loaded, validated project. Relative artifact paths are
	// already resolved against the descriptor's directory.
	Descriptor struct {
		name         string
		path         types.FilesystemPath
		primary      artifact.Artifact
		artifacts    []artifact.Artifact
		dependencies []artifact.Dependency
	}

	// InvalidDescriptorError collects every problem found in a descriptor.
	// It wraps ErrInvalidDescriptor for errors.Is() compatibility.
	InvalidDescriptorError struct {
		Path        types.FilesystemPath
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid project descriptor %s: %s", e.Path, strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidDescriptor and the field errors.
func (e *InvalidDescriptorError) Unwrap() []error {
	return append([]error{ErrInvalidDescriptor}, e.FieldErrors...)
}

// Find returns the first descriptor named BaseName plus one of Extensions
// in dir.
func Find(dir types.FilesystemPath) (types.FilesystemPath, error) {
	for _, ext := range Extensions {
		candidate := fspath.JoinStr(dir, BaseName+ext)
		if fspath.IsRegularFile(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w in %s (looked for %s.{cue,toml,yaml,yml})", ErrDescriptorNotFound, dir, BaseName)
}

// Load reads and validates the descriptor at path.
func Load(path types.FilesystemPath) (*Descriptor, error) {
	abs, err := fspath.Abs(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(string(abs))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrDescriptorNotFound, abs)
		}
		return nil, fmt.Errorf("read project descriptor: %w", err)
	}
	return Parse(data, abs)
}

// Parse decodes data according to the extension of path and resolves
// relative artifact paths against path's directory.
func Parse(data []byte, path types.FilesystemPath) (*Descriptor, error) {
	file, err := Decode(data, path)
	if err != nil {
		return nil, err
	}
	return newDescriptor(file, path)
}

// Decode decodes data according to the extension of path without
// validating it.
func Decode(data []byte, path types.FilesystemPath) (*File, error) {
	name := filepath.Base(string(path))
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".cue":
		res, err := cueutil.ParseAndDecodeString[File](projectSchema, data, "#Project", cueutil.WithFilename(name))
		if err != nil {
			return nil, &InvalidDescriptorError{Path: path, FieldErrors: []error{err}}
		}
		return res.Value, nil
	case ".toml":
		var f File
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, &InvalidDescriptorError{Path: path, FieldErrors: []error{fmt.Errorf("%s: %w", name, err)}}
		}
		return &f, nil
	case ".yaml", ".yml":
		var f File
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil {
			return nil, &InvalidDescriptorError{Path: path, FieldErrors: []error{fmt.Errorf("%s: %w", name, err)}}
		}
		return &f, nil
	default:
		return nil, fmt.Errorf("%w %q for %s", ErrUnsupportedFormat, ext, name)
	}
}

func newDescriptor(f *File, path types.FilesystemPath) (*Descriptor, error) {
	dir := fspath.Dir(path)
	d := &Descriptor{name: strings.TrimSpace(f.Name), path: path}

	var errs []error
	if d.name == "" {
		errs = append(errs, errors.New("name: must not be empty"))
	}

	primary, err := toArtifact(f.Artifact, dir, false)
	if err != nil {
		errs = append(errs, fmt.Errorf("artifact: %w", err))
	}
	if primary.ID == "" {
		primary.ID = d.name
	}
	d.primary = primary

	for i, entry := range f.Artifacts {
		a, err := toArtifact(entry, dir, true)
		if err != nil {
			errs = append(errs, fmt.Errorf("artifacts[%d]: %w", i, err))
			continue
		}
		d.artifacts = append(d.artifacts, a)
	}

	for i, entry := range f.Dependencies {
		dep, err := toDependency(entry)
		if err != nil {
			errs = append(errs, fmt.Errorf("dependencies[%d]: %w", i, err))
			continue
		}
		d.dependencies = append(d.dependencies, dep)
	}

	if len(errs) > 0 {
		return nil, &InvalidDescriptorError{Path: path, FieldErrors: errs}
	}
	return d, nil
}

func toArtifact(e ArtifactEntry, dir types.FilesystemPath, requireScope bool) (artifact.Artifact, error) {
	a := artifact.Artifact{
		ID:    strings.TrimSpace(e.ID),
		Path:  fspath.ResolveAgainst(dir, types.FilesystemPath(strings.TrimSpace(e.Path))),
		Scope: artifact.Scope(strings.TrimSpace(e.Scope)),
	}
	if a.Scope == "" {
		if requireScope {
			return a, fmt.Errorf("scope: %w", &artifact.InvalidScopeError{Value: a.Scope})
		}
		return a, nil
	}
	if err := a.Scope.Validate(); err != nil {
		return a, fmt.Errorf("scope: %w", err)
	}
	return a, nil
}

func toDependency(e DependencyEntry) (artifact.Dependency, error) {
	var dep artifact.Dependency
	if e.Coordinates != "" {
		parsed, err := artifact.ParseCoordinates(e.Coordinates)
		if err != nil {
			return dep, err
		}
		dep = parsed
	}

	override := func(dst *string, v string) {
		if v = strings.TrimSpace(v); v != "" {
			*dst = v
		}
	}
	override(&dep.GroupID, e.GroupID)
	override(&dep.ArtifactID, e.ArtifactID)
	override(&dep.Version, e.Version)
	override(&dep.Type, e.Type)
	override(&dep.Classifier, e.Classifier)
	if s := strings.TrimSpace(e.Scope); s != "" {
		dep.Scope = artifact.Scope(s)
		if err := dep.Scope.Validate(); err != nil {
			return dep, fmt.Errorf("scope: %w", err)
		}
	}

	if err := dep.Validate(); err != nil {
		return dep, err
	}
	return dep, nil
}

// Name returns the project name.
func (d *Descriptor) Name() string { return d.name }

// Path returns the descriptor file the project was loaded from.
func (d *Descriptor) Path() types.FilesystemPath { return d.path }

// PrimaryArtifact implements artifact.Project.
func (d *Descriptor) PrimaryArtifact() artifact.Artifact { return d.primary }

// Artifacts implements artifact.Project.
func (d *Descriptor) Artifacts() []artifact.Artifact { return d.artifacts }

// Dependencies implements artifact.Project.
func (d *Descriptor) Dependencies() []artifact.Dependency { return d.dependencies }
