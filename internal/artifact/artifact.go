// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

// DefaultType is the packaging type assumed when a dependency names none.
const DefaultType = "jar"

var (
	// ErrInvalidCoordinates is returned by ParseCoordinates.
	ErrInvalidCoordinates = errors.New("invalid dependency coordinates")
	// ErrInvalidDependency is returned when a Dependency lacks group, artifact or version.
	ErrInvalidDependency = errors.New("invalid dependency")
)

type (
	// Artifact is a scannable unit. Path is empty when the artifact has no
	// resolved file (not built yet). ID is an optional display coordinate.
	Artifact struct {
		ID    string
		Path  types.FilesystemPath
		Scope Scope
	}

	// Dependency is a declared dependency, resolvable to an Artifact through
	// a Repository.
	Dependency struct {
		GroupID    string
		ArtifactID string
		Version    string
		Scope      Scope
		Type       string
		Classifier string
	}

	// Project exposes the parts of the host build model the builder needs.
	Project interface {
		// PrimaryArtifact is the project's own packaged output.
		PrimaryArtifact() Artifact
		// Artifacts are the project's resolved artifacts, in build order.
		Artifacts() []Artifact
		// Dependencies are the project's declared dependencies.
		Dependencies() []Dependency
	}

	// Repository resolves a dependency descriptor to an artifact on disk.
	// Implementations must be read-only. A missing artifact is reported as an
	// error; the builder treats every lookup error as non-fatal.
	Repository interface {
		Find(ctx context.Context, dep Dependency) (Artifact, error)
	}
)

// String returns a display name: the ID when set, otherwise the path.
func (a Artifact) String() string {
	if a.ID != "" {
		return a.ID
	}
	return a.Path.String()
}

// HasFile reports whether the artifact has a resolved file path.
func (a Artifact) HasFile() bool {
	return strings.TrimSpace(string(a.Path)) != ""
}

// EffectiveType returns Type, or DefaultType when unset.
func (d Dependency) EffectiveType() string {
	if d.Type == "" {
		return DefaultType
	}
	return d.Type
}

// EffectiveScope returns Scope, or ScopeCompile when unset.
func (d Dependency) EffectiveScope() Scope {
	if d.Scope == "" {
		return ScopeCompile
	}
	return d.Scope
}

// Validate checks that group, artifact and version are present.
func (d Dependency) Validate() error {
	var missing []string
	if strings.TrimSpace(d.GroupID) == "" {
		missing = append(missing, "group id")
	}
	if strings.TrimSpace(d.ArtifactID) == "" {
		missing = append(missing, "artifact id")
	}
	if strings.TrimSpace(d.Version) == "" {
		missing = append(missing, "version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w %q: missing %s", ErrInvalidDependency, d.String(), strings.Join(missing, ", "))
	}
	return nil
}

// String renders the coordinates as group:artifact:version[:type[:classifier]].
// The type is printed only when it differs from the default or a classifier
// follows it.
func (d Dependency) String() string {
	s := d.GroupID + ":" + d.ArtifactID + ":" + d.Version
	switch {
	case d.Classifier != "":
		s += ":" + d.EffectiveType() + ":" + d.Classifier
	case d.Type != "" && d.Type != DefaultType:
		s += ":" + d.Type
	}
	return s
}

// ParseCoordinates parses group:artifact:version[:type[:classifier]].
func ParseCoordinates(s string) (Dependency, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 3 || len(parts) > 5 {
		return Dependency{}, fmt.Errorf("%w %q: want group:artifact:version[:type[:classifier]]", ErrInvalidCoordinates, s)
	}
	for i, p := range parts {
		if strings.TrimSpace(p) == "" {
			return Dependency{}, fmt.Errorf("%w %q: empty segment %d", ErrInvalidCoordinates, s, i+1)
		}
	}

	dep := Dependency{GroupID: parts[0], ArtifactID: parts[1], Version: parts[2]}
	if len(parts) > 3 {
		dep.Type = parts[3]
	}
	if len(parts) > 4 {
		dep.Classifier = parts[4]
	}
	return dep, nil
}
