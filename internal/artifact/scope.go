// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// ScopeCompile is the default dependency scope.
	ScopeCompile Scope = "compile"
	// ScopeRuntime marks dependencies needed only at runtime.
	ScopeRuntime Scope = "runtime"
	// ScopeProvided marks dependencies supplied by the deployment environment.
	ScopeProvided Scope = "provided"
	// ScopeTest marks test-only dependencies.
	ScopeTest Scope = "test"
	// ScopeSystem marks dependencies referenced by an explicit system path.
	ScopeSystem Scope = "system"
)

// ErrInvalidScope is the sentinel error wrapped by InvalidScopeError.
var ErrInvalidScope = errors.New("invalid scope")

type (
	// Scope is the build classification of an artifact ("compile", "runtime", ...).
	// The zero value means "no scope", which only the primary artifact may have.
	Scope string

	// InvalidScopeError is returned when a Scope label is whitespace-only or
	// contains whitespace.
	InvalidScopeError struct {
		Value Scope
	}

	// ScopeSet is the set of scope labels accepted into a scan.
	ScopeSet map[Scope]struct{}
)

// String returns the scope label.
func (s Scope) String() string { return string(s) }

// Validate rejects blank labels and labels containing whitespace.
func (s Scope) Validate() error {
	if strings.TrimSpace(string(s)) == "" || strings.ContainsAny(string(s), " \t\r\n") {
		return &InvalidScopeError{Value: s}
	}
	return nil
}

// Error implements the error interface.
func (e *InvalidScopeError) Error() string {
	return fmt.Sprintf("invalid scope %q: must be a non-empty label without whitespace", e.Value)
}

// Unwrap returns ErrInvalidScope for errors.Is() compatibility.
func (e *InvalidScopeError) Unwrap() error { return ErrInvalidScope }

// DefaultScopes returns the scope filter used when none is configured:
// {compile, runtime}.
func DefaultScopes() ScopeSet {
	return NewScopeSet(ScopeCompile, ScopeRuntime)
}

// NewScopeSet builds a set from the given labels. Duplicates collapse.
func NewScopeSet(scopes ...Scope) ScopeSet {
	set := make(ScopeSet, len(scopes))
	for _, s := range scopes {
		set[s] = struct{}{}
	}
	return set
}

// ParseScopeSet converts configured labels into a ScopeSet. An empty input
// yields DefaultScopes.
func ParseScopeSet(labels []string) (ScopeSet, error) {
	if len(labels) == 0 {
		return DefaultScopes(), nil
	}
	set := make(ScopeSet, len(labels))
	var errs []error
	for _, l := range labels {
		s := Scope(strings.TrimSpace(l))
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		set[s] = struct{}{}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return set, nil
}

// Contains reports whether s is accepted. The empty scope is never accepted.
func (set ScopeSet) Contains(s Scope) bool {
	if s == "" {
		return false
	}
	_, ok := set[s]
	return ok
}

// Sorted returns the labels in lexical order.
func (set ScopeSet) Sorted() []Scope {
	out := make([]Scope, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// String renders the set as "[compile runtime]".
func (set ScopeSet) String() string {
	return fmt.Sprint(set.Sorted())
}
