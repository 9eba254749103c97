// SPDX-License-Identifier: MPL-2.0

package artifact

import (
	"errors"
	"fmt"
)

var (
	// ErrResolution is the sentinel error wrapped by ResolutionError.
	ErrResolution = errors.New("artifact resolution failed")
	// ErrNoFile is the cause recorded when an artifact has no resolved file or
	// its file does not exist on disk.
	ErrNoFile = errors.New("artifact has no resolved file")
	// ErrNoRepository is the cause recorded when a dependency is declared but
	// no repository was configured to resolve it.
	ErrNoRepository = errors.New("no repository configured")
)

// ResolutionError reports an artifact or dependency that could not be turned
// into a file to scan. It is never fatal: the builder records it and moves on.
type ResolutionError struct {
	// Subject names what failed to resolve (artifact ID, path or coordinates).
	Subject string
	// Cause is the underlying reason (ErrNoFile, a repository error, ...).
	Cause error
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("cannot resolve %s", e.Subject)
	}
	return fmt.Sprintf("cannot resolve %s: %v", e.Subject, e.Cause)
}

// Unwrap exposes both ErrResolution and the cause to errors.Is/As.
func (e *ResolutionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrResolution}
	}
	return []error{ErrResolution, e.Cause}
}
