// SPDX-License-Identifier: MPL-2.0

package report

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is the sentinel error wrapped by ParseError.
	ErrParse = errors.New("cannot parse scanner report")

	// ErrMissingPackage means a data line has no package name.
	ErrMissingPackage = errors.New("missing package name")
	// ErrMissingModule means a data line has no module field.
	ErrMissingModule = errors.New("missing module")
	// ErrInvalidPackageName means the package field is not a dotted Java identifier path.
	ErrInvalidPackageName = errors.New("invalid package name")
	// ErrEmptyVersion means the module field ends with '@'.
	ErrEmptyVersion = errors.New("empty module version")
	// ErrTooManyFields means a data line has trailing fields after the location.
	ErrTooManyFields = errors.New("too many fields")
)

// ParseError reports a data-shaped line that could not be decoded, or a read
// failure of the underlying stream.
type ParseError struct {
	// Line is the 1-based line number.
	Line int
	// Content is the offending line, empty for read failures.
	Content string
	// Cause is the decoding or I/O error.
	Cause error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Content == "" {
		return fmt.Sprintf("report line %d: %v", e.Line, e.Cause)
	}
	return fmt.Sprintf("report line %d: %v: %q", e.Line, e.Cause, e.Content)
}

// Unwrap exposes ErrParse and the cause to errors.Is/As.
func (e *ParseError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrParse}
	}
	return []error{ErrParse, e.Cause}
}
