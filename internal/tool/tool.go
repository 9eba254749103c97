// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

// DefaultName is the scanner looked up when no tool name is configured.
const DefaultName = "jsplitpgkscan"

var (
	// ErrToolInvocation is the sentinel error wrapped by ToolInvocationError.
	ErrToolInvocation = errors.New("tool invocation failed")
	// ErrToolNotFound is returned when no tool is registered under a name.
	ErrToolNotFound = errors.New("tool not found")
	// ErrToolUnavailable is returned when a tool's executable cannot be located.
	ErrToolUnavailable = errors.New("tool unavailable")
	// ErrNonZeroExit is the cause recorded when a tool exits with a failure status.
	ErrNonZeroExit = errors.New("non-zero exit status")
)

type (
	// Tool scans the artifacts named by args and writes a report to stdout.
	//
	// Run returns the tool's exit status. A non-nil error is always a
	// *ToolInvocationError; it is returned for a non-zero status as well as
	// for a tool that could not be started.
	Tool interface {
		Name() string
		Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (types.ExitCode, error)
	}

	// ToolInvocationError reports a tool that could not run or exited
	// abnormally.
	ToolInvocationError struct {
		// Tool is the name of the failing tool.
		Tool string
		// ExitCode is the status the tool exited with, or ExitFailure when it
		// never started.
		ExitCode types.ExitCode
		// Stderr holds the tail of the tool's diagnostic output.
		Stderr string
		// Cause is the underlying error.
		Cause error
	}
)

// Error implements the error interface.
func (e *ToolInvocationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "tool %q", e.Tool)
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	if !e.ExitCode.IsSuccess() {
		fmt.Fprintf(&b, " (exit code %d)", int(e.ExitCode))
	}
	if s := strings.TrimSpace(e.Stderr); s != "" {
		fmt.Fprintf(&b, ": %s", s)
	}
	return b.String()
}

// Unwrap exposes ErrToolInvocation and the cause to errors.Is/As.
func (e *ToolInvocationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrToolInvocation}
	}
	return []error{ErrToolInvocation, e.Cause}
}

// invocationResult turns a raw run outcome into the Tool contract: success
// is (ExitSuccess, nil), anything else carries a *ToolInvocationError.
func invocationResult(ctx context.Context, name string, code types.ExitCode, err error, stderr *tailBuffer) (types.ExitCode, error) {
	var invErr *ToolInvocationError
	if errors.As(err, &invErr) {
		return invErr.ExitCode, err
	}
	if err == nil && code.IsSuccess() {
		return types.ExitSuccess, nil
	}

	switch {
	case ctx.Err() != nil:
		err = ctx.Err()
		if code.IsSuccess() {
			code = types.ExitFailure
		}
	case err == nil:
		err = ErrNonZeroExit
	case code.IsSuccess():
		code = types.ExitFailure
	}

	return code, &ToolInvocationError{
		Tool:     name,
		ExitCode: code,
		Stderr:   stderr.String(),
		Cause:    err,
	}
}
