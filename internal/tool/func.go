// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"context"
	"io"

	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

type (
	// RunFunc has the shape of Tool.Run.
	RunFunc func(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (types.ExitCode, error)

	// Func adapts a RunFunc to Tool.
	Func struct {
		name string
		fn   RunFunc
	}
)

// NewFunc returns a Tool named name backed by fn. A non-zero status or an
// error from fn is reported as a *ToolInvocationError.
func NewFunc(name string, fn RunFunc) *Func {
	return &Func{name: name, fn: fn}
}

// Name implements Tool.
func (f *Func) Name() string { return f.name }

// Run implements Tool.
func (f *Func) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (types.ExitCode, error) {
	if stdout == nil {
		stdout = io.Discard
	}
	tail := newTailBuffer(stderrTailSize)
	if stderr == nil {
		stderr = io.Discard
	}
	code, err := f.fn(ctx, stdin, stdout, io.MultiWriter(stderr, tail), args)
	return invocationResult(ctx, f.name, code, err, tail)
}
