// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	"github.com/adoptopenjdk/splitpkgscan/pkg/platform"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed.
const waitDelay = 2 * time.Second

type (
	// ExecTool runs a host executable. Inside a Flatpak or Snap sandbox the
	// command is routed through the sandbox's spawn helper.
	ExecTool struct {
		name     string
		command  string
		sandbox  platform.SandboxType
		settings settings
	}

	// ExecOption configures an ExecTool beyond the shared Options.
	ExecOption func(*ExecTool)
)

// WithSandbox overrides sandbox detection.
func WithSandbox(st platform.SandboxType) ExecOption {
	return func(t *ExecTool) { t.sandbox = st }
}

// NewExecTool returns a tool named name that runs command. The command is
// looked up in PATH at run time, not here.
func NewExecTool(name, command string, opts ...Option) *ExecTool {
	if command == "" {
		command = name
	}
	return &ExecTool{
		name:     name,
		command:  command,
		sandbox:  platform.DetectSandbox(),
		settings: newSettings(opts),
	}
}

// With applies exec-specific options and returns t.
func (t *ExecTool) With(opts ...ExecOption) *ExecTool {
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Name implements Tool.
func (t *ExecTool) Name() string { return t.name }

// Command returns the configured executable.
func (t *ExecTool) Command() string { return t.command }

// Run implements Tool.
func (t *ExecTool) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (types.ExitCode, error) {
	command, argv := platform.HostCommand(t.sandbox, t.command, t.settings.argv(args))

	path, err := exec.LookPath(command)
	if err != nil {
		return types.ExitNotFound, &ToolInvocationError{
			Tool:     t.name,
			ExitCode: types.ExitNotFound,
			Cause:    fmt.Errorf("%w: %w", ErrToolUnavailable, err),
		}
	}

	env, err := t.settings.environ()
	if err != nil {
		return types.ExitFailure, &ToolInvocationError{Tool: t.name, ExitCode: types.ExitFailure, Cause: err}
	}

	tail := newTailBuffer(stderrTailSize)
	if stderr == nil {
		stderr = io.Discard
	}

	cmd := exec.CommandContext(ctx, path, argv...)
	cmd.Env = env
	cmd.WaitDelay = waitDelay
	if !t.settings.dir.IsZero() {
		cmd.Dir = string(t.settings.dir)
	}
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = io.MultiWriter(stderr, tail)

	code := types.ExitSuccess
	if err = cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = types.ExitCode(exitErr.ExitCode())
			if code < 0 {
				// Killed by a signal, usually because ctx was cancelled.
				code = types.ExitFailure
			} else {
				err = nil
			}
		}
	}
	return invocationResult(ctx, t.name, code, err, tail)
}
