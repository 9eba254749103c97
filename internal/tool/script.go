// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// ScriptTool runs a POSIX shell script with the embedded mvdan/sh
// interpreter. Artifact paths are available to the script as "$@".
type ScriptTool struct {
	name     string
	prog     *syntax.File
	settings settings
}

// NewScriptTool parses script and returns a tool named name that runs it.
func NewScriptTool(name, script string, opts ...Option) (*ScriptTool, error) {
	if strings.TrimSpace(script) == "" {
		return nil, fmt.Errorf("tool %q: empty script", name)
	}
	prog, err := syntax.NewParser().Parse(strings.NewReader(script), name)
	if err != nil {
		return nil, fmt.Errorf("tool %q: failed to parse script: %w", name, err)
	}
	return &ScriptTool{name: name, prog: prog, settings: newSettings(opts)}, nil
}

// Name implements Tool.
func (t *ScriptTool) Name() string { return t.name }

// Run implements Tool.
func (t *ScriptTool) Run(ctx context.Context, stdin io.Reader, stdout, stderr io.Writer, args []string) (types.ExitCode, error) {
	env, err := t.settings.environ()
	if err != nil {
		return types.ExitFailure, &ToolInvocationError{Tool: t.name, ExitCode: types.ExitFailure, Cause: err}
	}

	tail := newTailBuffer(stderrTailSize)
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	// "--" keeps arguments such as "-v" from being read as shell options.
	opts := []interp.RunnerOption{
		interp.Env(expand.ListEnviron(env...)),
		interp.StdIO(stdin, stdout, io.MultiWriter(stderr, tail)),
		interp.Params(append([]string{"--"}, t.settings.argv(args)...)...),
	}
	if !t.settings.dir.IsZero() {
		opts = append(opts, interp.Dir(string(t.settings.dir)))
	}

	runner, err := interp.New(opts...)
	if err != nil {
		return types.ExitFailure, &ToolInvocationError{
			Tool:     t.name,
			ExitCode: types.ExitFailure,
			Cause:    fmt.Errorf("failed to create interpreter: %w", err),
		}
	}

	code := types.ExitSuccess
	if err = runner.Run(ctx, t.prog); err != nil {
		var exitStatus interp.ExitStatus
		if errors.As(err, &exitStatus) {
			code = types.ExitCode(exitStatus)
			err = nil
		}
	}
	return invocationResult(ctx, t.name, code, err, tail)
}
