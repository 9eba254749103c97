// SPDX-License-Identifier: MPL-2.0

package tool

import (
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/adoptopenjdk/splitpkgscan/pkg/fspath"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"

	"github.com/joho/godotenv"
)

type (
	// Option configures an ExecTool or a ScriptTool.
	Option func(*settings)

	settings struct {
		args     []string
		dir      types.FilesystemPath
		envFiles []string
		env      map[string]string
	}
)

// WithArgs sets fixed arguments placed before the artifact paths.
func WithArgs(args ...string) Option {
	return func(s *settings) { s.args = append(s.args, args...) }
}

// WithDir sets the working directory. Relative env files resolve against it.
func WithDir(dir types.FilesystemPath) Option {
	return func(s *settings) { s.dir = dir }
}

// WithEnvFile adds a dotenv file whose variables are exported to the tool.
// A trailing '?' marks the file optional: a missing optional file is ignored.
// Later files override earlier ones.
func WithEnvFile(path string) Option {
	return func(s *settings) {
		if path != "" {
			s.envFiles = append(s.envFiles, path)
		}
	}
}

// WithEnv sets one variable. Explicit variables override env files.
func WithEnv(key, value string) Option {
	return func(s *settings) {
		if s.env == nil {
			s.env = make(map[string]string)
		}
		s.env[key] = value
	}
}

func newSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// argv returns the fixed arguments followed by args.
func (s settings) argv(args []string) []string {
	return append(slices.Clone(s.args), args...)
}

// environ returns the process environment extended with the env files and
// explicit variables, in override order.
func (s settings) environ() ([]string, error) {
	extra := make(map[string]string)
	for _, file := range s.envFiles {
		vars, err := s.readEnvFile(file)
		if err != nil {
			return nil, err
		}
		maps.Copy(extra, vars)
	}
	maps.Copy(extra, s.env)

	env := os.Environ()
	for _, k := range slices.Sorted(maps.Keys(extra)) {
		env = append(env, k+"="+extra[k])
	}
	return env, nil
}

func (s settings) readEnvFile(file string) (map[string]string, error) {
	optional := strings.HasSuffix(file, "?")
	file = strings.TrimSuffix(file, "?")

	path := types.FilesystemPath(file)
	if !s.dir.IsZero() {
		path = fspath.ResolveAgainst(s.dir, path)
	}

	vars, err := godotenv.Read(string(path))
	if err != nil {
		if optional && errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file %q: %w", file, err)
	}
	return vars, nil
}
