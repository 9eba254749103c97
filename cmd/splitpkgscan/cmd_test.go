// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/adoptopenjdk/splitpkgscan/internal/testutil"
)

// scannerScript reports com.acme.app for the acme-app jar and com.acme.util
// for every other jar.
const scannerScript = `
tool: {
	kind: "script"
	script: """
		echo "jsplitpgkscan 1.0"
		for jar in "$@"; do
		  name=${jar##*/}
		  name=${name%.jar}
		  case "$name" in
		    acme-app) echo "package com.acme.app $name@1.0 $jar" ;;
		    *) echo "package com.acme.util $name@1.0 $jar" ;;
		  esac
		done
		"""
}
`

const acmeDescriptor = `
name: "acme"
artifact: path: "target/acme-app.jar"
artifacts: [
	{path: "lib/acme-util.jar", scope: "compile"},
	{path: "lib/acme-test.jar", scope: "test"},
]
dependencies: [
	{coordinates: "org.acme:acme-io:1.0"},
	{coordinates: "org.acme:acme-missing:1.0"},
]
`

type fixture struct {
	projectDir string
	repoDir    string
	configFile string
}

// newFixture lays out a project with its built jars, a local repository
// holding acme-io and a config file whose tool section is toolCUE.
func newFixture(t *testing.T, toolCUE string) fixture {
	t.Helper()
	root := t.TempDir()
	f := fixture{
		projectDir: filepath.Join(root, "project"),
		repoDir:    filepath.Join(root, "repository"),
		configFile: filepath.Join(root, "config.cue"),
	}
	testutil.MustWriteFile(t, filepath.Join(f.projectDir, "splitpkgscan.cue"), acmeDescriptor)
	for _, jar := range []string{"target/acme-app.jar", "lib/acme-util.jar", "lib/acme-test.jar"} {
		testutil.MustWriteFile(t, filepath.Join(f.projectDir, filepath.FromSlash(jar)), "PK")
	}
	testutil.InstallJar(t, f.repoDir, "org.acme", "acme-io", "1.0")
	testutil.MustWriteFile(t, f.configFile, toolCUE)
	return f
}

// runCLI executes the command tree with captured output.
func runCLI(t *testing.T, deps Dependencies, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	deps.Stdout, deps.Stderr = &out, &errOut

	root := newRootCommand(NewApp(deps))
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err = root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}
