// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// MustWriteFile writes content to path, creating parent directories as needed.
func MustWriteFile(t testing.TB, path, content string) {
	t.Helper()
	MustMkdirAll(t, filepath.Dir(path))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// MustMkdirAll creates dir and any missing parents.
func MustMkdirAll(t testing.TB, dir string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}
}

// InstallJar places a placeholder jar for groupID:artifactID:version under
// the Maven repository rooted at root and returns its path.
func InstallJar(t testing.TB, root, groupID, artifactID, version string) string {
	t.Helper()
	parts := append([]string{root}, strings.Split(groupID, ".")...)
	parts = append(parts, artifactID, version, artifactID+"-"+version+".jar")
	p := filepath.Join(parts...)
	MustWriteFile(t, p, "PK")
	return p
}
