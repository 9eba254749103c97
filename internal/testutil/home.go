// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the platform's home directory variable at dir for the
// duration of the test (USERPROFILE on Windows, HOME elsewhere).
//
// It uses t.Setenv, so it cannot be called from parallel tests.
//
//	func TestDefaultRoot(t *testing.T) {
//	    home := t.TempDir()
//	    testutil.SetHomeDir(t, home)
//	    ...
//	}
func SetHomeDir(t *testing.T, dir string) {
	t.Helper()

	switch runtime.GOOS {
	case "windows":
		t.Setenv("USERPROFILE", dir)
	default:
		t.Setenv("HOME", dir)
	}
}
