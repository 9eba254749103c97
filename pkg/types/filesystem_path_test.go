// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestFilesystemPath_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		path    FilesystemPath
		wantErr bool
	}{
		{"absolute path", FilesystemPath("/repo/org/acme/util/1.0/util-1.0.jar"), false},
		{"relative path", FilesystemPath("target/app.jar"), false},
		{"windows style", FilesystemPath("C:\\repo\\util.jar"), false},
		{"path with spaces", FilesystemPath("/path/to/my lib.jar"), false},
		{"empty is invalid", FilesystemPath(""), true},
		{"whitespace only is invalid", FilesystemPath("   "), true},
		{"tab only is invalid", FilesystemPath("\t"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.path.Validate()
			if !tt.wantErr {
				if err != nil {
					t.Errorf("FilesystemPath(%q).Validate() returned unexpected error: %v", tt.path, err)
				}
				return
			}
			if err == nil {
				t.Fatalf("FilesystemPath(%q).Validate() returned nil, want error", tt.path)
			}
			if !errors.Is(err, ErrInvalidFilesystemPath) {
				t.Errorf("error should wrap ErrInvalidFilesystemPath, got: %v", err)
			}
			var fpErr *InvalidFilesystemPathError
			if !errors.As(err, &fpErr) {
				t.Errorf("error should be *InvalidFilesystemPathError, got: %T", err)
			}
		})
	}
}

func TestFilesystemPath_ValidateAbs(t *testing.T) {
	t.Parallel()

	abs, err := filepath.Abs("app.jar")
	if err != nil {
		t.Fatal(err)
	}
	if err := FilesystemPath(abs).ValidateAbs(); err != nil {
		t.Errorf("ValidateAbs(%q) = %v, want nil", abs, err)
	}
	if err := FilesystemPath("app.jar").ValidateAbs(); !errors.Is(err, ErrRelativeFilesystemPath) {
		t.Errorf("ValidateAbs(relative) = %v, want ErrRelativeFilesystemPath", err)
	}
	if err := FilesystemPath("").ValidateAbs(); !errors.Is(err, ErrInvalidFilesystemPath) {
		t.Errorf("ValidateAbs(empty) = %v, want ErrInvalidFilesystemPath", err)
	}
}

func TestFilesystemPath_IsZero(t *testing.T) {
	t.Parallel()

	if !FilesystemPath("").IsZero() {
		t.Error("empty path should be zero")
	}
	if FilesystemPath("a.jar").IsZero() {
		t.Error("non-empty path should not be zero")
	}
	if got := FilesystemPath("a.jar").String(); got != "a.jar" {
		t.Errorf("String() = %q, want %q", got, "a.jar")
	}
}
