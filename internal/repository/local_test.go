// SPDX-License-Identifier: MPL-2.0

package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/adoptopenjdk/splitpkgscan/internal/artifact"
	"github.com/adoptopenjdk/splitpkgscan/internal/testutil"
	"github.com/adoptopenjdk/splitpkgscan/pkg/types"
)

func TestLocal_PathOf(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	repo, err := NewLocal(types.FilesystemPath(root))
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	tests := []struct {
		name string
		dep  artifact.Dependency
		want string
	}{
		{
			name: "plain jar",
			dep:  artifact.Dependency{GroupID: "org.acme", ArtifactID: "util", Version: "1.0"},
			want: filepath.Join(root, "org", "acme", "util", "1.0", "util-1.0.jar"),
		},
		{
			name: "classifier",
			dep:  artifact.Dependency{GroupID: "org.acme", ArtifactID: "util", Version: "1.0", Classifier: "sources"},
			want: filepath.Join(root, "org", "acme", "util", "1.0", "util-1.0-sources.jar"),
		},
		{
			name: "test-jar type",
			dep:  artifact.Dependency{GroupID: "org.acme", ArtifactID: "util", Version: "1.0", Type: "test-jar", Classifier: "tests"},
			want: filepath.Join(root, "org", "acme", "util", "1.0", "util-1.0-tests.jar"),
		},
		{
			name: "default type is jar",
			dep:  artifact.Dependency{GroupID: "org.acme", ArtifactID: "parent", Version: "3"},
			want: filepath.Join(root, "org", "acme", "parent", "3", "parent-3.jar"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := repo.PathOf(tt.dep); string(got) != tt.want {
				t.Errorf("PathOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocal_Find(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := testutil.InstallJar(t, root, "org.acme", "util", "1.0")

	repo, err := NewLocal(types.FilesystemPath(root), WithCacheSize(8))
	if err != nil {
		t.Fatalf("NewLocal() error = %v", err)
	}

	dep := artifact.Dependency{GroupID: "org.acme", ArtifactID: "util", Version: "1.0", Scope: artifact.ScopeRuntime}
	got, err := repo.Find(context.Background(), dep)
	if err != nil {
		t.Fatalf("Find() error = %v", err)
	}
	if string(got.Path) != want || got.Scope != artifact.ScopeRuntime || got.ID != "org.acme:util:1.0" {
		t.Errorf("Find() = %+v", got)
	}

	missing := artifact.Dependency{GroupID: "org.acme", ArtifactID: "util", Version: "2.0"}
	_, err = repo.Find(context.Background(), missing)
	if !errors.Is(err, ErrArtifactNotFound) {
		t.Fatalf("Find(missing) error = %v, want ErrArtifactNotFound", err)
	}
	var nf *NotFoundError
	if !errors.As(err, &nf) || nf.Coordinates != "org.acme:util:2.0" {
		t.Errorf("Find(missing) error = %#v", err)
	}
}

func TestLocal_FindIsMemoized(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	p := testutil.InstallJar(t, root, "g", "a", "1")

	repo, err := NewLocal(types.FilesystemPath(root))
	if err != nil {
		t.Fatal(err)
	}
	dep := artifact.Dependency{GroupID: "g", ArtifactID: "a", Version: "1"}
	if _, err := repo.Find(context.Background(), dep); err != nil {
		t.Fatal(err)
	}

	// The file disappearing mid-run does not change the answer for this run.
	if err := os.Remove(p); err != nil {
		t.Fatal(err)
	}
	if _, err := repo.Find(context.Background(), dep); err != nil {
		t.Errorf("second Find() error = %v, want memoized success", err)
	}

	fresh, err := NewLocal(types.FilesystemPath(root))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fresh.Find(context.Background(), dep); !errors.Is(err, ErrArtifactNotFound) {
		t.Errorf("fresh Find() error = %v, want ErrArtifactNotFound", err)
	}
}

func TestNewLocal_InvalidRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "not-a-dir.jar")
	testutil.MustWriteFile(t, file, "PK")

	for _, root := range []string{"", filepath.Join(dir, "missing"), file} {
		if _, err := NewLocal(types.FilesystemPath(root)); !errors.Is(err, ErrInvalidRoot) {
			t.Errorf("NewLocal(%q) error = %v, want ErrInvalidRoot", root, err)
		}
	}
}

func TestLocal_FindCancelled(t *testing.T) {
	t.Parallel()

	repo, err := NewLocal(types.FilesystemPath(t.TempDir()))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := repo.Find(ctx, artifact.Dependency{GroupID: "g", ArtifactID: "a", Version: "1"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Find() error = %v, want context.Canceled", err)
	}
}

func TestDefaultRoot(t *testing.T) {
	home := t.TempDir()
	testutil.SetHomeDir(t, home)

	got, err := DefaultRoot()
	if err != nil {
		t.Fatalf("DefaultRoot() error = %v", err)
	}
	if want := filepath.Join(home, ".m2", "repository"); string(got) != want {
		t.Errorf("DefaultRoot() = %q, want %q", got, want)
	}
}
