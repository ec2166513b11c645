package fstest

import (
	"strings"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// TestManageFS tests RemoveAll and TempDir.
func TestManageFS(t *testing.T, filesystem fs.Filesystem, base string) {
	t.Run("RemoveAllTree", func(t *testing.T) {
		dir := join(base, "tree")
		if err := filesystem.WriteFile(join(dir, "sub", "file.txt"), []byte("x"), 0o644); err != nil {
			t.Fatalf("WriteFile(): setup failed: %v", err)
		}
		if err := filesystem.RemoveAll(dir); err != nil {
			t.Fatalf("RemoveAll(%q): got error %v, want nil", dir, err)
		}
		if ok, err := filesystem.Exists(dir); err != nil || ok {
			t.Errorf("Exists(%q) after RemoveAll: got (%v, %v), want (false, nil)", dir, ok, err)
		}
	})

	t.Run("RemoveAllMissing", func(t *testing.T) {
		if err := filesystem.RemoveAll(join(base, "never-created")); err != nil {
			t.Errorf("RemoveAll(never-created): got error %v, want nil", err)
		}
	})

	t.Run("TempDir", func(t *testing.T) {
		dir, err := filesystem.TempDir(base, "butler-")
		if err != nil {
			t.Fatalf("TempDir(): got error %v, want nil", err)
		}
		if !strings.HasPrefix(dir, join(base, "butler-")) {
			t.Errorf("TempDir(): got %q, want prefix %q", dir, join(base, "butler-"))
		}

		other, err := filesystem.TempDir(base, "butler-")
		if err != nil {
			t.Fatalf("TempDir(): got error %v, want nil", err)
		}
		if other == dir {
			t.Errorf("TempDir(): returned %q twice", dir)
		}

		info, err := filesystem.Stat(dir)
		if err != nil {
			t.Fatalf("Stat(%q): got error %v, want nil", dir, err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(%q).IsDir(): got false, want true", dir)
		}
	})
}
