package fstest

import (
	"io"
	"os"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// TestWriteFS tests Create, WriteFile, OpenFile and MkdirAll.
func TestWriteFS(t *testing.T, filesystem fs.Filesystem, base string) {
	t.Run("CreateAndWrite", func(t *testing.T) {
		path := join(base, "created.txt")
		f, err := filesystem.Create(path)
		if err != nil {
			t.Fatalf("Create(%q): got error %v, want nil", path, err)
		}
		if _, err := io.WriteString(f, "hello"); err != nil {
			_ = f.Close()
			t.Fatalf("Write(): got error %v, want nil", err)
		}
		if err := f.Close(); err != nil {
			t.Fatalf("Close(): got error %v, want nil", err)
		}
		expectContent(t, filesystem, path, "hello")
	})

	t.Run("WriteFileCreatesParents", func(t *testing.T) {
		path := join(base, "x", "y", "z.txt")
		if err := filesystem.WriteFile(path, []byte("z"), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): got error %v, want nil", path, err)
		}
		expectContent(t, filesystem, path, "z")
	})

	t.Run("OpenFileTruncateAndAppend", func(t *testing.T) {
		path := join(base, "openfile.txt")
		writeWith(t, filesystem, path, os.O_CREATE|os.O_WRONLY, "initial data")
		writeWith(t, filesystem, path, os.O_WRONLY|os.O_TRUNC, "abc")
		expectContent(t, filesystem, path, "abc")

		writeWith(t, filesystem, path, os.O_WRONLY|os.O_APPEND, "def")
		expectContent(t, filesystem, path, "abcdef")
	})

	t.Run("MkdirAll", func(t *testing.T) {
		path := join(base, "a", "b", "c")
		if err := filesystem.MkdirAll(path, 0o755); err != nil {
			t.Fatalf("MkdirAll(%q): got error %v, want nil", path, err)
		}
		if err := filesystem.MkdirAll(path, 0o755); err != nil {
			t.Errorf("MkdirAll(%q) on existing directory: got error %v, want nil", path, err)
		}

		info, err := filesystem.Stat(join(base, "a", "b"))
		if err != nil {
			t.Fatalf("Stat(a/b): got error %v, want nil", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(a/b).IsDir(): got false, want true")
		}
	})
}

func writeWith(t *testing.T, filesystem fs.Filesystem, path string, flag int, content string) {
	t.Helper()

	f, err := filesystem.OpenFile(path, flag, 0o644)
	if err != nil {
		t.Fatalf("OpenFile(%q, %d): got error %v, want nil", path, flag, err)
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		t.Fatalf("Write(): got error %v, want nil", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Close(): got error %v, want nil", err)
	}
}

func expectContent(t *testing.T, filesystem fs.Filesystem, path, want string) {
	t.Helper()

	data, err := filesystem.ReadFile(path)
	if err != nil {
		t.Errorf("ReadFile(%q): got error %v, want nil", path, err)
		return
	}
	if string(data) != want {
		t.Errorf("ReadFile(%q): got %q, want %q", path, data, want)
	}
}
