package fstest

import (
	"bytes"
	"io"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// TestReadFS tests Open, ReadAt, Stat, ReadFile and Exists.
func TestReadFS(t *testing.T, filesystem fs.Filesystem, base string) {
	testContent := []byte("abcdef")
	file := join(base, "testdir", "testfile.txt")

	if err := filesystem.MkdirAll(join(base, "testdir"), 0o755); err != nil {
		t.Fatalf("MkdirAll(testdir): setup failed: %v", err)
	}
	if err := filesystem.WriteFile(file, testContent, 0o644); err != nil {
		t.Fatalf("WriteFile(%q): setup failed: %v", file, err)
	}

	t.Run("Open", func(t *testing.T) {
		f, err := filesystem.Open(file)
		if err != nil {
			t.Fatalf("Open(%q): got error %v, want nil", file, err)
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			t.Fatalf("ReadAll(): got error %v, want nil", err)
		}
		if !bytes.Equal(data, testContent) {
			t.Errorf("ReadAll(): got %q, want %q", data, testContent)
		}
	})

	t.Run("ReadAt", func(t *testing.T) {
		f, err := filesystem.Open(file)
		if err != nil {
			t.Fatalf("Open(%q): got error %v, want nil", file, err)
		}
		defer f.Close()

		buf := make([]byte, 3)
		n, err := f.ReadAt(buf, 2)
		if err != nil {
			t.Fatalf("ReadAt(): got error %v, want nil", err)
		}
		if n != 3 || string(buf) != "cde" {
			t.Errorf("ReadAt(): got %d bytes %q, want 3 bytes %q", n, buf, "cde")
		}

		info, err := f.Stat()
		if err != nil {
			t.Fatalf("File.Stat(): got error %v, want nil", err)
		}
		if info.Size() != int64(len(testContent)) {
			t.Errorf("File.Stat().Size(): got %d, want %d", info.Size(), len(testContent))
		}
	})

	t.Run("StatDir", func(t *testing.T) {
		info, err := filesystem.Stat(join(base, "testdir"))
		if err != nil {
			t.Fatalf("Stat(testdir): got error %v, want nil", err)
		}
		if !info.IsDir() {
			t.Errorf("Stat(testdir).IsDir(): got false, want true")
		}
	})

	t.Run("ReadFile", func(t *testing.T) {
		data, err := filesystem.ReadFile(file)
		if err != nil {
			t.Fatalf("ReadFile(%q): got error %v, want nil", file, err)
		}
		if !bytes.Equal(data, testContent) {
			t.Errorf("ReadFile(%q): got %q, want %q", file, data, testContent)
		}
	})

	t.Run("OpenNotExist", func(t *testing.T) {
		if _, err := filesystem.Open(join(base, "missing.txt")); err == nil {
			t.Errorf("Open(missing.txt): got nil error, want error")
		}
	})

	t.Run("Exists", func(t *testing.T) {
		for path, want := range map[string]bool{
			file:                          true,
			join(base, "testdir"):         true,
			join(base, "missing.txt"):     false,
			join(base, "missing", "a.go"): false,
		} {
			got, err := filesystem.Exists(path)
			if err != nil {
				t.Errorf("Exists(%q): got error %v, want nil", path, err)
				continue
			}
			if got != want {
				t.Errorf("Exists(%q): got %v, want %v", path, got, want)
			}
		}
	})
}
