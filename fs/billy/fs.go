// Package billy implements fs.Filesystem on top of go-billy.
package billy

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	parentfs "github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// FS implements the Filesystem interface using go-billy.
type FS struct {
	fs billy.Filesystem
}

var _ parentfs.Filesystem = (*FS)(nil)

// Create implements Filesystem.Create.
//
//nolint:ireturn // API returns the fs.File interface by design for flexibility.
func (b *FS) Create(name string) (parentfs.File, error) {
	f, err := b.fs.Create(name)
	if err != nil {
		return nil, fmt.Errorf("billy: create %q: %w", name, err)
	}
	return &File{
		file: f,
		fs:   b,
	}, nil
}

// Exists implements Filesystem.Exists.
func (b *FS) Exists(path string) (bool, error) {
	_, err := b.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case os.IsNotExist(err):
		return false, nil
	default:
		return false, fmt.Errorf("billy: stat %q: %w", path, err)
	}
}

// Glob implements Filesystem.Glob.
//
// The static prefix of pattern selects the directory that is walked; the
// rest is matched with doublestar, so "**" and "{a,b}" are supported.
// Wildcards do not match names starting with a dot unless the pattern spells
// out a segment that starts with one.
func (b *FS) Glob(pattern string) ([]string, error) {
	base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
	matches, err := doublestar.Glob(&dirFS{fs: b.fs, root: base}, rest)
	if err != nil {
		return nil, fmt.Errorf("billy: glob %q: %w", pattern, err)
	}

	dotted := hasDotSegment(rest)
	var out []string
	for _, m := range matches {
		if !dotted && hasDotSegment(m) {
			continue
		}
		out = append(out, filepath.FromSlash(path.Join(base, m)))
	}
	sort.Strings(out)
	return out, nil
}

func hasDotSegment(p string) bool {
	for _, seg := range strings.Split(p, "/") {
		if strings.HasPrefix(seg, ".") && seg != "." && seg != ".." {
			return true
		}
	}
	return false
}

// Lstat implements Filesystem.Lstat.
func (b *FS) Lstat(name string) (os.FileInfo, error) {
	info, err := b.fs.Lstat(name)
	if err != nil {
		return nil, fmt.Errorf("billy: lstat %q: %w", name, err)
	}
	return info, nil
}

// MkdirAll implements Filesystem.MkdirAll.
func (b *FS) MkdirAll(path string, perm os.FileMode) error {
	if err := b.fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("billy: mkdirall %q: %w", path, err)
	}
	return nil
}

// Open implements Filesystem.Open.
//
//nolint:ireturn // API returns the fs.File interface by design for flexibility.
func (b *FS) Open(name string) (parentfs.File, error) {
	f, err := b.fs.Open(name)
	if err != nil {
		return nil, fmt.Errorf("billy: open %q: %w", name, err)
	}
	return &File{
		file: f,
		fs:   b,
	}, nil
}

// OpenFile implements Filesystem.OpenFile.
//
//nolint:ireturn // API returns the fs.File interface by design for flexibility.
func (b *FS) OpenFile(name string, flag int, perm os.FileMode) (parentfs.File, error) {
	f, err := b.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, fmt.Errorf("billy: openfile %q: %w", name, err)
	}
	return &File{
		file: f,
		fs:   b,
	}, nil
}

// ReadFile implements Filesystem.ReadFile.
func (b *FS) ReadFile(path string) ([]byte, error) {
	bts, err := util.ReadFile(b.fs, path)
	if err != nil {
		return nil, fmt.Errorf("billy: readfile %q: %w", path, err)
	}
	return bts, nil
}

// Readlink implements Filesystem.Readlink.
func (b *FS) Readlink(link string) (string, error) {
	target, err := b.fs.Readlink(link)
	if err != nil {
		return "", fmt.Errorf("billy: readlink %q: %w", link, err)
	}
	return target, nil
}

// RemoveAll implements Filesystem.RemoveAll.
func (b *FS) RemoveAll(path string) error {
	if err := util.RemoveAll(b.fs, path); err != nil {
		return fmt.Errorf("billy: removeall %q: %w", path, err)
	}
	return nil
}

// Stat implements Filesystem.Stat.
func (b *FS) Stat(name string) (os.FileInfo, error) {
	info, err := b.fs.Stat(name)
	if err != nil {
		return nil, fmt.Errorf("billy: stat %q: %w", name, err)
	}
	return info, nil
}

// TempDir implements Filesystem.TempDir.
func (b *FS) TempDir(dir, prefix string) (name string, err error) {
	name, err = util.TempDir(b.fs, dir, prefix)
	if err != nil {
		return "", fmt.Errorf("billy: tempdir dir=%q prefix=%q: %w", dir, prefix, err)
	}
	return name, nil
}

// WriteFile implements Filesystem.WriteFile.
func (b *FS) WriteFile(filename string, data []byte, perm os.FileMode) error {
	if err := util.WriteFile(b.fs, filename, data, perm); err != nil {
		return fmt.Errorf("billy: writefile %q: %w", filename, err)
	}
	return nil
}

// NewFS creates a new FS using the given go-billy filesystem.
func NewFS(fsys billy.Filesystem) *FS {
	return &FS{
		fs: fsys,
	}
}

// NewInMemoryFS creates a new in-memory filesystem.
func NewInMemoryFS() *FS {
	return &FS{
		fs: memfs.New(),
	}
}

// NewOSFS creates a new OS filesystem rooted at path.
func NewOSFS(path string) *FS {
	return &FS{
		fs: osfs.New(path),
	}
}
