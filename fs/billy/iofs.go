package billy

import (
	"io/fs"
	"path"
	"sort"

	"github.com/go-git/go-billy/v5"
)

// dirFS exposes the subtree of a billy filesystem below root as an io/fs.FS.
// Names are slash separated and relative to root.
type dirFS struct {
	fs   billy.Filesystem
	root string
}

var (
	_ fs.StatFS    = (*dirFS)(nil)
	_ fs.ReadDirFS = (*dirFS)(nil)
)

func (d *dirFS) path(op, name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", &fs.PathError{Op: op, Path: name, Err: fs.ErrInvalid}
	}
	return path.Join(d.root, name), nil
}

// Open implements fs.FS.
func (d *dirFS) Open(name string) (fs.File, error) {
	full, err := d.path("open", name)
	if err != nil {
		return nil, err
	}
	info, err := d.fs.Stat(full)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dirHandle{fs: d, name: name, info: info}, nil
	}
	f, err := d.fs.Open(full)
	if err != nil {
		return nil, err
	}
	return &fileHandle{File: f, info: info}, nil
}

// Stat implements fs.StatFS.
func (d *dirFS) Stat(name string) (fs.FileInfo, error) {
	full, err := d.path("stat", name)
	if err != nil {
		return nil, err
	}
	return d.fs.Stat(full)
}

// ReadDir implements fs.ReadDirFS. Entries are sorted by name.
func (d *dirFS) ReadDir(name string) ([]fs.DirEntry, error) {
	full, err := d.path("readdir", name)
	if err != nil {
		return nil, err
	}
	infos, err := d.fs.ReadDir(full)
	if err != nil {
		return nil, err
	}
	entries := make([]fs.DirEntry, 0, len(infos))
	for _, info := range infos {
		entries = append(entries, fs.FileInfoToDirEntry(info))
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	return entries, nil
}

type fileHandle struct {
	billy.File
	info fs.FileInfo
}

func (f *fileHandle) Stat() (fs.FileInfo, error) {
	return f.info, nil
}

type dirHandle struct {
	fs   *dirFS
	name string
	info fs.FileInfo
	read bool
}

func (h *dirHandle) Stat() (fs.FileInfo, error) {
	return h.info, nil
}

func (h *dirHandle) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: h.name, Err: fs.ErrInvalid}
}

func (h *dirHandle) Close() error {
	return nil
}

// ReadDir implements fs.ReadDirFile. The whole listing is returned on the
// first call.
func (h *dirHandle) ReadDir(int) ([]fs.DirEntry, error) {
	if h.read {
		return nil, nil
	}
	h.read = true
	return h.fs.ReadDir(h.name)
}
