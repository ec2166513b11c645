package billy

import (
	"errors"
	"fmt"
	"io"
	"io/fs"

	"github.com/go-git/go-billy/v5"
)

// File wraps a go-billy File and satisfies the parent fs.File interface.
type File struct {
	file billy.File
	fs   *FS
}

// Close implements File.Close.
func (f *File) Close() error {
	if err := f.file.Close(); err != nil {
		return fmt.Errorf("billy: close %q: %w", f.file.Name(), err)
	}
	return nil
}

// Name implements File.Name.
func (f *File) Name() string {
	return f.file.Name()
}

// Read implements File.Read. io.EOF is returned unwrapped.
func (f *File) Read(p []byte) (int, error) {
	n, err := f.file.Read(p)
	return n, f.wrapRead("read", err)
}

// ReadAt implements File.ReadAt. io.EOF is returned unwrapped.
func (f *File) ReadAt(p []byte, off int64) (int, error) {
	n, err := f.file.ReadAt(p, off)
	return n, f.wrapRead(fmt.Sprintf("readat off=%d", off), err)
}

// Stat implements File.Stat.
func (f *File) Stat() (fs.FileInfo, error) {
	return f.fs.Stat(f.file.Name())
}

// Write implements File.Write.
func (f *File) Write(p []byte) (int, error) {
	n, err := f.file.Write(p)
	if err != nil {
		return n, fmt.Errorf("billy: write %q: %w", f.file.Name(), err)
	}
	return n, nil
}

func (f *File) wrapRead(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return io.EOF
	default:
		return fmt.Errorf("billy: %s %q: %w", op, f.file.Name(), err)
	}
}
