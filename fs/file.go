package fs

import (
	"io"
	"io/fs"
)

// File represents an open file handle.
// ReadAt together with Stat lets callers treat a file as a sized io.ReaderAt,
// which is what archive readers need.
type File interface {
	io.ReadWriteCloser
	io.ReaderAt
	Name() string
	Stat() (fs.FileInfo, error)
}
