// Package fs defines the filesystem abstraction used to resolve artifacts,
// stage downloads and install the butler binary.
package fs

import (
	"os"
)

// Filesystem is the set of operations the action performs on disk.
// Implementations must accept both relative and absolute paths the way the
// underlying filesystem resolves them.
type Filesystem interface {
	Create(name string) (File, error)
	Exists(path string) (bool, error)

	// Glob returns the sorted names of all files and directories matching
	// pattern. "**" matches any number of
	// directories and "{a,b}" alternatives are expanded. Wildcards skip
	// dot-prefixed names unless the pattern names them explicitly. A pattern
	// without meta characters matches itself when the path exists.
	Glob(pattern string) ([]string, error)

	Lstat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	Open(name string) (File, error)
	OpenFile(name string, flag int, perm os.FileMode) (File, error)
	ReadFile(path string) ([]byte, error)
	Readlink(link string) (string, error)
	RemoveAll(path string) error
	Stat(name string) (os.FileInfo, error)
	TempDir(dir, prefix string) (string, error)
	WriteFile(filename string, data []byte, perm os.FileMode) error
}
