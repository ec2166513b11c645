// Package fstest provides a conformance test suite for fs.Filesystem
// implementations.
//
// Every test works below a base directory supplied by the caller, so the
// suite can run against native filesystems (rooted in a temporary directory)
// as well as chrooted and in-memory ones.
//
// Example usage:
//
//	func TestMyFS(t *testing.T) {
//	    fstest.TestSuite(t, func(t *testing.T) (fs.Filesystem, string) {
//	        return myfs.New(), t.TempDir()
//	    })
//	}
package fstest

import (
	"path/filepath"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// NewFunc returns a fresh filesystem and the base directory tests may write
// below.
type NewFunc func(t *testing.T) (fs.Filesystem, string)

// TestSuite runs all conformance tests.
func TestSuite(t *testing.T, newFS NewFunc) {
	TestSuiteWithSkip(t, newFS, nil)
}

// TestSuiteWithSkip runs the conformance tests except those named in
// skipTests (e.g. "GlobFS").
func TestSuiteWithSkip(t *testing.T, newFS NewFunc, skipTests []string) {
	shouldSkip := func(name string) bool {
		for _, skip := range skipTests {
			if skip == name {
				return true
			}
		}
		return false
	}

	run := func(name string, test func(*testing.T, fs.Filesystem, string)) {
		t.Run(name, func(t *testing.T) {
			if shouldSkip(name) {
				t.Skip("Skipped by provider configuration")
				return
			}
			filesystem, base := newFS(t)
			test(t, filesystem, base)
		})
	}

	run("ReadFS", TestReadFS)
	run("WriteFS", TestWriteFS)
	run("ManageFS", TestManageFS)
	run("GlobFS", TestGlobFS)
}

func join(base string, elem ...string) string {
	return filepath.Join(append([]string{base}, elem...)...)
}
