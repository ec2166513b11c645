// Package archive extracts the butler distribution archive.
package archive

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
	"github.com/gabriel-vasile/mimetype"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

const zipMIME = "application/zip"

const (
	defaultDirPerm  os.FileMode = 0o755
	defaultFilePerm os.FileMode = 0o644
)

// IsZip reports whether r starts with a zip signature. Zip-based formats
// (jar, docx, apk, ...) are accepted.
func IsZip(r io.Reader) (bool, error) {
	mt, err := mimetype.DetectReader(r)
	if err != nil {
		return false, err
	}
	for ; mt != nil; mt = mt.Parent() {
		if mt.Is(zipMIME) {
			return true, nil
		}
	}
	return false, nil
}

// ExtractZip extracts the zip archive at src into dest on fsys. Every entry
// is resolved inside dest; entries cannot escape it through ".." components
// or existing symlinks. Symlink entries are rejected.
func ExtractZip(fsys fs.Filesystem, src, dest string) error {
	f, err := fsys.Open(src)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to open archive",
			map[string]interface{}{"path": src})
	}
	defer f.Close()

	ok, err := IsZip(io.NewSectionReader(f, 0, 1<<20))
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to read archive",
			map[string]interface{}{"path": src})
	}
	if !ok {
		return errors.NewWithContext(errors.CodeInvalidInput, "archive is not a zip file",
			map[string]interface{}{"path": src})
	}

	info, err := f.Stat()
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to stat archive",
			map[string]interface{}{"path": src})
	}

	zr, err := zip.NewReader(f, info.Size())
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "failed to read zip",
			map[string]interface{}{"path": src})
	}

	if err := fsys.MkdirAll(dest, defaultDirPerm); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create destination",
			map[string]interface{}{"path": dest})
	}

	for _, entry := range zr.File {
		if err := extractEntry(fsys, entry, dest); err != nil {
			return err
		}
	}
	return nil
}

func extractEntry(fsys fs.Filesystem, entry *zip.File, dest string) error {
	name := strings.ReplaceAll(entry.Name, "\\", "/")
	ctx := map[string]interface{}{"entry": entry.Name}

	mode := entry.Mode()
	if mode&os.ModeSymlink != 0 {
		return errors.NewWithContext(errors.CodeInvalidInput, "symlink entries are not supported", ctx)
	}

	target, err := securejoin.SecureJoinVFS(dest, path.Clean("/"+name), fsys)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to resolve entry path", ctx)
	}

	if mode.IsDir() || strings.HasSuffix(name, "/") {
		if err := fsys.MkdirAll(target, dirPerm(mode)); err != nil {
			return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create directory", ctx)
		}
		return nil
	}

	if err := fsys.MkdirAll(filepath.Dir(target), defaultDirPerm); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create directory", ctx)
	}

	rc, err := entry.Open()
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "failed to open entry", ctx)
	}
	defer rc.Close()

	out, err := fsys.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm(mode))
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create file", ctx)
	}

	if _, err := io.Copy(out, rc); err != nil {
		_ = out.Close()
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to write file", ctx)
	}
	if err := out.Close(); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to close file", ctx)
	}
	return nil
}

func dirPerm(mode os.FileMode) os.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm | 0o700
	}
	return defaultDirPerm
}

func filePerm(mode os.FileMode) os.FileMode {
	if perm := mode.Perm(); perm != 0 {
		return perm
	}
	return defaultFilePerm
}
