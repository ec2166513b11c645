package butler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/input-output-hk/catalyst-forge-libs/butler/archive"
	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/platform"
)

// DefaultSource is the distribution server butler is downloaded from.
const DefaultSource = "https://broth.itch.zone/butler"

// DefaultVersion is the butler version installed when none is given.
const DefaultVersion = "latest"

// ValidateVersion accepts "latest", "head" or a semantic version.
func ValidateVersion(version string) error {
	switch strings.ToLower(version) {
	case "latest", "head":
		return nil
	}
	if _, err := semver.StrictNewVersion(strings.TrimPrefix(version, "v")); err != nil {
		return errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid butler version",
			map[string]interface{}{"version": version})
	}
	return nil
}

// InstallURL returns the archive URL of version on source.
func (b *Butler) InstallURL(source, version string) (string, error) {
	return b.brothURL(source, version, "archive")
}

// SignatureURL returns the archive signature URL of version on source.
func (b *Butler) SignatureURL(source, version string) (string, error) {
	return b.brothURL(source, version, "signature")
}

func (b *Butler) brothURL(source, version, kind string) (string, error) {
	osPath, err := platform.ButlerOSPath(b.goos, b.goarch)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s/%s/%s/%s/default",
		strings.TrimSuffix(source, "/"), osPath, strings.ToUpper(version), kind), nil
}

// Install downloads butler and extracts it into the install directory.
func (b *Butler) Install(ctx context.Context, opts InstallOptions) error {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Version == "" {
		opts.Version = DefaultVersion
	}
	if err := ValidateVersion(opts.Version); err != nil {
		return err
	}

	url, err := b.InstallURL(opts.Source, opts.Version)
	if err != nil {
		return err
	}

	b.reporter.StartGroup("Install Butler")
	defer b.reporter.EndGroup()

	b.logger.InfoContext(ctx, fmt.Sprintf("Downloading Butler from %s", url))
	archivePath, cleanup, err := b.download(ctx, url)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := b.fs.MkdirAll(b.installDir, 0o755); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create install directory",
			map[string]interface{}{"path": b.installDir})
	}

	b.logger.InfoContext(ctx, fmt.Sprintf("Extracting Butler to %s", b.installDir))
	if err := archive.ExtractZip(b.fs, archivePath, b.installDir); err != nil {
		return err
	}

	if opts.CheckSignature {
		sigURL, _ := b.SignatureURL(opts.Source, opts.Version)
		b.logger.ErrorContext(ctx, "Butler archive signature verification is not supported yet.",
			"signature_url", sigURL)
	}

	if opts.UpdatePath {
		b.logger.InfoContext(ctx, "Adding Butler to PATH")
		if err := b.reporter.AddPath(b.installDir); err != nil {
			return errors.WrapWithContext(err, errors.CodeInternal, "failed to add butler to PATH",
				map[string]interface{}{"path": b.installDir})
		}
	}

	return nil
}

// download stages url in a temporary directory. The returned cleanup
// removes it.
func (b *Butler) download(ctx context.Context, url string) (string, func(), error) {
	dir, err := b.fs.TempDir(b.tempDir, "butler-")
	if err != nil {
		return "", nil, errors.Wrap(err, errors.CodeFilesystem, "failed to create download directory")
	}
	cleanup := func() {
		if err := b.fs.RemoveAll(dir); err != nil {
			b.logger.WarnContext(ctx, "failed to remove download directory", "path", dir, "error", err)
		}
	}

	archivePath := filepath.Join(dir, "butler.zip")
	f, err := b.fs.OpenFile(archivePath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		cleanup()
		return "", nil, errors.WrapWithContext(err, errors.CodeFilesystem, "failed to create download file",
			map[string]interface{}{"path": archivePath})
	}

	if err := b.fetcher.Fetch(ctx, url, f); err != nil {
		_ = f.Close()
		cleanup()
		return "", nil, err
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, errors.WrapWithContext(err, errors.CodeFilesystem, "failed to write download file",
			map[string]interface{}{"path": archivePath})
	}

	return archivePath, cleanup, nil
}
