// Package butler installs the itch.io butler CLI and drives it to push build
// artifacts.
//
// Files are selected with glob patterns, each optionally bound to an
// explicit channel. Files without an explicit channel get one inferred from
// their name when auto channel detection is enabled. Every file is uploaded
// by its own butler process; all uploads run concurrently and a push only
// fails once every upload has finished.
package butler

import (
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/input-output-hk/catalyst-forge-libs/butler/executor"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/butler/platform"
	"github.com/input-output-hk/catalyst-forge-libs/butler/source"
)

// APIKeyEnv is the environment variable butler reads its API key from.
const APIKeyEnv = "BUTLER_API_KEY"

// CommandFunc builds an executor for program and args.
type CommandFunc func(program string, args ...string) executor.Executor

// Reporter receives the grouping and PATH side effects of the host.
type Reporter interface {
	StartGroup(name string)
	EndGroup()
	AddPath(dir string) error
}

// Butler manages one butler installation.
type Butler struct {
	installDir string
	workDir    string
	tempDir    string
	goos       string
	goarch     string

	fs       fs.Filesystem
	command  CommandFunc
	fetcher  source.Fetcher
	reporter Reporter
	logger   *slog.Logger
}

// Option configures a Butler.
type Option func(*Butler)

// WithFilesystem sets the filesystem used for globbing and installation.
func WithFilesystem(fsys fs.Filesystem) Option {
	return func(b *Butler) {
		b.fs = fsys
	}
}

// WithCommand sets the factory used to run butler.
func WithCommand(f CommandFunc) Option {
	return func(b *Butler) {
		b.command = f
	}
}

// WithFetcher sets the fetcher used to download the butler archive.
func WithFetcher(f source.Fetcher) Option {
	return func(b *Butler) {
		b.fetcher = f
	}
}

// WithReporter sets the reporter for groups and PATH updates.
func WithReporter(r Reporter) Option {
	return func(b *Butler) {
		b.reporter = r
	}
}

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Butler) {
		b.logger = logger
	}
}

// WithWorkDir sets the working directory of butler processes.
func WithWorkDir(dir string) Option {
	return func(b *Butler) {
		b.workDir = dir
	}
}

// WithTempDir sets the directory downloads are staged in.
func WithTempDir(dir string) Option {
	return func(b *Butler) {
		b.tempDir = dir
	}
}

// WithPlatform overrides the host operating system and architecture.
func WithPlatform(goos, goarch string) Option {
	return func(b *Butler) {
		b.goos = goos
		b.goarch = goarch
	}
}

// New returns a Butler installed in installDir.
func New(installDir string, opts ...Option) *Butler {
	b := &Butler{
		installDir: installDir,
		goos:       runtime.GOOS,
		goarch:     runtime.GOARCH,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.fs == nil {
		b.fs = billy.NewBaseOSFS()
	}
	if b.command == nil {
		b.command = func(program string, args ...string) executor.Executor {
			return executor.New(program, args...)
		}
	}
	if b.fetcher == nil {
		b.fetcher = source.NewMux()
	}
	if b.reporter == nil {
		b.reporter = nopReporter{}
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}

	return b
}

// InstallDir returns the installation directory.
func (b *Butler) InstallDir() string {
	return b.installDir
}

// ExecutablePath returns the path of the butler binary.
func (b *Butler) ExecutablePath() string {
	return filepath.Join(b.installDir, platform.ExecutableName(b.goos))
}

// IsInstalled reports whether the butler binary exists.
func (b *Butler) IsInstalled() (bool, error) {
	return b.fs.Exists(b.ExecutablePath())
}

type nopReporter struct{}

func (nopReporter) StartGroup(string) {}

func (nopReporter) EndGroup() {}

func (nopReporter) AddPath(string) error { return nil }
