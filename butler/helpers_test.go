package butler

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/butler/executor"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs/billy"
)

var sampleFiles = []string{
	"game-linux-x64.release.zip",
	"game_Mac_release.zip",
	"game.WIN.release.zip",
	"android-release.zip",
}

type logEntry struct {
	level slog.Level
	msg   string
	attrs map[string]string
}

type testLogHandler struct {
	mu   *sync.Mutex
	logs *[]logEntry
}

func newTestLogger() (*slog.Logger, func() []logEntry) {
	h := &testLogHandler{mu: &sync.Mutex{}, logs: &[]logEntry{}}
	return slog.New(h), func() []logEntry {
		h.mu.Lock()
		defer h.mu.Unlock()
		out := make([]logEntry, len(*h.logs))
		copy(out, *h.logs)
		return out
	}
}

func (h *testLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return true
}

//nolint:gocritic // slog.Handler interface requires slog.Record by value
func (h *testLogHandler) Handle(ctx context.Context, r slog.Record) error {
	entry := logEntry{level: r.Level, msg: r.Message, attrs: map[string]string{}}
	r.Attrs(func(a slog.Attr) bool {
		entry.attrs[a.Key] = a.Value.Resolve().String()
		return true
	})

	h.mu.Lock()
	defer h.mu.Unlock()
	*h.logs = append(*h.logs, entry)
	return nil
}

func (h *testLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *testLogHandler) WithGroup(name string) slog.Handler {
	return h
}

// messages returns the messages logged at level, in order.
func messages(entries []logEntry, level slog.Level) []string {
	var out []string
	for _, e := range entries {
		if e.level == level {
			out = append(out, e.msg)
		}
	}
	return out
}

type commandCall struct {
	program string
	args    []string
	options *executor.Options
}

type mockCommand struct {
	mu    sync.Mutex
	calls []commandCall
	run   func(program string, args []string) (*executor.Result, error)
}

func (m *mockCommand) factory(program string, args ...string) executor.Executor {
	return &mockExecutor{parent: m, program: program, args: args}
}

func (m *mockCommand) recorded() []commandCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]commandCall, len(m.calls))
	copy(out, m.calls)
	return out
}

type mockExecutor struct {
	parent  *mockCommand
	program string
	args    []string
}

func (e *mockExecutor) Execute(ctx context.Context, opts ...executor.Option) (*executor.Result, error) {
	options := executor.DefaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	e.parent.mu.Lock()
	e.parent.calls = append(e.parent.calls, commandCall{program: e.program, args: e.args, options: options})
	e.parent.mu.Unlock()

	if e.parent.run == nil {
		return &executor.Result{Pid: 1}, nil
	}
	return e.parent.run(e.program, e.args)
}

type fakeReporter struct {
	mu     sync.Mutex
	events []string
	paths  []string
}

func (r *fakeReporter) StartGroup(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "start "+name)
}

func (r *fakeReporter) EndGroup() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "end")
}

func (r *fakeReporter) AddPath(dir string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, dir)
	return nil
}

// newFixture creates the sample release files in a temporary directory and
// returns a filesystem rooted there.
func newFixture(t *testing.T, extra ...string) (string, *billy.FS) {
	t.Helper()

	root := t.TempDir()
	for _, name := range append(append([]string{}, sampleFiles...), extra...) {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(name), 0o644))
	}
	return root, billy.NewOSFS(root)
}
