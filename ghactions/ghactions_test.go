package ghactions

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs/billy"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
)

type fakeEnv map[string]string

func (e fakeEnv) get(k string) string { return e[k] }

func (e fakeEnv) set(k, v string) error {
	e[k] = v
	return nil
}

func TestInputs_Get(t *testing.T) {
	inputs := NewInputsFromMap(map[string]string{
		"action":       "push",
		"butler_key":   "  key-with-spaces  ",
		"itch user":    "user",
		"auto_channel": "",
	})

	assert.Equal(t, "push", inputs.Get("action"))
	assert.Equal(t, "key-with-spaces", inputs.Get("butler_key"))
	assert.Equal(t, "user", inputs.Get("itch user"))
	assert.Empty(t, inputs.Get("auto_channel"))
	assert.Empty(t, inputs.Get("missing"))
}

func TestInputs_Env(t *testing.T) {
	t.Setenv("INPUT_BUTLER_VERSION", " 15.21.0\n")
	assert.Equal(t, "15.21.0", NewInputs().Get("butler_version"))
	assert.Equal(t, "INPUT_ITCH_GAME", InputEnv("itch game"))
}

func TestCommand(t *testing.T) {
	assert.Equal(t, "::group::Push files", Command("group", nil, "Push files"))
	assert.Equal(t, "::endgroup::", Command("endgroup", nil, ""))
	assert.Equal(t, "::error::100%25 failed%0Aline two%0D", Command("error", nil, "100% failed\nline two\r"))
	assert.Equal(t, "::set-output name=a%3Ab%2Cc::v", Command("set-output", map[string]string{"name": "a:b,c"}, "v"))
}

func TestWorkflow_SetOutput_File(t *testing.T) {
	fsys := billy.NewInMemoryFS()
	env := fakeEnv{OutputFileEnv: "/runner/output"}
	var out bytes.Buffer
	wf := NewWorkflow(WithWriter(&out), WithFilesystem(fsys), WithEnv(env.get, env.set))

	require.NoError(t, wf.SetOutput("install_dir", "/home/runner/.butler"))
	require.NoError(t, wf.SetOutput("multi", "a\nb"))

	data, err := fsys.ReadFile("/runner/output")
	require.NoError(t, err)

	re := regexp.MustCompile(`^install_dir<<(ghadelimiter_[0-9a-f-]{36})\n/home/runner/\.butler\n(ghadelimiter_[0-9a-f-]{36})\n` +
		`multi<<(ghadelimiter_[0-9a-f-]{36})\na\nb\n(ghadelimiter_[0-9a-f-]{36})\n$`)
	m := re.FindStringSubmatch(string(data))
	require.NotNil(t, m, "unexpected output file:\n%s", data)
	assert.Equal(t, m[1], m[2])
	assert.Equal(t, m[3], m[4])
	assert.NotEqual(t, m[1], m[3])
	assert.Empty(t, out.String())
}

func TestWorkflow_SetOutput_Command(t *testing.T) {
	env := fakeEnv{}
	var out bytes.Buffer
	wf := NewWorkflow(WithWriter(&out), WithFilesystem(billy.NewInMemoryFS()), WithEnv(env.get, env.set))

	require.NoError(t, wf.SetOutputs(map[string]string{"install_dir": "/opt/butler"}))
	assert.Equal(t, "::set-output name=install_dir::/opt/butler\n", out.String())
}

func TestWorkflow_SetOutputs_NameOrder(t *testing.T) {
	env := fakeEnv{}
	var out bytes.Buffer
	wf := NewWorkflow(WithWriter(&out), WithFilesystem(billy.NewInMemoryFS()), WithEnv(env.get, env.set))

	require.NoError(t, wf.SetOutputs(map[string]string{"version": "15.21.0", "install_dir": "/opt/butler"}))
	assert.Equal(t,
		"::set-output name=install_dir::/opt/butler\n::set-output name=version::15.21.0\n",
		out.String())
}

func TestWorkflow_AddPath(t *testing.T) {
	t.Run("path file", func(t *testing.T) {
		fsys := billy.NewInMemoryFS()
		env := fakeEnv{PathFileEnv: "/runner/path", "PATH": "/usr/bin"}
		var out bytes.Buffer
		wf := NewWorkflow(WithWriter(&out), WithFilesystem(fsys), WithEnv(env.get, env.set))

		require.NoError(t, wf.AddPath("/opt/butler"))

		data, err := fsys.ReadFile("/runner/path")
		require.NoError(t, err)
		assert.Equal(t, "/opt/butler\n", string(data))
		assert.Equal(t, "/opt/butler"+string(os.PathListSeparator)+"/usr/bin", env["PATH"])
		assert.Empty(t, out.String())
	})

	t.Run("command", func(t *testing.T) {
		env := fakeEnv{}
		var out bytes.Buffer
		wf := NewWorkflow(WithWriter(&out), WithFilesystem(billy.NewInMemoryFS()), WithEnv(env.get, env.set))

		require.NoError(t, wf.AddPath("/opt/butler"))
		assert.Equal(t, "::add-path::/opt/butler\n", out.String())
		assert.Equal(t, "/opt/butler", env["PATH"])
	})
}

func TestWorkflow_Groups(t *testing.T) {
	var out bytes.Buffer
	wf := NewWorkflow(WithWriter(&out))

	wf.StartGroup("Install Butler")
	wf.EndGroup()

	assert.Equal(t, "::group::Install Butler\n::endgroup::\n", out.String())
}

func TestHandler_Levels(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil))

	logger.Debug("Starting uploads.")
	logger.Info("3 stdout line\n3 second line")
	logger.Warn("careful")
	logger.Error("Files should not be pushed without a channel, but this one will: a.zip")

	assert.Equal(t, strings.Join([]string{
		"::debug::Starting uploads.",
		"3 stdout line\n3 second line",
		"::warning::careful",
		"::error::Files should not be pushed without a channel, but this one will: a.zip",
		"",
	}, "\n"), out.String())
}

func TestHandler_Attrs(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(NewHandler(&out, nil)).With("component", "butler").WithGroup("push")

	logger.Error("failed\nbadly", "key", secrets.NewKey("secret"), slog.Group("job", "file", "a.zip"), "pid", 3)

	assert.Equal(t,
		"::error::failed%0Abadly component=butler push.key=[REDACTED] push.job.file=a.zip push.pid=3\n",
		out.String())
}

func TestHandler_Level(t *testing.T) {
	var out bytes.Buffer
	h := NewHandler(&out, &HandlerOptions{Level: slog.LevelInfo})
	logger := slog.New(h)

	assert.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	logger.Debug("hidden")
	logger.Info("shown")

	assert.Equal(t, "shown\n", out.String())
}
