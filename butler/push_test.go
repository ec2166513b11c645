package butler

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/executor"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
)

func TestPushFile(t *testing.T) {
	tests := []struct {
		name      string
		result    *executor.Result
		err       error
		wantLevel slog.Level
		wantLogs  []string
		wantCode  errors.ErrorCode
	}{
		{
			name: "exit 0",
			result: &executor.Result{
				Pid:    3,
				Stdout: "stdout text follow-up\nstdout text 2",
				Stderr: "stderr text",
			},
			wantLevel: slog.LevelInfo,
			wantLogs: []string{
				"3 Pushed game.zip",
				"3 stdout text follow-up\n3 stdout text 2",
				"3 stderr text",
			},
		},
		{
			name: "exit 1",
			result: &executor.Result{
				Pid:      3,
				Stdout:   "stdout text follow-up\nstdout text 2",
				Stderr:   "stderr text",
				ExitCode: 1,
			},
			err:       fmt.Errorf("command execution failed: exit status 1"),
			wantLevel: slog.LevelError,
			wantLogs: []string{
				"3 Failed to push game.zip",
				"3 stdout text follow-up\n3 stdout text 2",
				"3 stderr text",
			},
			wantCode: errors.CodePublishFailed,
		},
		{
			name:      "non-zero exit without error",
			result:    &executor.Result{Pid: 7, Stdout: "", Stderr: "denied\n", ExitCode: 2},
			wantLevel: slog.LevelError,
			wantLogs:  []string{"7 Failed to push game.zip", "7 ", "7 denied\n7 "},
			wantCode:  errors.CodePublishFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := newTestLogger()
			cmd := &mockCommand{run: func(string, []string) (*executor.Result, error) {
				return tt.result, tt.err
			}}
			b := New("/opt/butler",
				WithCommand(cmd.factory),
				WithLogger(logger),
				WithPlatform("linux", "amd64"),
			)

			err := b.PushFile(context.Background(), PushJob{
				Key:  secrets.NewKey("key"),
				User: "user",
				Game: "game",
				File: "game.zip",
			})

			if tt.wantCode == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, tt.wantCode))
				assert.Contains(t, err.Error(), fmt.Sprintf("%d Failed to push game.zip", tt.result.Pid))
			}
			assert.Equal(t, tt.wantLogs, messages(logs(), tt.wantLevel))
		})
	}
}

func TestPushFile_Command(t *testing.T) {
	cmd := &mockCommand{}
	b := New("/opt/butler",
		WithCommand(cmd.factory),
		WithWorkDir("/work"),
		WithPlatform("linux", "amd64"),
	)

	err := b.PushFile(context.Background(), PushJob{
		Key:     secrets.NewKey("secret-key"),
		User:    "user",
		Game:    "game",
		Version: "1.0.0",
		Channel: "linux-x64",
		File:    "build/game.zip",
	})
	require.NoError(t, err)

	calls := cmd.recorded()
	require.Len(t, calls, 1)
	assert.Equal(t, filepath.Join("/opt/butler", "butler"), calls[0].program)
	assert.Equal(t, []string{"push", "build/game.zip", "user/game:linux-x64", "--userversion", "1.0.0"}, calls[0].args)
	assert.Equal(t, "secret-key", calls[0].options.Env[APIKeyEnv])
	assert.Equal(t, "/work", calls[0].options.WorkingDir)
	assert.True(t, calls[0].options.CaptureStdout)
	assert.True(t, calls[0].options.CaptureStderr)
}

func TestPushFile_StartFailure(t *testing.T) {
	cmd := &mockCommand{run: func(string, []string) (*executor.Result, error) {
		return nil, fmt.Errorf("command start failed: %w", exec.ErrNotFound)
	}}
	b := New("/opt/butler", WithCommand(cmd.factory))

	err := b.PushFile(context.Background(), PushJob{User: "user", Game: "game", File: "game.zip"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeExecutionFailed))
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestPushFile_KeyNotLogged(t *testing.T) {
	logger, logs := newTestLogger()
	cmd := &mockCommand{}
	b := New("/opt/butler", WithCommand(cmd.factory), WithLogger(logger))

	require.NoError(t, b.PushFile(context.Background(), PushJob{
		Key:  secrets.NewKey("secret-key"),
		User: "user",
		Game: "game",
		File: "game.zip",
	}))

	for _, e := range logs() {
		assert.NotContains(t, e.msg, "secret-key")
		for _, v := range e.attrs {
			assert.NotContains(t, v, "secret-key")
		}
	}
}

func TestPush(t *testing.T) {
	root, fsys := newFixture(t)
	logger, logs := newTestLogger()
	reporter := &fakeReporter{}
	cmd := &mockCommand{}

	b := New("/opt/butler",
		WithFilesystem(fsys),
		WithCommand(cmd.factory),
		WithLogger(logger),
		WithReporter(reporter),
		WithWorkDir(root),
	)

	err := b.Push(context.Background(), PushOptions{
		Key:         secrets.NewKey("key"),
		User:        "user",
		Game:        "game",
		AutoChannel: true,
		Files:       []FilePattern{{Pattern: "*release.zip"}},
	})
	require.NoError(t, err)

	var targets []string
	for _, c := range cmd.recorded() {
		targets = append(targets, c.args[1]+" "+c.args[2])
		assert.Equal(t, root, c.options.WorkingDir)
	}
	sort.Strings(targets)
	assert.Equal(t, []string{
		"android-release.zip user/game:android",
		"game-linux-x64.release.zip user/game:linux-x64",
		"game.WIN.release.zip user/game:windows",
		"game_Mac_release.zip user/game:mac",
	}, targets)

	assert.Contains(t, messages(logs(), slog.LevelDebug), "Starting uploads.")
	info := messages(logs(), slog.LevelInfo)
	require.NotEmpty(t, info)
	assert.Equal(t, "All files are pushed to Itch.", info[len(info)-1])
	assert.Equal(t, []string{"start Push files", "end"}, reporter.events)
}

func TestPush_WaitsForAllUploads(t *testing.T) {
	_, fsys := newFixture(t)
	logger, logs := newTestLogger()
	cmd := &mockCommand{run: func(_ string, args []string) (*executor.Result, error) {
		if strings.Contains(args[1], "Mac") {
			return &executor.Result{Pid: 42, Stderr: "boom", ExitCode: 1}, nil
		}
		return &executor.Result{Pid: 1}, nil
	}}

	b := New("/opt/butler", WithFilesystem(fsys), WithCommand(cmd.factory), WithLogger(logger))

	err := b.Push(context.Background(), PushOptions{
		User:        "user",
		Game:        "game",
		AutoChannel: true,
		Files:       []FilePattern{{Pattern: "*release.zip"}},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodePublishFailed))
	assert.Contains(t, err.Error(), "42 Failed to push game_Mac_release.zip")
	assert.Len(t, cmd.recorded(), 4)
	assert.NotContains(t, messages(logs(), slog.LevelInfo), "All files are pushed to Itch.")
	assert.Contains(t, messages(logs(), slog.LevelError), "42 boom")
}

func TestPush_StartsAllUploadsBeforeAnyCompletes(t *testing.T) {
	_, fsys := newFixture(t)

	var started sync.WaitGroup
	started.Add(len(sampleFiles))
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	cmd := &mockCommand{run: func(_ string, _ []string) (*executor.Result, error) {
		started.Done()
		select {
		case <-allStarted:
			return &executor.Result{Pid: 1}, nil
		case <-time.After(2 * time.Second):
			return &executor.Result{Pid: 1, ExitCode: 1, Stderr: "not all uploads were running"}, nil
		}
	}}
	b := New("/opt/butler", WithFilesystem(fsys), WithCommand(cmd.factory))

	err := b.Push(context.Background(), PushOptions{
		User:        "user",
		Game:        "game",
		AutoChannel: true,
		Files:       []FilePattern{{Pattern: "*release.zip"}},
	})
	require.NoError(t, err)
	assert.Len(t, cmd.recorded(), len(sampleFiles))
}

func TestPush_FailureWaitsForSlowSiblings(t *testing.T) {
	_, fsys := newFixture(t)

	var slowDone atomic.Int32
	cmd := &mockCommand{run: func(_ string, args []string) (*executor.Result, error) {
		if strings.Contains(args[1], "android") {
			return &executor.Result{Pid: 7, ExitCode: 1}, nil
		}
		time.Sleep(200 * time.Millisecond)
		slowDone.Add(1)
		return &executor.Result{Pid: 1}, nil
	}}
	b := New("/opt/butler", WithFilesystem(fsys), WithCommand(cmd.factory))

	err := b.Push(context.Background(), PushOptions{
		User:        "user",
		Game:        "game",
		AutoChannel: true,
		Files:       []FilePattern{{Pattern: "*release.zip"}},
	})
	require.Error(t, err)
	assert.Equal(t, int32(3), slowDone.Load(), "Push returned before every upload exited")

	assert.Contains(t, err.Error(), "failed: 1")
	assert.Contains(t, err.Error(), "total: 4")
}

func TestPush_ChannellessFilesArePushed(t *testing.T) {
	_, fsys := newFixture(t)
	cmd := &mockCommand{}
	b := New("/opt/butler", WithFilesystem(fsys), WithCommand(cmd.factory))

	err := b.Push(context.Background(), PushOptions{
		User:  "user",
		Game:  "game",
		Files: []FilePattern{{Channel: "mac", Pattern: "game_Mac_release.zip"}, {Pattern: "android-release.zip"}},
	})
	require.NoError(t, err)

	var targets []string
	for _, c := range cmd.recorded() {
		targets = append(targets, c.args[2])
	}
	sort.Strings(targets)
	assert.Equal(t, []string{"user/game", "user/game:mac"}, targets)
}

func TestPush_ResolutionErrorSpawnsNothing(t *testing.T) {
	_, fsys := newFixture(t)
	reporter := &fakeReporter{}
	cmd := &mockCommand{}
	b := New("/opt/butler", WithFilesystem(fsys), WithCommand(cmd.factory), WithReporter(reporter))

	err := b.Push(context.Background(), PushOptions{
		User:  "user",
		Game:  "game",
		Files: []FilePattern{{Pattern: "game*"}, {Pattern: "qwerty-*"}},
	})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.CodeNotFound))
	assert.Empty(t, cmd.recorded())
	assert.Equal(t, []string{"start Push files", "end"}, reporter.events)
}

func TestPrefixLines(t *testing.T) {
	assert.Equal(t, "3 one", prefixLines(3, "one"))
	assert.Equal(t, "3 one\n3 two", prefixLines(3, "one\ntwo"))
	assert.Equal(t, "3 one\n3 ", prefixLines(3, "one\n"))
	assert.Equal(t, "3 ", prefixLines(3, ""))
}
