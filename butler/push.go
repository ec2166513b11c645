package butler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/executor"
)

// Push uploads every file selected by opts.
//
// All uploads are started before any is awaited. A failed upload does not
// stop the others; Push returns once all of them have exited.
func (b *Butler) Push(ctx context.Context, opts PushOptions) error {
	b.reporter.StartGroup("Push files")
	defer b.reporter.EndGroup()

	plan, err := Resolve(b.fs, opts, b.logger)
	if err != nil {
		return err
	}

	b.logger.DebugContext(ctx, "Starting uploads.")

	files := plan.Files()
	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	for _, f := range files {
		job := PushJob{
			Key:     opts.Key,
			User:    opts.User,
			Game:    opts.Game,
			Version: opts.Version,
			Channel: f.Channel,
			File:    f.Path,
		}
		g.Go(func() error {
			if err := b.PushFile(ctx, job); err != nil {
				failed.Add(1)
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return errors.WrapWithContext(err, errors.CodePublishFailed, "push failed",
			map[string]interface{}{"failed": failed.Load(), "total": len(files)})
	}

	b.logger.InfoContext(ctx, "All files are pushed to Itch.")
	return nil
}

// PushFile runs one butler upload and reports its output once it exits.
func (b *Butler) PushFile(ctx context.Context, job PushJob) error {
	exe := b.ExecutablePath()
	args := job.Args()
	b.logger.DebugContext(ctx, fmt.Sprintf("Spawn process with %q %s", exe, strings.Join(args, " ")))

	opts := []executor.Option{
		executor.WithCapture(true, true),
		executor.WithEnvVar(APIKeyEnv, job.Key.Reveal()),
	}
	if b.workDir != "" {
		opts = append(opts, executor.WithWorkingDir(b.workDir))
	}

	res, err := b.command(exe, args...).Execute(ctx, opts...)
	if res == nil {
		if err == nil {
			err = fmt.Errorf("no result")
		}
		return errors.WrapWithContext(err, errors.CodeExecutionFailed, "failed to start butler",
			map[string]interface{}{"file": job.File})
	}

	if err == nil && res.ExitCode == 0 {
		b.logger.InfoContext(ctx, fmt.Sprintf("%d Pushed %s", res.Pid, job.File))
		b.logger.InfoContext(ctx, prefixLines(res.Pid, res.Stdout))
		b.logger.InfoContext(ctx, prefixLines(res.Pid, res.Stderr))
		return nil
	}

	msg := fmt.Sprintf("%d Failed to push %s", res.Pid, job.File)
	b.logger.ErrorContext(ctx, msg)
	b.logger.ErrorContext(ctx, prefixLines(res.Pid, res.Stdout))
	b.logger.ErrorContext(ctx, prefixLines(res.Pid, res.Stderr))

	ectx := map[string]interface{}{"exit_code": res.ExitCode}
	if err == nil {
		return errors.NewWithContext(errors.CodePublishFailed, msg, ectx)
	}
	return errors.WrapWithContext(err, errors.CodePublishFailed, msg, ectx)
}

// prefixLines prefixes every line of text with the process id.
func prefixLines(pid int, text string) string {
	p := strconv.Itoa(pid) + " "
	return p + strings.ReplaceAll(text, "\n", "\n"+p)
}
