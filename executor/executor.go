// Package executor runs external commands with output capture, environment
// variable management, and context support for cancellation.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Result holds the output and error from a command execution
type Result struct {
	Pid      int
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Executor defines the interface for command execution
type Executor interface {
	// Execute runs a command with the given options
	Execute(ctx context.Context, opts ...Option) (*Result, error)
}

// CommandExecutor implements the Executor interface
type CommandExecutor struct {
	program string
	args    []string
	options *Options
}

// Options configures command execution behavior
type Options struct {
	// Output handling
	CaptureStdout bool
	CaptureStderr bool

	// Working directory
	WorkingDir string

	// Environment variables (appended to current env)
	Env map[string]string
}

// Option is a function that modifies Options
type Option func(*Options)

// DefaultOptions returns default execution options
func DefaultOptions() *Options {
	return &Options{
		CaptureStdout: true,
		CaptureStderr: true,
		Env:           make(map[string]string),
	}
}

// New creates a new CommandExecutor
func New(program string, args ...string) *CommandExecutor {
	return &CommandExecutor{
		program: program,
		args:    args,
		options: DefaultOptions(),
	}
}

// Execute implements the Executor interface.
// A command that starts but exits non-zero returns both a Result and an error.
// A command that cannot be started returns a nil Result.
func (c *CommandExecutor) Execute(ctx context.Context, opts ...Option) (*Result, error) {
	options := c.mergeOptions(opts...)

	cmd := exec.CommandContext(ctx, c.program, c.args...)
	c.setupCommand(cmd, options)
	stdoutBuf, stderrBuf := c.setupOutputCapture(cmd, options)

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("command start failed: %w", err)
	}
	pid := cmd.Process.Pid

	// Buffers are only read after Wait has drained both pipes.
	err := cmd.Wait()

	result := c.createResult(stdoutBuf, stderrBuf, err)
	result.Pid = pid

	if err != nil {
		return result, fmt.Errorf("command execution failed: %w", err)
	}
	return result, nil
}

// setupCommand configures the exec.Cmd with working directory and environment
func (c *CommandExecutor) setupCommand(cmd *exec.Cmd, options *Options) {
	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}

	if len(options.Env) > 0 {
		cmd.Env = os.Environ()
		for k, v := range options.Env {
			cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%s", k, v))
		}
	}
}

// setupOutputCapture attaches a buffer to each captured stream.
func (c *CommandExecutor) setupOutputCapture(cmd *exec.Cmd, options *Options) (*bytes.Buffer, *bytes.Buffer) {
	var stdoutBuf, stderrBuf bytes.Buffer
	if options.CaptureStdout {
		cmd.Stdout = &stdoutBuf
	}
	if options.CaptureStderr {
		cmd.Stderr = &stderrBuf
	}
	return &stdoutBuf, &stderrBuf
}

// createResult creates a Result from command execution and error
func (c *CommandExecutor) createResult(stdoutBuf, stderrBuf *bytes.Buffer, err error) *Result {
	result := &Result{
		Stdout: stdoutBuf.String(),
		Stderr: stderrBuf.String(),
		Err:    err,
	}

	var exitErr *exec.ExitError
	switch {
	case err != nil && errors.As(err, &exitErr):
		result.ExitCode = exitErr.ExitCode()
	case err == nil:
		result.ExitCode = 0
	default:
		result.ExitCode = -1
	}

	return result
}

func (c *CommandExecutor) mergeOptions(opts ...Option) *Options {
	merged := *c.options
	merged.Env = make(map[string]string, len(c.options.Env))
	for k, v := range c.options.Env {
		merged.Env[k] = v
	}

	for _, opt := range opts {
		opt(&merged)
	}

	return &merged
}

// Option functions for fluent configuration

// WithCapture configures which streams are captured
func WithCapture(stdout, stderr bool) Option {
	return func(o *Options) {
		o.CaptureStdout = stdout
		o.CaptureStderr = stderr
	}
}

// WithWorkingDir sets the working directory
func WithWorkingDir(dir string) Option {
	return func(o *Options) {
		o.WorkingDir = dir
	}
}

// WithEnv adds environment variables
func WithEnv(env map[string]string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		for k, v := range env {
			o.Env[k] = v
		}
	}
}

// WithEnvVar adds a single environment variable
func WithEnvVar(key, value string) Option {
	return func(o *Options) {
		if o.Env == nil {
			o.Env = make(map[string]string)
		}
		o.Env[key] = value
	}
}
