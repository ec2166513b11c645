package ghactions

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs/billy"
)

// Environment files written by the runner.
const (
	OutputFileEnv = "GITHUB_OUTPUT"
	PathFileEnv   = "GITHUB_PATH"
)

// Workflow writes outputs, PATH entries and groups for the runner.
type Workflow struct {
	mu     sync.Mutex
	out    io.Writer
	fs     fs.Filesystem
	getenv func(string) string
	setenv func(string, string) error
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*Workflow)

// WithWriter sets where workflow commands are written.
func WithWriter(w io.Writer) WorkflowOption {
	return func(wf *Workflow) {
		wf.out = w
	}
}

// WithFilesystem sets the filesystem environment files are written to.
func WithFilesystem(fsys fs.Filesystem) WorkflowOption {
	return func(wf *Workflow) {
		wf.fs = fsys
	}
}

// WithEnv overrides how environment variables are read and written.
func WithEnv(getenv func(string) string, setenv func(string, string) error) WorkflowOption {
	return func(wf *Workflow) {
		wf.getenv = getenv
		wf.setenv = setenv
	}
}

// NewWorkflow returns a Workflow writing to stdout and the process
// environment.
func NewWorkflow(opts ...WorkflowOption) *Workflow {
	wf := &Workflow{
		out:    os.Stdout,
		getenv: os.Getenv,
		setenv: os.Setenv,
	}
	for _, opt := range opts {
		opt(wf)
	}
	if wf.fs == nil {
		wf.fs = billy.NewBaseOSFS()
	}
	return wf
}

func (wf *Workflow) writeLine(line string) {
	wf.mu.Lock()
	defer wf.mu.Unlock()
	_, _ = io.WriteString(wf.out, line+"\n")
}

func (wf *Workflow) appendFile(path, content string) error {
	f, err := wf.fs.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to open runner file",
			map[string]interface{}{"path": path})
	}
	if _, err := io.WriteString(f, content); err != nil {
		_ = f.Close()
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to write runner file",
			map[string]interface{}{"path": path})
	}
	if err := f.Close(); err != nil {
		return errors.WrapWithContext(err, errors.CodeFilesystem, "failed to close runner file",
			map[string]interface{}{"path": path})
	}
	return nil
}

// SetOutput sets the step output name.
func (wf *Workflow) SetOutput(name, value string) error {
	path := wf.getenv(OutputFileEnv)
	if path == "" {
		wf.writeLine(Command("set-output", map[string]string{"name": name}, value))
		return nil
	}

	delimiter := "ghadelimiter_" + uuid.NewString()
	if strings.Contains(name, delimiter) || strings.Contains(value, delimiter) {
		return errors.NewWithContext(errors.CodeInternal, "output contains the delimiter",
			map[string]interface{}{"name": name})
	}
	return wf.appendFile(path, fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delimiter, value, delimiter))
}

// SetOutputs sets every output in outputs, in name order.
func (wf *Workflow) SetOutputs(outputs map[string]string) error {
	names := make([]string, 0, len(outputs))
	for name := range outputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := wf.SetOutput(name, outputs[name]); err != nil {
			return err
		}
	}
	return nil
}

// AddPath prepends dir to PATH for this process and the following steps.
func (wf *Workflow) AddPath(dir string) error {
	if path := wf.getenv(PathFileEnv); path != "" {
		if err := wf.appendFile(path, dir+"\n"); err != nil {
			return err
		}
	} else {
		wf.writeLine(Command("add-path", nil, dir))
	}

	current := wf.getenv("PATH")
	next := dir
	if current != "" {
		next = dir + string(os.PathListSeparator) + current
	}
	if err := wf.setenv("PATH", next); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to update PATH")
	}
	return nil
}

// StartGroup opens a collapsible log group.
func (wf *Workflow) StartGroup(name string) {
	wf.writeLine(Command("group", nil, name))
}

// EndGroup closes the current log group.
func (wf *Workflow) EndGroup() {
	wf.writeLine(Command("endgroup", nil, ""))
}
