// Package ghactions implements the parts of the GitHub Actions runner
// protocol used by the action: reading inputs, writing outputs, updating
// PATH, log groups and workflow-command logging.
package ghactions

import (
	"os"
	"strings"
)

// Inputs reads action inputs from the INPUT_* environment variables.
type Inputs struct {
	getenv func(string) string
}

// NewInputs returns Inputs backed by the process environment.
func NewInputs() *Inputs {
	return &Inputs{getenv: os.Getenv}
}

// NewInputsFromMap returns Inputs backed by values, keyed by input name.
func NewInputsFromMap(values map[string]string) *Inputs {
	env := make(map[string]string, len(values))
	for name, v := range values {
		env[InputEnv(name)] = v
	}
	return &Inputs{getenv: func(key string) string { return env[key] }}
}

// InputEnv returns the environment variable holding input name.
func InputEnv(name string) string {
	return "INPUT_" + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// Get returns the trimmed value of input name, or "" when unset.
func (i *Inputs) Get(name string) string {
	return strings.TrimSpace(i.getenv(InputEnv(name)))
}
