// Package action implements the butler GitHub Action: it reads the step
// inputs, makes sure butler is installed and runs the requested action.
package action

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/adrg/xdg"

	"github.com/input-output-hk/catalyst-forge-libs/butler/butler"
	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
)

// Supported actions.
const (
	ActionInstall = "install"
	ActionPush    = "push"
)

var channelTokenRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// InputSource provides raw input values by name.
type InputSource interface {
	Get(name string) string
}

// Options are the validated action inputs.
type Options struct {
	Action     string
	InstallDir string
	Install    butler.InstallOptions
	// Push is only set for the push action.
	Push *butler.PushOptions
	// KeySecret names a secret holding the API key. It is only used when
	// butler_key is empty.
	KeySecret string
}

// DefaultInstallDir returns $HOME/.butler.
func DefaultInstallDir() string {
	return filepath.Join(xdg.Home, ".butler")
}

// StringToBool parses a boolean input. An empty value yields def.
func StringToBool(value string, def bool) (bool, error) {
	if value == "" {
		return def, nil
	}
	switch strings.ToLower(value) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, errors.Newf(errors.CodeInvalidInput,
			"Received an arbitrary string where a boolean was expected: %s", value)
	}
}

// ParseFiles parses the files input. Each line is a glob pattern, optionally
// preceded by a channel name and a space.
func ParseFiles(text string, logger *slog.Logger) []butler.FilePattern {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var out []butler.FilePattern
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)

		ch, pattern := "", line
		tokens := strings.Split(line, " ")
		first := strings.ToLower(tokens[0])
		if len(tokens) > 1 && channelTokenRe.MatchString(first) {
			if rest := strings.TrimSpace(line[len(tokens[0]):]); rest != "" {
				ch, pattern = first, rest
			}
		}

		logger.Debug(fmt.Sprintf("File input %q mapped to channel %q with pattern %q", line, ch, pattern))
		if pattern == "" {
			continue
		}
		out = append(out, butler.FilePattern{Channel: ch, Pattern: pattern})
	}
	return out
}

// ParseInputs reads and validates the action inputs.
func ParseInputs(inputs InputSource, logger *slog.Logger) (*Options, error) {
	opts := &Options{
		Action:     inputs.Get("action"),
		InstallDir: inputs.Get("install_dir"),
		Install: butler.InstallOptions{
			Source:  inputs.Get("butler_source"),
			Version: inputs.Get("butler_version"),
		},
	}
	if opts.InstallDir == "" {
		opts.InstallDir = DefaultInstallDir()
	}
	if opts.Install.Source == "" {
		opts.Install.Source = butler.DefaultSource
	}
	if opts.Install.Version == "" {
		opts.Install.Version = butler.DefaultVersion
	}

	var err error
	if opts.Install.CheckSignature, err = StringToBool(inputs.Get("check_signature"), true); err != nil {
		return nil, err
	}
	if opts.Install.UpdatePath, err = StringToBool(inputs.Get("update_path"), false); err != nil {
		return nil, err
	}

	switch opts.Action {
	case ActionInstall:
	case ActionPush:
		push, err := parsePushOptions(inputs, logger)
		if err != nil {
			return nil, err
		}
		opts.Push = push
		if !push.Key.IsSet() {
			opts.KeySecret = inputs.Get("butler_key_secret")
		}
	default:
		return nil, errors.Newf(errors.CodeInvalidConfig, "Unknown action argument used (%s)", opts.Action)
	}

	return opts, nil
}

func parsePushOptions(inputs InputSource, logger *slog.Logger) (*butler.PushOptions, error) {
	autoChannel, err := StringToBool(inputs.Get("auto_channel"), true)
	if err != nil {
		return nil, err
	}

	push := &butler.PushOptions{
		Key:         secrets.NewKey(inputs.Get("butler_key")),
		User:        inputs.Get("itch_user"),
		Game:        inputs.Get("itch_game"),
		Version:     inputs.Get("version"),
		AutoChannel: autoChannel,
		Files:       ParseFiles(inputs.Get("files"), logger),
	}

	hasKey := push.Key.IsSet() || inputs.Get("butler_key_secret") != ""
	if !hasKey || push.User == "" || push.Game == "" {
		return nil, errors.Newf(errors.CodeInvalidConfig,
			"One of the following keys is required but not set: butler_key (%s), itch_user (%s), itch_game (%s).",
			push.Key, push.User, push.Game)
	}
	return push, nil
}
