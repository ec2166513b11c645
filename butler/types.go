package butler

import (
	"regexp"
	"strings"

	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/secrets"
)

var channelNameRe = regexp.MustCompile(`^[a-z0-9-]+$`)

// FilePattern pairs a glob pattern with an optional explicit channel.
type FilePattern struct {
	// Channel is the explicit channel, or "" to let the file name decide.
	Channel string
	// Pattern is a glob relative to the working directory.
	Pattern string
}

// Validate checks the pattern is non-empty and the channel well formed.
func (p FilePattern) Validate() error {
	if strings.TrimSpace(p.Pattern) == "" {
		return errors.NewWithContext(errors.CodeInvalidInput, "file pattern is empty",
			map[string]interface{}{"channel": p.Channel})
	}
	if p.Channel != "" && !channelNameRe.MatchString(p.Channel) {
		return errors.NewWithContext(errors.CodeInvalidInput, "invalid channel name",
			map[string]interface{}{"channel": p.Channel, "pattern": p.Pattern})
	}
	return nil
}

// ResolvedFile is a matched file and the channel it is pushed to.
// An empty Channel means the file is pushed without a channel.
type ResolvedFile struct {
	Path    string
	Channel string
}

// Plan is the outcome of resolving push options against a filesystem.
type Plan struct {
	// Channeled holds one file per channel, in assignment order.
	Channeled []ResolvedFile
	// Channelless holds the files without a channel, in match order.
	Channelless []ResolvedFile
}

// Files returns the channeled files followed by the channelless ones. This
// is the order in which uploads are started.
func (p *Plan) Files() []ResolvedFile {
	out := make([]ResolvedFile, 0, len(p.Channeled)+len(p.Channelless))
	out = append(out, p.Channeled...)
	return append(out, p.Channelless...)
}

// PushOptions configures a push.
type PushOptions struct {
	Key         secrets.Key
	User        string
	Game        string
	Version     string
	AutoChannel bool
	Files       []FilePattern
}

// InstallOptions configures the butler installation.
type InstallOptions struct {
	// Source is the base URL of the distribution server.
	Source string
	// Version is "latest", "head" or a semantic version.
	Version        string
	CheckSignature bool
	UpdatePath     bool
}

// PushJob is a single upload handed to a butler subprocess.
type PushJob struct {
	Key     secrets.Key
	User    string
	Game    string
	Version string
	Channel string
	File    string
}

// Target returns "<user>/<game>" with ":<channel>" appended when a channel
// is set.
func (j PushJob) Target() string {
	target := j.User + "/" + j.Game
	if j.Channel != "" {
		target += ":" + j.Channel
	}
	return target
}

// Args returns the butler command line for the job.
func (j PushJob) Args() []string {
	args := []string{"push", j.File, j.Target()}
	if j.Version != "" {
		args = append(args, "--userversion", j.Version)
	}
	return args
}
