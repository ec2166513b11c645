package butler

import (
	"fmt"
	"log/slog"

	"github.com/input-output-hk/catalyst-forge-libs/butler/channel"
	"github.com/input-output-hk/catalyst-forge-libs/butler/errors"
	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// buckets groups matched files by explicit channel, keeping the order in
// which channels were first seen.
type buckets struct {
	keys  []string
	files map[string][]string
}

func (b *buckets) add(key string, paths ...string) {
	if b.files == nil {
		b.files = make(map[string][]string)
	}
	if _, ok := b.files[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.files[key] = append(b.files[key], paths...)
}

// Resolve expands the file patterns of opts against fsys and assigns every
// matched file a channel.
//
// A pattern matching no file and two files claiming the same channel are
// errors. Files left without a channel are kept and reported at error level.
func Resolve(fsys fs.Filesystem, opts PushOptions, logger *slog.Logger) (*Plan, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var groups buckets
	for _, p := range opts.Files {
		if err := p.Validate(); err != nil {
			return nil, err
		}

		matches, err := fsys.Glob(p.Pattern)
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeInvalidInput, "invalid file pattern",
				map[string]interface{}{"channel": p.Channel, "pattern": p.Pattern})
		}
		if len(matches) == 0 {
			return nil, errors.Newf(errors.CodeNotFound, "Could not find any file with: %s %s", p.Channel, p.Pattern)
		}
		groups.add(p.Channel, matches...)
	}

	plan := &Plan{}
	assigned := make(map[string]string)
	for _, key := range groups.keys {
		for _, file := range groups.files[key] {
			ch := key
			if ch == "" && opts.AutoChannel {
				ch = channel.Detect(file)
			}

			if ch == "" {
				logger.Info(fmt.Sprintf("The file %s will be pushed without a channel.", file))
				logger.Error(fmt.Sprintf("Files should not be pushed without a channel, but this one will: %s", file))
				plan.Channelless = append(plan.Channelless, ResolvedFile{Path: file})
				continue
			}

			if previous, ok := assigned[ch]; ok {
				return nil, errors.NewWithContext(errors.CodeConflict,
					fmt.Sprintf("Attempting to push more than one file on channel %s (current: %s, previous: %s)",
						ch, file, previous),
					map[string]interface{}{"channel": ch})
			}

			logger.Info(fmt.Sprintf("The file %s will be pushed to the channel %s.", file, ch))
			assigned[ch] = file
			plan.Channeled = append(plan.Channeled, ResolvedFile{Path: file, Channel: ch})
		}
	}

	return plan, nil
}
