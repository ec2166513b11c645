// Package channel infers itch.io release channels from artifact file names.
//
// A channel is composed of semantic tags (operating system, architecture,
// documentation or web builds) found as delimited tokens in the base name of
// a file, e.g. "game-linux-x64.release.zip" maps to "linux-x64".
package channel

import (
	"path/filepath"
	"regexp"
	"strings"
)

// Separator joins the tags of a composite channel.
const Separator = "-"

// rule matches a single tag against a file base name.
type rule struct {
	tag      string
	synonyms []string
	re       *regexp.Regexp
}

// rules is the ordered tag table. The order defines the order of tags in a
// composite channel.
var rules = newRules([]struct {
	tag      string
	synonyms []string
}{
	{"doc", []string{"doc", "docs", "documentation"}},
	{"web", []string{"web", "html", "html5"}},
	{"android", []string{"android", "mobile"}},
	{"linux", []string{"linux", "unix", "gnu"}},
	{"mac", []string{"mac", "macintosh", "macos", "macosx", "osx"}},
	{"windows", []string{"win", "windows", "xp"}},
	{"x32", []string{"x32"}},
	{"x64", []string{"x64"}},
})

func newRules(table []struct {
	tag      string
	synonyms []string
}) []rule {
	out := make([]rule, 0, len(table))
	for _, entry := range table {
		out = append(out, rule{
			tag:      entry.tag,
			synonyms: entry.synonyms,
			re:       regexp.MustCompile(`(?i)(^|[._-])(` + strings.Join(entry.synonyms, "|") + `)[._-]`),
		})
	}
	return out
}

// Tags returns the tags found in the base name of file, in table order.
func Tags(file string) []string {
	base := filepath.Base(file)

	var tags []string
	for _, r := range rules {
		if r.re.MatchString(base) {
			tags = append(tags, r.tag)
		}
	}
	return tags
}

// Detect returns the composite channel for file, or "" when no tag matches.
func Detect(file string) string {
	return strings.Join(Tags(file), Separator)
}
