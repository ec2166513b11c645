package fstest

import (
	"reflect"
	"testing"

	"github.com/input-output-hk/catalyst-forge-libs/butler/fs"
)

// TestGlobFS tests Glob ordering, globstar, brace and dotfile rules.
func TestGlobFS(t *testing.T, filesystem fs.Filesystem, base string) {
	for _, name := range []string{
		"game-linux-x64.release.zip",
		"game_Mac_release.zip",
		"game.WIN.release.zip",
		"android-release.zip",
		"build/linux/x64/game-linux-x64.zip",
		"build/mac/x64/game-mac-x64.zip",
		"build/web/html5.zip",
		"build/.cache/stale.zip",
		".hidden-release.zip",
	} {
		if err := filesystem.WriteFile(join(base, name), []byte(name), 0o644); err != nil {
			t.Fatalf("WriteFile(%q): setup failed: %v", name, err)
		}
	}

	tests := []struct {
		pattern string
		want    []string
	}{
		{
			pattern: "*release.zip",
			want: []string{
				join(base, "android-release.zip"),
				join(base, "game-linux-x64.release.zip"),
				join(base, "game.WIN.release.zip"),
				join(base, "game_Mac_release.zip"),
			},
		},
		{
			pattern: "game*",
			want: []string{
				join(base, "game-linux-x64.release.zip"),
				join(base, "game.WIN.release.zip"),
				join(base, "game_Mac_release.zip"),
			},
		},
		{
			pattern: "game-linux-x64.release.zip",
			want:    []string{join(base, "game-linux-x64.release.zip")},
		},
		{
			pattern: "build/**/*.zip",
			want: []string{
				join(base, "build", "linux", "x64", "game-linux-x64.zip"),
				join(base, "build", "mac", "x64", "game-mac-x64.zip"),
				join(base, "build", "web", "html5.zip"),
			},
		},
		{
			pattern: "build/{linux,mac}/x64/*.zip",
			want: []string{
				join(base, "build", "linux", "x64", "game-linux-x64.zip"),
				join(base, "build", "mac", "x64", "game-mac-x64.zip"),
			},
		},
		{
			pattern: "build/.cache/*.zip",
			want:    []string{join(base, "build", ".cache", "stale.zip")},
		},
		{
			pattern: ".hidden-*",
			want:    []string{join(base, ".hidden-release.zip")},
		},
		{pattern: "qwerty-*"},
		{pattern: "missing-dir/**/*.zip"},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := filesystem.Glob(join(base, tt.pattern))
			if err != nil {
				t.Fatalf("Glob(%q): got error %v, want nil", tt.pattern, err)
			}
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Glob(%q): got %v, want %v", tt.pattern, got, tt.want)
			}
		})
	}
}
