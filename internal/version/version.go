package version

import (
	"fmt"
	"runtime/debug"
	"time"
)

// Version and Commit are stamped by the release build:
//
//	go build -ldflags="-X github.com/muurk/pixelcfg/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/pixelcfg/internal/version.Commit=4f2c1ab" ./cmd/...
//
// Builds without ldflags fall back to the VCS stamp in the binary's build
// info, then to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
)

func init() {
	if Version == "" || Commit == "" {
		if info, ok := debug.ReadBuildInfo(); ok {
			applyBuildInfo(info)
		}
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// applyBuildInfo fills Version and Commit from the VCS settings go build
// embeds when run inside a git checkout. A module version other than
// "(devel)" wins for Version, as with go install pkg@v0.3.0.
func applyBuildInfo(info *debug.BuildInfo) {
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}

	if Commit == "" {
		if rev := settings["vcs.revision"]; rev != "" {
			if len(rev) > 7 {
				rev = rev[:7]
			}
			if settings["vcs.modified"] == "true" {
				rev += "-dirty"
			}
			Commit = rev
		}
	}

	if Version != "" {
		return
	}
	if v := info.Main.Version; v != "" && v != "(devel)" {
		Version = v
		return
	}
	if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
		Version = "dev-" + t.UTC().Format("20060102")
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}
