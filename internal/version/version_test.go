package version

import (
	"runtime/debug"
	"testing"
)

func withVersion(t *testing.T, v, c string) {
	t.Helper()
	oldV, oldC := Version, Commit
	Version, Commit = v, c
	t.Cleanup(func() { Version, Commit = oldV, oldC })
}

func TestApplyBuildInfo(t *testing.T) {
	tests := []struct {
		name        string
		info        debug.BuildInfo
		wantVersion string
		wantCommit  string
	}{
		{
			name: "vcs stamp",
			info: debug.BuildInfo{
				Main: debug.Module{Version: "(devel)"},
				Settings: []debug.BuildSetting{
					{Key: "vcs.revision", Value: "4f2c1ab9e0d3"},
					{Key: "vcs.time", Value: "2026-03-14T09:30:00Z"},
					{Key: "vcs.modified", Value: "true"},
				},
			},
			wantVersion: "dev-20260314",
			wantCommit:  "4f2c1ab-dirty",
		},
		{
			name:        "module version",
			info:        debug.BuildInfo{Main: debug.Module{Version: "v0.3.0"}},
			wantVersion: "v0.3.0",
			wantCommit:  "",
		},
		{
			name:        "nothing",
			info:        debug.BuildInfo{},
			wantVersion: "",
			wantCommit:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withVersion(t, "", "")
			applyBuildInfo(&tt.info)
			if Version != tt.wantVersion || Commit != tt.wantCommit {
				t.Errorf("got %q/%q, want %q/%q", Version, Commit, tt.wantVersion, tt.wantCommit)
			}
		})
	}
}

func TestApplyBuildInfoKeepsLdflags(t *testing.T) {
	withVersion(t, "v1.0.0", "abc1234")
	applyBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.9.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "ffffffffff"}},
	})
	if Full() != "v1.0.0 (commit: abc1234)" {
		t.Errorf("Full() = %q", Full())
	}
}
