package version

import (
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func withBuildVars(t *testing.T, version, commit, built string) {
	t.Helper()
	oldVersion, oldCommit, oldBuilt := Version, GitCommit, BuildTime
	Version, GitCommit, BuildTime = version, commit, built
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = oldVersion, oldCommit, oldBuilt
	})
}

func TestGetShortVersion(t *testing.T) {
	tests := []struct {
		name    string
		version string
		commit  string
		want    string
	}{
		{"release with commit", "v1.2.0", "abc1234def", "v1.2.0 (abc1234)"},
		{"release short commit", "v1.2.0", "abc", "v1.2.0"},
		{"dev with commit", "dev", "abc1234def", "dev-abc1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withBuildVars(t, tt.version, tt.commit, "unknown")
			assert.Equal(t, tt.want, GetShortVersion())
		})
	}
}

func TestGetBuildInfo(t *testing.T) {
	withBuildVars(t, "v0.3.0", "0123456789", "2026-01-02T03:04:05Z")

	info := GetBuildInfo()
	assert.Equal(t, "v0.3.0", info.Version)
	assert.Equal(t, "0123456789", info.GitCommit)
	assert.Equal(t, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), info.BuildTime.UTC())
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Equal(t, runtime.GOOS+"/"+runtime.GOARCH, info.Platform)
}

func TestGetDetailedVersion(t *testing.T) {
	withBuildVars(t, "v0.3.0", "0123456789", "2026-01-02 03:04:05")

	lines := strings.Split(GetDetailedVersion(), "\n")
	assert.Equal(t, "Version: v0.3.0", lines[0])
	assert.Equal(t, "Commit: 0123456789", lines[1])
	assert.Equal(t, "Built: 2026-01-02T03:04:05Z", lines[2])
	assert.Contains(t, lines, "Go: "+runtime.Version())
}

func TestParseBuildTime(t *testing.T) {
	assert.True(t, parseBuildTime("unknown").IsZero())
	assert.True(t, parseBuildTime("").IsZero())
	assert.True(t, parseBuildTime("yesterday").IsZero())
	assert.False(t, parseBuildTime("2026-01-02T03:04:05").IsZero())
}
