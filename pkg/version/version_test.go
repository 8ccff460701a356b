package version

import (
	"runtime/debug"
	"testing"

	"github.com/stretchr/testify/assert"
)

//nolint:paralleltest // mutates package-level build variables
func TestApplyBuildInfo(t *testing.T) {
	oldVersion, oldCommit := Version, Commit

	t.Cleanup(func() { Version, Commit = oldVersion, oldCommit })

	Version, Commit = "dev", "none"

	applyBuildInfo(&debug.BuildInfo{
		Main:     debug.Module{Version: "v0.3.0"},
		Settings: []debug.BuildSetting{{Key: "vcs.revision", Value: "abc123"}},
	})

	assert.Equal(t, "v0.3.0", Version)
	assert.Equal(t, "abc123", Commit)
	assert.Contains(t, String(), "bindinfo v0.3.0 (commit: abc123")

	Version, Commit = "v9.9.9", "pinned"

	applyBuildInfo(&debug.BuildInfo{Main: debug.Module{Version: "(devel)"}})

	assert.Equal(t, "v9.9.9", Version)
	assert.Equal(t, "pinned", Commit)
}
