// Package version exposes build information injected with -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

// Build information, set with
// -ldflags "-X github.com/Sumatoshi-tech/bindinfo/pkg/version.Version=v1.2.3 ...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const revisionKey = "vcs.revision"

// String returns a one-line description of the running binary.
func String() string {
	return fmt.Sprintf("bindinfo %s (commit: %s, built: %s)", Version, Commit, Date)
}

// InitBinaryVersion fills Version and Commit from the embedded module build
// info when they were not set at link time.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	applyBuildInfo(info)
}

func applyBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	if Commit != "none" {
		return
	}

	for _, setting := range info.Settings {
		if setting.Key == revisionKey && setting.Value != "" {
			Commit = setting.Value
		}
	}
}
