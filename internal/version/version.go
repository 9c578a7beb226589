// Package version reports the gostep build. Values are set with -ldflags.
package version

import (
	"fmt"
	"runtime/debug"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String returns the version, commit and build date on one line
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", resolved(), Commit, BuildDate)
}

// resolved falls back to the module version recorded by go install when
// no version was stamped at link time.
func resolved() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return Version
}
