// Package version reports the build version of gradient-transparency-fix.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time via -ldflags "-X bennypowers.dev/gtf/internal/version.Version=..."
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// readBuildInfo is replaced in tests
var readBuildInfo = debug.ReadBuildInfo

// Get returns the version: the ldflags value, else the module version the
// binary was installed at, else "dev"
func Get() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "dev"
}

// Full returns the version with commit and build time when known
func Full() string {
	v := Get()
	if GitCommit != "unknown" {
		v = fmt.Sprintf("%s (commit: %s)", v, GitCommit)
	}
	if BuildTime != "unknown" {
		v = fmt.Sprintf("%s built %s", v, BuildTime)
	}
	return v
}
