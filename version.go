package jpegcaption

import "runtime"

// Version is the semantic version of the jpegcaption library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo contains detailed version information.
type VersionInfo struct {
	Version   string
	GitCommit string // set via -ldflags
	BuildTime string // set via -ldflags
	GoVersion string
}

// GetVersionInfo returns detailed version information.
//
// Build metadata is injected with -ldflags, for example:
//
//	go build -ldflags="-X github.com/simonhull/jpegcaption.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/jpegcaption.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// Unset fields read "unknown"; GoVersion falls back to the running toolchain.
func GetVersionInfo() VersionInfo {
	goVer := goVersion
	if goVer == "unknown" {
		goVer = runtime.Version()
	}

	return VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: goVer,
	}
}

var (
	gitCommit = "unknown"
	buildTime = "unknown"
	goVersion = "unknown"
)
