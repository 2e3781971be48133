// Package misc keeps build identity helpers in one place so they could be
// overwritten during the build.
package misc

import "runtime/debug"

// Set by the linker during release builds.
var (
	appName = "rte"
	version = ""
	gitHash = ""
)

// GetAppName returns the short program name used for log files, temporary
// directories and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns the program version, falling back to module build info
// for plain "go build" binaries.
func GetVersion() string {
	if version != "" {
		return version
	}
	if bi, ok := debug.ReadBuildInfo(); ok && bi.Main.Version != "" {
		return bi.Main.Version
	}
	return "(devel)"
}

// GetGitHash returns the vcs revision recorded at build time.
func GetGitHash() string {
	if gitHash != "" {
		return gitHash
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" {
				return s.Value
			}
		}
	}
	return "unknown"
}
