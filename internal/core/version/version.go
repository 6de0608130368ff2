// Package version reports build metadata stamped at link time
package version

import "runtime/debug"

// BuildInfo holds version information about the build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Service is the name the API reports about itself
const Service = "linkmap-api"

// set via -ldflags "-X 'linkmap/internal/core/version.version=v0.1.0'
// -X 'linkmap/internal/core/version.commit=abcd' -X 'linkmap/internal/core/version.date=2026-01-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information. A dev build falls back to the vcs revision go embeds
func Info() BuildInfo {
	bi := BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
	if bi.Commit != "none" {
		return bi
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			switch s.Key {
			case "vcs.revision":
				bi.Commit = s.Value
			case "vcs.time":
				bi.Date = s.Value
			}
		}
	}
	return bi
}
