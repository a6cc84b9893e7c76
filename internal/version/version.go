// Package version exposes build-time version information.
package version

import "fmt"

// Populated at build time via -ldflags. Defaults apply to local builds.
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Short returns the bare version string.
func Short() string {
	return Version
}

// Info returns a human-readable version line for the CLI.
func Info() string {
	return fmt.Sprintf("wifiwatch %s (commit %s, built %s)", Version, Commit, BuildDate)
}

// Map returns version fields for JSON responses.
func Map() map[string]string {
	return map[string]string{
		"version":    Version,
		"commit":     Commit,
		"build_date": BuildDate,
	}
}
