// Package version holds the build-time version variables for the tierguard
// binary. The zero values ("dev", "none", "unknown") are used for local builds.
package version

import "fmt"

// These variables are overridden with -ldflags -X at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the formatted version string printed by tierguard version.
func Info() string {
	return fmt.Sprintf(
		"tierguard version %s\ncommit: %s\nbuilt: %s\n",
		Version,
		Commit,
		Date,
	)
}
