// Package version provides build-time version information.
package version

import "fmt"

// Set at build time with -ldflags "-X screen-translator/internal/version.Version=...".
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String returns the version line shown by --version and the About dialog.
func String() string {
	return fmt.Sprintf("%s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
