// Package buildinfo holds the version data stamped at link time with
// -ldflags "-X github.com/headsrooms/PlaywrightING/internal/buildinfo.Version=...".
package buildinfo

import "fmt"

var (
	// Version is the release tag.
	Version = "dev"
	// Commit is the source revision.
	Commit = "none"
	// Date is the build timestamp.
	Date = "unknown"
)

// String renders the line printed by --version.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
