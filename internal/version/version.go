// Package version carries build metadata injected with -ldflags.
package version

import "fmt"

// Set with -ldflags "-X github.com/ZanzyTHEbar/phantom-scope/internal/version.Version=...".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String renders the full build identifier.
func String() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date)
}
