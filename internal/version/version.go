// Package version carries build metadata injected at link time.
package version

import "fmt"

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// GetVersion returns the semantic version, or "dev" for local builds.
func GetVersion() string { return version }

// GetCommit returns the VCS commit the binary was built from.
func GetCommit() string { return commit }

// GetDate returns the build date.
func GetDate() string { return date }

// String renders all build metadata on one line for startup logging.
func String() string {
	return fmt.Sprintf("version=%s commit=%s date=%s", version, commit, date)
}
