// Package version carries build metadata stamped in through -ldflags.
package version

import "fmt"

var (
	// Version is the release tag, "dev" for unstamped builds.
	Version = "dev"
	// GitSHA is the commit the binary was built from.
	GitSHA = "unknown"
	// BuildTime is the build timestamp.
	BuildTime = "unknown"
)

// String renders the one-line banner the binaries log at startup.
func String() string {
	return fmt.Sprintf("%s (%s, built %s)", Version, GitSHA, BuildTime)
}
