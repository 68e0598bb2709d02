// Package version reports build metadata injected with -ldflags.
package version

import "fmt"

// Set at build time:
//
//	-ldflags "-X github.com/pipemene/bluehome-os/internal/version.Commit=$(git rev-parse HEAD)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// String returns the version line printed by `bluehome --version`.
func String() string {
	return fmt.Sprintf("bluehome %s (commit: %s, built: %s)", Version, shortCommit(), BuildTime)
}

// UserAgent identifies the client on outbound requests.
func UserAgent() string {
	return "bluehome/" + Version
}

func shortCommit() string {
	if len(Commit) > 7 {
		return Commit[:7]
	}
	return Commit
}
