// Package version provides version information for practice-alerts.
package version

// Version is the version of practice-alerts. This can be overridden at build time using ldflags.
var Version = "development"

// Commit is the git commit hash. This can be overridden at build time using ldflags.
var Commit = "unknown"

// String returns the full version string including the commit hash if available.
// An empty commit, as left by a bare -X flag, counts as unknown.
func String() string {
	if Commit != "" && Commit != "unknown" {
		return Version + "+" + Commit
	}
	return Version
}
