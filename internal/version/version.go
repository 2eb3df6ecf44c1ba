// Package version holds build metadata injected with -ldflags, e.g.
// -X github.com/felixgeelhaar/todo/internal/version.Version=v1.2.0.
package version

var (
	// Version is set during build
	Version = "dev"
	// Commit is set during build
	Commit = "none"
	// BuildDate is set during build
	BuildDate = "unknown"
)
