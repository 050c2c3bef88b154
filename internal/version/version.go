// Package version holds build metadata injected with -ldflags, e.g.
//
//	go build -ldflags "-X grid-ruler/internal/version.Version=1.2.0"
package version

var (
	// Version is the semantic version reported by --version.
	Version = "0.1.0"

	// BuildTime is the UTC build timestamp.
	BuildTime = "unknown"

	// GitCommit is the commit the binary was built from.
	GitCommit = "unknown"
)
