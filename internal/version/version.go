// Package version exposes build metadata set via -ldflags.
package version

// Set at build time with:
//
//	go build -ldflags "-X github.com/sydlexius/gallery/internal/version.Version=v1.0.0 -X github.com/sydlexius/gallery/internal/version.Commit=abc1234"
var (
	Version = "dev"
	Commit  = "unknown"
)
