package app

import (
	"fmt"
	"time"
)

// Version, Commit, and BuildTime are set via ldflags at build time.
// Example: go build -ldflags "-X github.com/nk2028/rime-dict-builder/internal/app.Version=1.0.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion returns a formatted version string for startup logs.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}

// DictionaryVersion returns the version written into dictionary headers:
// the configured value, or the local date of now when none is configured.
func DictionaryVersion(configured string, now time.Time) string {
	if configured != "" {
		return configured
	}
	return now.Local().Format(time.DateOnly)
}
