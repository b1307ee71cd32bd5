// Package buildinfo carries version details stamped in at link time:
//
//	go build -ldflags "-X github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo.Version=v1.0.0 \
//	  -X github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo.Commit=$(git rev-parse --short HEAD) \
//	  -X github.com/akashkottil/Flight-Tracker-V2-sub001/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package buildinfo

import "runtime"

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Info returns the build details plus the Go version, for /version and the
// health report.
func Info() map[string]string {
	return map[string]string{
		"version": Version,
		"commit":  Commit,
		"date":    Date,
		"go":      runtime.Version(),
	}
}
