// Package buildinfo carries the version stamped into the binary.
//
// Release builds override the defaults through ldflags:
//
//	go build -ldflags "-X github.com/knaptrace/knaptrace/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/knaptrace/knaptrace/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/knaptrace/knaptrace/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// The version shows up in "knaptrace --version" and in the /healthz
// response of the HTTP server.
package buildinfo

import "fmt"

// Build metadata, overridden at link time for releases.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Template returns the cobra version template.
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
