// Package buildinfo provides build-time version information for stackscope.
//
// Release builds set the variables via ldflags:
//
//	go build -ldflags "-X github.com/matzehuels/stackscope/pkg/buildinfo.Version=v1.0.0 \
//	    -X github.com/matzehuels/stackscope/pkg/buildinfo.Commit=$(git rev-parse HEAD) \
//	    -X github.com/matzehuels/stackscope/pkg/buildinfo.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/stackscope
//
// Builds without ldflags report "dev".
package buildinfo

import "fmt"

var (
	// Version is the semantic version (e.g., "v1.2.3").
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// Template returns the version template used by "stackscope --version".
func Template() string {
	return fmt.Sprintf("{{.Name}} version %s\ncommit: %s\nbuilt: %s\n", Version, Commit, Date)
}
