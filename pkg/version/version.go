// Package version carries build metadata injected at link time:
//
//	-X 'github.com/mochibot/mochibot/pkg/version.Version=v1.0.0'
//	-X 'github.com/mochibot/mochibot/pkg/version.CommitHash=abc123'
//	-X 'github.com/mochibot/mochibot/pkg/version.BuildDate=2024-01-01T00:00:00Z'
package version

var (
	// Version is the semantic version of the binary.
	Version = "unknown"
	// CommitHash is the git commit the binary was built from.
	CommitHash = "unknown"
	// BuildDate is the build timestamp in RFC3339 format.
	BuildDate = "unknown"
)

// Info is the structured form of the build metadata.
type Info struct {
	Version    string `json:"version"`
	CommitHash string `json:"commit_hash"`
	BuildDate  string `json:"build_date"`
}

// Get returns the current build information.
func Get() Info {
	return Info{
		Version:    Version,
		CommitHash: CommitHash,
		BuildDate:  BuildDate,
	}
}
