// Package version provides information about the build version of the service.
package version

// Service is the API's service name in logs, meta endpoints and the docs
const Service = "bottlescan-api"

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are set at build time:
//
//	-ldflags "-X 'bottlescan/internal/core/version.version=v0.1.0' -X 'bottlescan/internal/core/version.commit=abcd'"
func Info() BuildInfo {
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
