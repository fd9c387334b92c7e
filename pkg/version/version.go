package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "0.3.0"
	AppName   = "DetoxGate"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// Info contains versioning information
type Info struct {
	AppName    string            `json:"app_name"`
	Version    string            `json:"version"`
	BuildDate  string            `json:"build_date"`
	GitCommit  string            `json:"git_commit"`
	GoVersion  string            `json:"go_version"`
	Platform   string            `json:"platform"`
	Components map[string]string `json:"components,omitempty"`
}

// GetInfo returns version information
func GetInfo() Info {
	return Info{
		AppName:   AppName,
		Version:   Version,
		BuildDate: BuildDate,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// WithComponents attaches per-component versions, e.g. the analysis scorers.
func (i Info) WithComponents(components map[string]string) Info {
	i.Components = components
	return i
}
