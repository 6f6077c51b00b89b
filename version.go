package mailer

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// Version information for the library.
// These values are injected during build time via ldflags.
// The values below are fallbacks for development builds.
var (
	// Version is the semantic version of the library.
	Version = "dev"

	// GitCommit is the git commit hash when the binary was built.
	GitCommit = "unknown"

	// BuildDate is the date when the binary was built.
	BuildDate = "unknown"
)

// VersionInfo contains detailed version information.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// GetVersionInfo returns detailed version information, filling in VCS data
// from the runtime build info when ldflags left the fallbacks in place.
func GetVersionInfo() *VersionInfo {
	info := &VersionInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	if buildInfo, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range buildInfo.Settings {
			switch setting.Key {
			case "vcs.revision":
				if info.GitCommit == "unknown" {
					info.GitCommit = setting.Value
				}
			case "vcs.time":
				if info.BuildDate == "unknown" {
					info.BuildDate = setting.Value
				}
			case "vcs.modified":
				if setting.Value == "true" && !strings.HasSuffix(info.GitCommit, "-dirty") {
					info.GitCommit += "-dirty"
				}
			}
		}
	}

	return info
}

// String returns a human-readable version string.
func (v *VersionInfo) String() string {
	parts := []string{fmt.Sprintf("Version: %s", v.Version)}

	if v.GitCommit != "unknown" && v.GitCommit != "" {
		parts = append(parts, fmt.Sprintf("Commit: %s", v.GitCommit))
	}
	if v.BuildDate != "unknown" && v.BuildDate != "" {
		parts = append(parts, fmt.Sprintf("Built: %s", v.BuildDate))
	}
	parts = append(parts, fmt.Sprintf("Go: %s", v.GoVersion))
	parts = append(parts, fmt.Sprintf("Platform: %s", v.Platform))

	return strings.Join(parts, ", ")
}

// UserAgent returns a user agent string for HTTP requests.
func (v *VersionInfo) UserAgent() string {
	return fmt.Sprintf("opportunity-mailer/%s (%s)", v.Version, v.Platform)
}
