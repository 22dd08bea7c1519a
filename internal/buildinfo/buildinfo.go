// Package buildinfo holds version and build metadata stamped at compile time via ldflags.
package buildinfo

import (
	"fmt"
	"runtime"
	"time"
)

// These variables are set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	GitBranch = "unknown"
	BuildTime = "unknown"
)

var startTime = time.Now()

// Build is the version report served by /v1/version and printed by
// the version command.
type Build struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	GitBranch string `json:"git_branch"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	Uptime    string `json:"uptime"`
}

// Info returns the build and runtime report.
func Info() Build {
	return Build{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		Uptime:    Uptime().String(),
	}
}

// Fields returns the static build fields as label/value pairs, in
// display order. Uptime is left out.
func (b Build) Fields() [][2]string {
	return [][2]string{
		{"version", b.Version},
		{"git_commit", b.GitCommit},
		{"git_branch", b.GitBranch},
		{"build_time", b.BuildTime},
		{"go_version", b.GoVersion},
		{"os", b.OS},
		{"arch", b.Arch},
	}
}

// Uptime returns the duration since process start.
func Uptime() time.Duration {
	return time.Since(startTime).Truncate(time.Second)
}

// String returns a one-line summary for logging.
func String() string {
	return fmt.Sprintf("Foreman %s (%s@%s) built %s", Version, GitCommit, GitBranch, BuildTime)
}

// UserAgent is sent on every outbound provider request.
func UserAgent() string {
	return fmt.Sprintf("Foreman/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
