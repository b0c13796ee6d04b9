// Package version reports build information for widgetd.
//
// The variables are set at link time:
//
//	go build -ldflags "-X github.com/jmylchreest/widgetd/internal/version.Version=1.4.0 \
//	                   -X github.com/jmylchreest/widgetd/internal/version.Commit=$(git rev-parse HEAD) \
//	                   -X github.com/jmylchreest/widgetd/internal/version.Date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
package version

import (
	"fmt"
	"runtime"
	"strings"
)

// Link-time variables.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// ApplicationName is the canonical name of this application.
const ApplicationName = "widgetd"

const shortCommitLen = 8

// Info is the build information served by `widgetd version --json` and the
// health endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

// GetInfo collects the current build information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// ShortCommit is the abbreviated commit, or "" when unknown.
func (i Info) ShortCommit() string {
	if i.Commit == "unknown" || len(i.Commit) < shortCommitLen {
		return ""
	}
	return i.Commit[:shortCommitLen]
}

// String is the long form printed by `widgetd version`.
func (i Info) String() string {
	if c := i.ShortCommit(); c != "" {
		return fmt.Sprintf("%s %s (commit %s, built %s, %s, %s)",
			ApplicationName, i.Version, c, i.Date, i.GoVersion, i.Platform)
	}
	return fmt.Sprintf("%s %s (%s, %s)", ApplicationName, i.Version, i.GoVersion, i.Platform)
}

// Short is used for the root command's --version flag.
func Short() string {
	if c := GetInfo().ShortCommit(); c != "" {
		return fmt.Sprintf("%s (%s)", Version, c)
	}
	return Version
}

// UserAgent identifies outbound requests, e.g. to the weather provider.
func UserAgent() string {
	return ApplicationName + "/" + Version
}

// IsRelease reports whether this is a tagged build rather than a dev or
// snapshot build.
func IsRelease() bool {
	return Version != "dev" && !strings.Contains(Version, "-SNAPSHOT")
}
