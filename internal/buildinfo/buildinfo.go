// Package buildinfo carries version metadata stamped at link time with
// -ldflags "-X github.com/alignedworks/cvx/internal/buildinfo.Version=...".
package buildinfo

import (
	"fmt"
	"runtime"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

type Info struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Go      string `json:"go"`
}

func Get() Info {
	return Info{Version: Version, Commit: Commit, Date: Date, Go: runtime.Version()}
}

func String() string {
	return fmt.Sprintf("cvx %s (commit=%s, date=%s)", Version, Commit, Date)
}

// UserAgent identifies cvx to the platform API.
func UserAgent() string {
	return fmt.Sprintf("cvx/%s (%s/%s)", Version, runtime.GOOS, runtime.GOARCH)
}
