// Package version reports what build of quotecard is running.
//
// Release builds stamp the variables with ldflags:
//
//	go build -ldflags "-X github.com/rickgao/quotecard/internal/version.Version=1.0.0 \
//	                   -X github.com/rickgao/quotecard/internal/version.Commit=$(git rev-parse --short HEAD) \
//	                   -X github.com/rickgao/quotecard/internal/version.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" \
//	    ./cmd/quotecard
//
// Unstamped builds fall back to the VCS settings the go tool embeds.
package version

import (
	"runtime/debug"
	"sync"
)

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// Info is the build information reported by the health endpoint.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"build_time"`
}

var readBuildInfo = sync.OnceValue(func() map[string]string {
	settings := make(map[string]string)
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			settings[s.Key] = s.Value
		}
	}
	return settings
})

// Get returns the stamped values, filling Commit and BuildTime from
// embedded VCS data when they were not stamped.
func Get() Info {
	info := Info{Version: Version, Commit: Commit, BuildTime: BuildTime}
	vcs := readBuildInfo()
	if info.Commit == "unknown" {
		if rev := vcs["vcs.revision"]; rev != "" {
			info.Commit = shortRev(rev)
			if vcs["vcs.modified"] == "true" {
				info.Commit += "-dirty"
			}
		}
	}
	if info.BuildTime == "unknown" && vcs["vcs.time"] != "" {
		info.BuildTime = vcs["vcs.time"]
	}
	return info
}

// String formats Get as "quotecard VERSION (COMMIT) built TIME".
func String() string {
	i := Get()
	return "quotecard " + i.Version + " (" + i.Commit + ") built " + i.BuildTime
}

func shortRev(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
