package version

import (
	"runtime/debug"
	"sync"
)

// Header carries the dashboard version on every backend request.
const Header = "X-Ham-Version"

const versionDevel = "devel"

// version is set via ldflags at build time.
// falls back to debug.ReadBuildInfo for go install.
var version = versionDevel

var once sync.Once

func Get() string {
	once.Do(func() {
		if version != versionDevel {
			return
		}
		info, ok := debug.ReadBuildInfo()
		if !ok {
			return
		}
		if v := info.Main.Version; v != "" && v != "("+versionDevel+")" {
			version = v
		}
	})
	return version
}

// UserAgent is the User-Agent sent to the device backend.
func UserAgent() string {
	return "ham/" + Get()
}

func IsDevel() bool {
	return Get() == versionDevel
}
