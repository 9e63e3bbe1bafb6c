// Package version reports how the running binary was built.
package version

import (
	"fmt"
	"runtime/debug"
)

// FromBuildInfo describes the main module version and, when the binary was
// built from a checkout, the VCS revision it came from.
func FromBuildInfo() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unavailable"
	}

	return describe(info)
}

func describe(info *debug.BuildInfo) (version string) {
	version = info.Main.Version
	if version == "" {
		version = "(devel)"
	}

	var revision, ts string

	modified := false

	for i := range info.Settings {
		switch info.Settings[i].Key {
		case "vcs.revision":
			revision = info.Settings[i].Value
		case "vcs.time":
			ts = info.Settings[i].Value
		case "vcs.modified":
			modified = info.Settings[i].Value == "true"
		default:
			continue
		}
	}

	if revision == "" {
		return version
	}

	if modified {
		revision += "-dirty"
	}

	if ts == "" {
		return fmt.Sprintf("%s, revision %s", version, revision)
	}

	return fmt.Sprintf("%s, revision %s at %s", version, revision, ts)
}
