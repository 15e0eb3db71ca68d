// Where: internal/version/version.go
// What: Plugin release and build revision.
// Why: The release is registered as a config default; the revision is shown by the CLI.
package version

import (
	"fmt"
	"runtime/debug"
)

// Release is the plugin release registered under LEGACYFRONTENDS_VERSION.
const Release = "19.0.0"

// GetVersion returns the release followed by the VCS revision when build
// info carries one, optionally marked as dirty.
func GetVersion() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Release
	}

	var revision string
	var modified bool

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
			if len(revision) > 7 {
				revision = revision[:7]
			}
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}

	if revision == "" {
		return Release
	}
	if modified {
		return fmt.Sprintf("%s (%s, dirty)", Release, revision)
	}
	return fmt.Sprintf("%s (%s)", Release, revision)
}
