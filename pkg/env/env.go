package env

import (
	"fmt"
	"net/http"

	"github.com/carlmjohnson/versioninfo"
)

const unset = "unset"

// Build version, as reported by /version and the health check. Set by binaries at startup.
var Version = unset

// Fills [Version] from the embedded VCS build info, unless it was already set (eg, with -ldflags).
func SetVersionFromBuildInfo() {
	if Version == unset {
		Version = versioninfo.Short()
	}
}

func VersionHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "%s\n", Version) // nolint:errcheck
}

func IsProd() bool {
	return Version != unset
}
