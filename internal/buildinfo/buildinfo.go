package buildinfo

import "strings"

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// Short returns a compact build identifier for logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Banner returns the boot text shown on the panel. The panel font has no
// V, so the dev fallback stays off it and version tags shed their v
// prefix; long commit hashes are clipped so the banner fits one scroll.
func Banner() string {
	id := strings.ToUpper(strings.TrimPrefix(Short(), "v"))
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "DEV" {
		return "GLINT"
	}
	return "GLINT " + id
}
