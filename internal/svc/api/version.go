// If you are AI: This file resolves the module version reported by /api/server.

package api

import (
	"runtime/debug"
)

// version returns the main module version from build info, or "devel".
func version() string {
	info, ok := debug.ReadBuildInfo()
	if !ok || info.Main.Version == "" || info.Main.Version == "(devel)" {
		return "devel"
	}
	return info.Main.Version
}
