// SPDX-License-Identifier: GPL-3.0-or-later

package buildinfo

import (
	"fmt"
	"runtime"
)

// Version stores the plugin version number. It's set during the build process using build flags.
var Version = "v0.0.0"

// UserConfigDir stores the path to the user configuration directory.
// This value is set during the build process using build flags.
var UserConfigDir = "/etc/netdata"

// Info returns a one line summary of the build.
func Info() string {
	return fmt.Sprintf("version=%s, go=%s, os=%s, arch=%s", Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
