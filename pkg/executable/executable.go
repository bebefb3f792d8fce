// SPDX-License-Identifier: GPL-3.0-or-later

package executable

import (
	"os"
	"path/filepath"
	"strings"
)

// Name is the plugin name derived from the executable file name
// ("pulp_tasks.plugin" becomes "pulp_tasks"). Test binaries keep the default.
var Name = "pulp_tasks"

func init() {
	if len(os.Args) == 0 || os.Args[0] == "" {
		return
	}
	name := filepath.Base(os.Args[0])
	name = strings.TrimSuffix(name, ".exe")
	if strings.HasSuffix(name, ".test") {
		return
	}
	if name = strings.TrimSuffix(name, ".plugin"); name != "" {
		Name = name
	}
}
