// SPDX-License-Identifier: GPL-3.0-or-later

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jessevdk/go-flags"

	"github.com/netdata/netdata/go/pulptasks/pkg/buildinfo"
	"github.com/netdata/netdata/go/pulptasks/pkg/executable"
)

const configFileName = "pulp_tasks.conf"

// Option defines command line options.
type Option struct {
	UpdateEvery    int
	ConfigFile     string `short:"c" long:"config" description:"config file to read"`
	PrometheusAddr string `short:"l" long:"prometheus-listen" description:"address to serve Prometheus metrics on, e.g. ':9187'"`
	LockDir        string `long:"lock-dir" description:"directory for the single instance lock"`
	Once           bool   `long:"once" description:"run a single collection and exit"`
	Debug          bool   `short:"d" long:"debug" description:"debug mode"`
	Version        bool   `short:"v" long:"version" description:"display the version and exit"`
}

// Parse returns parsed command-line flags in Option struct
func Parse(args []string) (*Option, error) {
	opt := &Option{
		UpdateEvery: 1,
	}
	parser := flags.NewParser(opt, flags.Default)
	parser.Name = executable.Name
	parser.Usage = "[OPTIONS] [update every]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}

	if len(rest) > 1 {
		if opt.UpdateEvery, err = strconv.Atoi(rest[1]); err != nil {
			return nil, err
		}
		if opt.UpdateEvery < 1 {
			return nil, fmt.Errorf("update every must be positive, got %d", opt.UpdateEvery)
		}
	}

	return opt, nil
}

func IsHelp(err error) bool {
	return flags.WroteHelp(err)
}

// ConfigPath returns the configuration file to load.
// Without -c the file is looked up in the netdata user config directory.
func (o *Option) ConfigPath() string {
	if o.ConfigFile != "" {
		return o.ConfigFile
	}
	dir := os.Getenv("NETDATA_USER_CONFIG_DIR")
	if dir == "" {
		dir = buildinfo.UserConfigDir
	}
	return filepath.Join(dir, configFileName)
}
