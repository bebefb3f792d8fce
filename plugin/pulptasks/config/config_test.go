// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/pulptasks/pkg/confopt"
)

type recordLogger struct {
	infos    []string
	warnings []string
}

func (l *recordLogger) Infof(format string, a ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, a...))
}

func (l *recordLogger) Warningf(format string, a ...any) {
	l.warnings = append(l.warnings, fmt.Sprintf(format, a...))
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Host)
	assert.Equal(t, "monitoring-user", cfg.User)
	assert.Equal(t, "msecret", cfg.Password)
	assert.False(t, cfg.Verbose)
	assert.True(t, cfg.TLSSkipVerify)
	assert.Equal(t, confopt.Duration(time.Second*5), cfg.Timeout)
	assert.Equal(t, 10, cfg.UpdateEvery)
}

func TestLoad(t *testing.T) {
	tests := map[string]struct {
		path         string
		wantErr      bool
		wantCfg      Config
		wantWarnings []string
		wantInfos    []string
	}{
		"full config": {
			path: "testdata/config.yaml",
			wantCfg: Config{
				Host:          "pulp.example.com",
				User:          "monitor",
				Password:      "s3cret",
				Verbose:       true,
				TLSSkipVerify: false,
				TLSCA:         "/etc/pki/pulp/ca.crt",
				Timeout:       confopt.Duration(time.Second * 3),
				UpdateEvery:   30,
				ProxyURL:      "http://proxy.example.com:3128",
				ProxyUser:     "squid",
				ProxyPassword: "p4ss",
				ForceHTTP2:    true,
				Headers:       map[string]string{"X-Request-Source": "netdata"},
			},
			wantInfos: []string{"configured with host=pulp.example.com, user=monitor"},
		},
		"unknown key": {
			path: "testdata/unknown_key.yaml",
			wantCfg: func() Config {
				cfg := Default()
				cfg.Host = "pulp.example.com"
				return cfg
			}(),
			wantWarnings: []string{"unknown config key: Foo"},
		},
		"missing file": {
			path:    "testdata/does_not_exist.yaml",
			wantCfg: Default(),
		},
		"empty path": {
			path:    "",
			wantCfg: Default(),
		},
		"malformed file": {
			path:    "testdata/malformed.yaml",
			wantErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var log recordLogger

			cfg, err := Load(test.path, &log)

			if test.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.wantCfg, cfg)
			assert.Equal(t, test.wantWarnings, log.warnings)
			assert.Equal(t, test.wantInfos, log.infos)
		})
	}
}

func TestLoad_Directory(t *testing.T) {
	_, err := Load(filepath.Join("testdata"), &recordLogger{})

	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	tests := map[string]struct {
		input        string
		check        func(t *testing.T, cfg Config)
		wantWarnings int
	}{
		"empty document": {
			input: "",
			check: func(t *testing.T, cfg Config) { assert.Equal(t, Default(), cfg) },
		},
		"unknown key keeps previously set values": {
			input: "Host: pulp1\nFoo: 1\nUser: admin\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "pulp1", cfg.Host)
				assert.Equal(t, "admin", cfg.User)
				assert.Equal(t, "msecret", cfg.Password)
				assert.False(t, cfg.Verbose)
			},
			wantWarnings: 1,
		},
		"keys are case sensitive": {
			input: "host: pulp1\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "localhost", cfg.Host)
			},
			wantWarnings: 1,
		},
		"later key wins": {
			input: "Host: pulp1\nHost: pulp2\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "pulp2", cfg.Host)
			},
		},
		"numeric password": {
			input: "Password: 12345\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "12345", cfg.Password)
			},
		},
		"verbose as number": {
			input: "Verbose: 1\n",
			check: func(t *testing.T, cfg Config) { assert.True(t, cfg.Verbose) },
		},
		"verbose as quoted string": {
			input: "Verbose: \"on\"\n",
			check: func(t *testing.T, cfg Config) { assert.True(t, cfg.Verbose) },
		},
		"verbose false": {
			input: "Verbose: false\n",
			check: func(t *testing.T, cfg Config) { assert.False(t, cfg.Verbose) },
		},
		"invalid verbose keeps previous value": {
			input: "Verbose: true\nVerbose: maybe\n",
			check: func(t *testing.T, cfg Config) { assert.True(t, cfg.Verbose) },
			wantWarnings: 1,
		},
		"timeout in seconds": {
			input: "Timeout: 2\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, confopt.Duration(time.Second*2), cfg.Timeout)
			},
		},
		"invalid timeout": {
			input: "Timeout: -1s\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, Default().Timeout, cfg.Timeout)
			},
			wantWarnings: 1,
		},
		"invalid update every": {
			input: "UpdateEvery: 0\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, 10, cfg.UpdateEvery)
			},
			wantWarnings: 1,
		},
		"empty host keeps previous value": {
			input: "Host:\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "localhost", cfg.Host)
			},
			wantWarnings: 1,
		},
		"empty password keeps previous value": {
			input: "Password: ~\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "msecret", cfg.Password)
			},
			wantWarnings: 1,
		},
		"quoted empty host is accepted": {
			input: "Host: \"\"\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "", cfg.Host)
			},
		},
		"proxy settings": {
			input: "ProxyURL: http://10.0.0.1:3128\nProxyUser: squid\nProxyPassword: 1234\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "http://10.0.0.1:3128", cfg.ProxyURL)
				assert.Equal(t, "squid", cfg.ProxyUser)
				assert.Equal(t, "1234", cfg.ProxyPassword)
			},
		},
		"proxy URL without scheme": {
			input: "ProxyURL: 10.0.0.1:3128\n",
			check: func(t *testing.T, cfg Config) {
				assert.Empty(t, cfg.ProxyURL)
			},
			wantWarnings: 1,
		},
		"force http2": {
			input: "ForceHTTP2: on\n",
			check: func(t *testing.T, cfg Config) { assert.True(t, cfg.ForceHTTP2) },
		},
		"headers": {
			input: "Headers:\n  X-Token: abc\n  X-Retries: 3\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, map[string]string{"X-Token": "abc", "X-Retries": "3"}, cfg.Headers)
			},
		},
		"headers are merged": {
			input: "Headers:\n  X-Token: abc\nHeaders:\n  X-Other: def\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, map[string]string{"X-Token": "abc", "X-Other": "def"}, cfg.Headers)
			},
		},
		"headers not a mapping": {
			input: "Headers: X-Token\n",
			check: func(t *testing.T, cfg Config) { assert.Nil(t, cfg.Headers) },
			wantWarnings: 1,
		},
		"header without value": {
			input: "Headers:\n  X-Token: abc\nHeaders:\n  X-Empty:\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, map[string]string{"X-Token": "abc"}, cfg.Headers)
			},
			wantWarnings: 1,
		},
		"non scalar host": {
			input: "Host:\n  - a\n  - b\n",
			check: func(t *testing.T, cfg Config) {
				assert.Equal(t, "localhost", cfg.Host)
			},
			wantWarnings: 1,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var log recordLogger

			cfg, err := Parse([]byte(test.input), &log)
			require.NoError(t, err)

			test.check(t, cfg)
			assert.Len(t, log.warnings, test.wantWarnings)
		})
	}
}

func TestParse_VerboseGatesInfo(t *testing.T) {
	tests := map[string]struct {
		input     string
		wantInfos int
	}{
		"verbose on":  {input: "Verbose: true\n", wantInfos: 1},
		"verbose off": {input: "Verbose: false\n", wantInfos: 0},
		"default":     {input: "Host: pulp\n", wantInfos: 0},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var log recordLogger

			_, err := Parse([]byte(test.input), &log)
			require.NoError(t, err)

			assert.Len(t, log.infos, test.wantInfos)
		})
	}
}

func TestConfig_HTTPConfig(t *testing.T) {
	cfg := Default()
	cfg.Host = "pulp.example.com:8443"
	cfg.TLSCA = "/tmp/ca.pem"
	cfg.ProxyURL = "http://proxy:3128"
	cfg.ProxyUser = "squid"
	cfg.ProxyPassword = "p4ss"
	cfg.ForceHTTP2 = true
	cfg.Headers = map[string]string{"X-Token": "abc"}

	hc := cfg.HTTPConfig()

	assert.Equal(t, "https://pulp.example.com:8443", hc.URL)
	assert.Equal(t, "monitoring-user", hc.Username)
	assert.Equal(t, "msecret", hc.Password)
	assert.True(t, hc.InsecureSkipVerify)
	assert.Equal(t, "/tmp/ca.pem", hc.TLSCA)
	assert.Equal(t, cfg.Timeout, hc.Timeout)
	assert.Equal(t, "http://proxy:3128", hc.ProxyURL)
	assert.Equal(t, "squid", hc.ProxyUsername)
	assert.Equal(t, "p4ss", hc.ProxyPassword)
	assert.True(t, hc.ForceHTTP2)
	assert.Equal(t, map[string]string{"X-Token": "abc"}, hc.Headers)
}
