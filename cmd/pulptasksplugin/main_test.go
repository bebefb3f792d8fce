// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netdata/netdata/go/pulptasks/logger"
	"github.com/netdata/netdata/go/pulptasks/pkg/filelock"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/cli"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/sink"
)

func TestRun_Once(t *testing.T) {
	tests := map[string]struct {
		body      string
		verbose   bool
		wantCode  int
		wantLog   string
		unwantLog string
	}{
		"tasks": {
			body:      `[{"state":"running"},{"state":"waiting"},{"state":"queued"}]`,
			wantCode:  0,
			unwantLog: "reachable",
		},
		"no tasks": {
			body:     `[]`,
			wantCode: 1,
		},
		"verbose reports reachable server": {
			body:     `[{"state":"running"}]`,
			verbose:  true,
			wantCode: 0,
			wantLog:  "is reachable",
		},
		"verbose reports unreachable server": {
			body:     `[]`,
			verbose:  true,
			wantCode: 1,
			wantLog:  "is not reachable",
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(test.body))
			}))
			defer srv.Close()

			dir := t.TempDir()
			cfgFile := filepath.Join(dir, "pulp_tasks.conf")
			cfgData := "Host: " + strings.TrimPrefix(srv.URL, "https://") + "\nTimeout: 2s\n"
			if test.verbose {
				cfgData += "Verbose: true\n"
			}
			require.NoError(t, os.WriteFile(cfgFile, []byte(cfgData), 0o644))

			opts := &cli.Option{UpdateEvery: 1, ConfigFile: cfgFile, LockDir: dir, Once: true}

			var out strings.Builder
			assert.Equal(t, test.wantCode, run(opts, logger.NewWithWriter(&out)))
			if test.wantLog != "" {
				assert.Contains(t, out.String(), test.wantLog)
			}
			if test.unwantLog != "" {
				assert.NotContains(t, out.String(), test.unwantLog)
			}
		})
	}
}

func TestRun_InstanceLocked(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "pulp_tasks.conf")
	require.NoError(t, os.WriteFile(cfgFile, []byte("Host: pulp.example.com\n"), 0o644))

	other := filelock.New(dir)
	ok, err := other.Lock("pulp.example.com")
	require.NoError(t, err)
	require.True(t, ok)
	defer other.UnlockAll()

	opts := &cli.Option{UpdateEvery: 1, ConfigFile: cfgFile, LockDir: dir, Once: true}

	var out strings.Builder
	assert.Equal(t, 0, run(opts, logger.NewWithWriter(&out)))
	assert.Contains(t, out.String(), "another instance is already polling")
}

func TestRun_MalformedConfig(t *testing.T) {
	cfgFile := filepath.Join(t.TempDir(), "pulp_tasks.conf")
	require.NoError(t, os.WriteFile(cfgFile, []byte("Host: [oops\n"), 0o644))

	opts := &cli.Option{UpdateEvery: 1, ConfigFile: cfgFile, Once: true}

	assert.Equal(t, 1, run(opts, logger.NewWithWriter(&strings.Builder{})))
}

func TestNewMetricsServer(t *testing.T) {
	reg := prometheus.NewRegistry()
	ps, err := sink.NewPrometheus(reg)
	require.NoError(t, err)
	require.NoError(t, ps.Dispatch(collector.Metric{Plugin: "pulp-tasks", Type: "gauge", TypeInstance: "running_tasks", Value: 2}))

	srv := newMetricsServer(":0", reg)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `pulp_tasks_value{type="gauge",type_instance="running_tasks"} 2`)
}
