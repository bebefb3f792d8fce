// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	"context"
	"errors"

	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/config"
)

type Logger interface {
	Infof(format string, a ...any)
	Warningf(format string, a ...any)
	Errorf(format string, a ...any)
}

var errNoData = errors.New("empty task list")

var trackedFields = []string{RunningTasks, WaitingTasks}

// ReadCycle runs one fetch, classify and report pass.
// It returns the counts it reported, or nil when nothing was received.
// In that case a sink implementing Resetter is reset.
func ReadCycle(ctx context.Context, cfg config.Config, fetcher Fetcher, sink MetricsSink, log Logger) Counts {
	if cfg.Verbose {
		log.Infof("read callback called")
	}

	tasks, err := fetcher.FetchTasks(ctx)
	if err == nil && len(tasks) == 0 {
		err = errNoData
	}
	if err != nil {
		log.Errorf("no info received: %v", err)
		if r, ok := sink.(Resetter); ok {
			r.Reset()
		}
		return nil
	}

	counts := Classify(tasks)

	rep := NewReporter(sink, log, cfg.Verbose)
	for _, field := range trackedFields {
		rep.Report(counts, field)
	}

	return counts
}
