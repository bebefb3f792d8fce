// SPDX-License-Identifier: GPL-3.0-or-later

// Package agent schedules the read cycles of a collector.
package agent

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/netdata/netdata/go/pulptasks/logger"
	"github.com/netdata/netdata/go/pulptasks/pkg/ticker"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
)

// Collector is a single read cycle.
type Collector interface {
	Collect(ctx context.Context) collector.Counts
	Cleanup(ctx context.Context)
}

type Config struct {
	Logger      *logger.Logger
	Collector   Collector
	UpdateEvery int
	// TickEvery is the clock resolution, one second unless set.
	TickEvery time.Duration
}

func New(cfg Config) *Agent {
	if cfg.UpdateEvery <= 0 {
		cfg.UpdateEvery = 1
	}
	if cfg.TickEvery <= 0 {
		cfg.TickEvery = time.Second
	}
	log := cfg.Logger
	if log == nil {
		log = logger.New()
	}

	return &Agent{
		Logger:      log.With(slog.String("component", "agent")),
		collector:   cfg.Collector,
		updateEvery: cfg.UpdateEvery,
		tickEvery:   cfg.TickEvery,
		tick:        make(chan int),
	}
}

// Agent runs a collector every UpdateEvery ticks.
// A tick that arrives while the previous cycle is still running is dropped.
type Agent struct {
	*logger.Logger

	collector   Collector
	updateEvery int
	tickEvery   time.Duration

	tick chan int
}

// Run blocks until ctx is done. The collector is cleaned up before Run returns.
func (a *Agent) Run(ctx context.Context) error {
	a.Infof("started, data collection interval %ds", a.updateEvery)
	defer func() { a.Info("stopped") }()

	var wg conc.WaitGroup
	wg.Go(func() { a.runJob(ctx) })

	tk := ticker.New(a.tickEvery)

LOOP:
	for {
		select {
		case <-ctx.Done():
			break LOOP
		case clock := <-tk.C:
			a.Tick(clock)
		}
	}

	tk.Stop()
	wg.Wait()
	a.collector.Cleanup(context.Background())

	return nil
}

// RunOnce runs a single cycle and cleans up.
func (a *Agent) RunOnce(ctx context.Context) collector.Counts {
	defer a.collector.Cleanup(context.Background())
	counts, _ := a.runCycle(ctx)
	return counts
}

// Tick hands the clock to the job goroutine without blocking.
func (a *Agent) Tick(clock int) {
	select {
	case a.tick <- clock:
	default:
		a.Debug("skip the tick due to previous run hasn't been finished")
	}
}

func (a *Agent) runJob(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case clock := <-a.tick:
			if clock%a.updateEvery == 0 {
				a.runCycle(ctx)
			}
		}
	}
}

func (a *Agent) cycleTimeout() time.Duration {
	return a.tickEvery * time.Duration(a.updateEvery)
}

// runCycle bounds the cycle by the update interval and turns a panic into a log record.
func (a *Agent) runCycle(ctx context.Context) (counts collector.Counts, panicked bool) {
	ctx, cancel := context.WithTimeout(ctx, a.cycleTimeout())
	defer cancel()

	defer func() {
		if r := recover(); r != nil {
			panicked = true
			counts = nil
			a.Errorf("PANIC: %v", r)
			if logger.Level.Enabled(slog.LevelDebug) {
				a.Errorf("STACK: %s", debug.Stack())
			}
		}
	}()

	return a.collector.Collect(ctx), false
}
