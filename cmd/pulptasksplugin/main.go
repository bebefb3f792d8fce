// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/automaxprocs/maxprocs"
	"golang.org/x/net/http/httpproxy"
	"golang.org/x/sync/errgroup"

	"github.com/netdata/netdata/go/pulptasks/logger"
	"github.com/netdata/netdata/go/pulptasks/pkg/buildinfo"
	"github.com/netdata/netdata/go/pulptasks/pkg/executable"
	"github.com/netdata/netdata/go/pulptasks/pkg/filelock"
	"github.com/netdata/netdata/go/pulptasks/pkg/netdataapi"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/agent"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/cli"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/config"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/sink"
)

func init() {
	// https://github.com/netdata/netdata/issues/8949#issuecomment-638294959
	if v := os.Getenv("TZ"); strings.HasPrefix(v, ":") {
		_ = os.Unsetenv("TZ")
	}
}

func main() {
	_, _ = maxprocs.Set(maxprocs.Logger(func(s string, args ...interface{}) {}))

	opts := parseCLI()

	if opts.Version {
		fmt.Printf("%s.plugin, version: %s\n", executable.Name, buildinfo.Version)
		return
	}

	if lvl := os.Getenv("NETDATA_LOG_LEVEL"); lvl != "" {
		logger.Level.SetByName(lvl)
	}
	if opts.Debug {
		logger.Level.Set(slog.LevelDebug)
	}

	log := logger.New()

	log.Infof("plugin: name=%s, %s", executable.Name, buildinfo.Info())
	if u, err := user.Current(); err == nil {
		log.Debugf("current user: name=%s, uid=%s", u.Username, u.Uid)
	}

	proxyCfg := httpproxy.FromEnvironment()
	log.Infof("env HTTP_PROXY '%s', HTTPS_PROXY '%s'", proxyCfg.HTTPProxy, proxyCfg.HTTPSProxy)

	os.Exit(run(opts, log))
}

func parseCLI() *cli.Option {
	opt, err := cli.Parse(os.Args)
	if err != nil {
		if cli.IsHelp(err) {
			os.Exit(0)
		}
		os.Exit(1)
	}

	return opt
}

func run(opts *cli.Option, log *logger.Logger) int {
	cfgPath := opts.ConfigPath()

	cfg, err := config.Load(cfgPath, log.With(slog.String("component", "config")))
	if err != nil {
		log.Errorf("loading config: %v", err)
		return 1
	}
	// the positional argument is the minimum interval netdata allows
	if cfg.UpdateEvery < opts.UpdateEvery {
		cfg.UpdateEvery = opts.UpdateEvery
	}
	log.Infof("config file '%s': %s", cfgPath, cfg)

	if opts.LockDir != "" {
		locker := filelock.New(opts.LockDir)
		ok, err := locker.Lock(cfg.Host)
		if err != nil {
			log.Errorf("taking instance lock in '%s': %v", opts.LockDir, err)
			return 1
		}
		if !ok {
			log.Warningf("another instance is already polling '%s', exiting", cfg.Host)
			netdataapi.New(os.Stdout).DISABLE()
			return 0
		}
		defer locker.UnlockAll()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	nd := sink.NewNetdata(sink.NetdataConfig{
		Out:         os.Stdout,
		Host:        cfg.Host,
		UpdateEvery: cfg.UpdateEvery,
	})
	sinks := sink.Multi{nd}

	var reg *prometheus.Registry
	if opts.PrometheusAddr != "" {
		reg = prometheus.NewRegistry()
		ps, err := sink.NewPrometheus(reg)
		if err != nil {
			log.Errorf("prometheus sink: %v", err)
			return 1
		}
		sinks = append(sinks, ps)
	}

	coll := collector.New(cfg, sinks, log.With(slog.String("component", "collector")))
	if err := coll.Init(ctx); err != nil {
		log.Errorf("collector init: %v", err)
		return 1
	}
	if cfg.Verbose {
		if err := coll.Check(ctx); err != nil {
			log.Warningf("'%s' is not reachable: %v", cfg.URL(), err)
		} else {
			log.Infof("'%s' is reachable", cfg.URL())
		}
	}

	a := agent.New(agent.Config{
		Logger:      log,
		Collector:   coll,
		UpdateEvery: cfg.UpdateEvery,
	})

	if opts.Once {
		if counts := a.RunOnce(ctx); counts == nil {
			return 1
		}
		return 0
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error { return a.Run(gctx) })

	if reg != nil {
		srv := newMetricsServer(opts.PrometheusAddr, reg)
		log.Infof("serving prometheus metrics on '%s'", opts.PrometheusAddr)

		g.Go(func() error {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("prometheus listener: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	err = g.Wait()

	if cerr := nd.Close(); cerr != nil {
		log.Warningf("closing netdata charts: %v", cerr)
	}

	if err != nil {
		log.Error(err)
		return 1
	}
	return 0
}

func newMetricsServer(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", sink.Handler(reg))

	return &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: time.Second * 5,
	}
}
