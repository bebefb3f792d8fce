// SPDX-License-Identifier: GPL-3.0-or-later

package collector

import (
	"context"
	"errors"
	"fmt"

	"github.com/netdata/netdata/go/pulptasks/pkg/web"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/config"
)

func New(cfg config.Config, sink MetricsSink, log Logger) *Collector {
	return &Collector{
		Config: cfg,
		sink:   sink,
		log:    log,
	}
}

// Collector polls one Pulp server.
type Collector struct {
	Config config.Config

	sink MetricsSink
	log  Logger

	apiClient *apiClient
	fetcher   Fetcher
}

func (c *Collector) Init(context.Context) error {
	if err := c.validateConfig(); err != nil {
		return fmt.Errorf("config validation: %v", err)
	}

	httpCfg := c.Config.HTTPConfig()

	client, err := web.NewHTTPClient(httpCfg.ClientConfig)
	if err != nil {
		return fmt.Errorf("create http client: %v", err)
	}

	if c.Config.TLSSkipVerify {
		c.log.Warningf("TLS certificate verification is disabled for '%s'", c.Config.URL())
	}

	c.apiClient = newAPIClient(client, httpCfg.RequestConfig)
	if c.fetcher == nil {
		c.fetcher = c.apiClient
	}

	return nil
}

// Check performs a fetch without reporting anything.
func (c *Collector) Check(ctx context.Context) error {
	tasks, err := c.fetcher.FetchTasks(ctx)
	if err != nil {
		return err
	}
	if len(tasks) == 0 {
		return errNoData
	}
	return nil
}

func (c *Collector) Collect(ctx context.Context) Counts {
	return ReadCycle(ctx, c.Config, c.fetcher, c.sink, c.log)
}

func (c *Collector) Cleanup(context.Context) {
	if c.apiClient != nil && c.apiClient.httpClient != nil {
		c.apiClient.httpClient.CloseIdleConnections()
	}
}

func (c *Collector) validateConfig() error {
	if c.Config.Host == "" {
		return errors.New("'Host' can not be empty")
	}
	if c.sink == nil {
		return errors.New("metrics sink is not set")
	}
	if c.log == nil {
		return errors.New("logger is not set")
	}
	return nil
}
