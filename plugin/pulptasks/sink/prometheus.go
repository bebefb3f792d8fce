// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
)

const namespace = "pulp_tasks"

// Prometheus keeps the last dispatched value of every metric in a GaugeVec.
type Prometheus struct {
	value *prometheus.GaugeVec
}

// NewPrometheus registers the gauge on reg, or on the default registerer when reg is nil.
// Registering twice on the same registry reuses the existing gauge.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	valueVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "value",
		Help:      "Number of Pulp tasks per state.",
	}, []string{"type", "type_instance"})

	valueVec, err := registerCollector(reg, valueVec)
	if err != nil {
		return nil, err
	}

	return &Prometheus{value: valueVec}, nil
}

func (p *Prometheus) Dispatch(m collector.Metric) error {
	if m.TypeInstance == "" {
		return errors.New("metric has no type instance")
	}
	p.value.WithLabelValues(m.Type, m.TypeInstance).Set(float64(m.Value))
	return nil
}

// Reset removes every series so a scrape does not serve counts from a
// cycle that is no longer current.
func (p *Prometheus) Reset() {
	p.value.Reset()
}

// Handler exposes the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

func registerCollector[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	err := reg.Register(c)
	if err == nil {
		return c, nil
	}

	var alreadyRegisteredErr prometheus.AlreadyRegisteredError
	if errors.As(err, &alreadyRegisteredErr) {
		existing, ok := alreadyRegisteredErr.ExistingCollector.(T)
		if !ok {
			return c, fmt.Errorf("collector type mismatch for %T", c)
		}
		return existing, nil
	}

	return c, err
}
