// SPDX-License-Identifier: GPL-3.0-or-later

// Package sink holds the destinations of the collected task counts.
package sink

import (
	"errors"

	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
)

// Multi dispatches every metric to all of its sinks.
type Multi []collector.MetricsSink

func (m Multi) Dispatch(metric collector.Metric) error {
	var errs []error
	for _, s := range m {
		if err := s.Dispatch(metric); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset resets the sinks that implement collector.Resetter.
func (m Multi) Reset() {
	for _, s := range m {
		if r, ok := s.(collector.Resetter); ok {
			r.Reset()
		}
	}
}
