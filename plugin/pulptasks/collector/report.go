// SPDX-License-Identifier: GPL-3.0-or-later

package collector

const (
	pluginName = "pulp-tasks"
	typeGauge  = "gauge"
)

// Metric is a single value handed to a MetricsSink.
type Metric struct {
	Plugin       string
	Type         string
	TypeInstance string
	Value        int64
}

type MetricsSink interface {
	Dispatch(m Metric) error
}

// Resetter is implemented by sinks that keep serving the last dispatched
// values. Reset drops them after a cycle that received no tasks.
type Resetter interface {
	Reset()
}

func NewReporter(sink MetricsSink, log Logger, verbose bool) *Reporter {
	return &Reporter{sink: sink, log: log, verbose: verbose}
}

// Reporter turns counts into gauge metrics. It never retries a failed dispatch.
type Reporter struct {
	sink    MetricsSink
	log     Logger
	verbose bool
}

// Report dispatches counts[key] as a gauge named after key.
// It reports whether the sink accepted the metric.
func (r *Reporter) Report(counts Counts, key string) bool {
	value, ok := counts[key]
	if !ok {
		r.log.Warningf("info key not found: %s", key)
		return false
	}

	if r.verbose {
		r.log.Infof("sending value: %s=%d", key, value)
	}

	m := Metric{
		Plugin:       pluginName,
		Type:         typeGauge,
		TypeInstance: key,
		Value:        value,
	}

	if err := r.sink.Dispatch(m); err != nil {
		r.log.Warningf("dispatching %s: %v", key, err)
		return false
	}
	return true
}
