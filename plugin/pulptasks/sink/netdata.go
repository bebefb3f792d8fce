// SPDX-License-Identifier: GPL-3.0-or-later

package sink

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/netdata/netdata/go/pulptasks/pkg/executable"
	"github.com/netdata/netdata/go/pulptasks/pkg/netdataapi"
	"github.com/netdata/netdata/go/pulptasks/plugin/pulptasks/collector"
)

const (
	chartTypeID   = "pulp_tasks"
	chartPriority = 70000
)

var chartTitles = map[string]string{
	collector.RunningTasks: "Running Tasks",
	collector.WaitingTasks: "Waiting Tasks",
}

var lblReplacer = strings.NewReplacer("'", "")

type NetdataConfig struct {
	Out         io.Writer
	Host        string
	UpdateEvery int
}

func NewNetdata(cfg NetdataConfig) *Netdata {
	if cfg.UpdateEvery == 0 {
		cfg.UpdateEvery = 1
	}

	var buf bytes.Buffer

	return &Netdata{
		out:         cfg.Out,
		host:        cfg.Host,
		updateEvery: cfg.UpdateEvery,
		buf:         &buf,
		api:         netdataapi.New(&buf),
		charts:      make(map[string]*chartState),
		now:         time.Now,
	}
}

// Netdata writes metrics using the netdata external plugin protocol.
// Every type instance gets its own chart, created on first dispatch.
type Netdata struct {
	mu sync.Mutex

	out         io.Writer
	host        string
	updateEvery int

	buf *bytes.Buffer
	api *netdataapi.API

	charts   map[string]*chartState
	order    []*chartState
	priority int
	now      func() time.Time
}

type chartState struct {
	id      string
	plugin  string
	typ     string
	prio    int
	prevRun time.Time
}

func (n *Netdata) Dispatch(m collector.Metric) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	chart, ok := n.charts[m.TypeInstance]
	if !ok {
		chart = &chartState{
			id:     chartID(m.TypeInstance),
			plugin: m.Plugin,
			typ:    m.Type,
			prio:   chartPriority + n.priority,
		}
		n.priority++
		n.charts[m.TypeInstance] = chart
		n.order = append(n.order, chart)
		n.createChart(chart, false)
	}

	curTime := n.now()
	sinceLastRun := calcSinceLastRun(curTime, chart.prevRun)
	chart.prevRun = curTime

	n.api.BEGIN(chartTypeID, chart.id, sinceLastRun)
	n.api.SET(chart.id, m.Value)
	n.api.END()

	return n.flush()
}

// Close marks every created chart obsolete.
func (n *Netdata) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.order) == 0 {
		return nil
	}
	for _, chart := range n.order {
		n.createChart(chart, true)
	}
	n.charts = make(map[string]*chartState)
	n.order = nil

	return n.flush()
}

func (n *Netdata) createChart(chart *chartState, obsolete bool) {
	var opts string
	if obsolete {
		opts = "obsolete"
	}

	n.api.CHART(netdataapi.ChartOpts{
		TypeID:      chartTypeID,
		ID:          chart.id,
		Title:       chartTitle(chart.id),
		Units:       "tasks",
		Family:      "tasks",
		Context:     chartTypeID + "." + chart.id,
		ChartType:   "line",
		Priority:    chart.prio,
		UpdateEvery: n.updateEvery,
		Options:     opts,
		Plugin:      executable.Name + ".plugin",
		Module:      chartTypeID,
	})

	if obsolete {
		_ = n.api.EMPTYLINE()
		return
	}

	n.api.CLABEL("plugin", lblReplacer.Replace(chart.plugin), netdataapi.LabelSourceAuto)
	n.api.CLABEL("type", lblReplacer.Replace(chart.typ), netdataapi.LabelSourceAuto)
	n.api.CLABEL("host", lblReplacer.Replace(n.host), netdataapi.LabelSourceConf)
	n.api.CLABELCOMMIT()

	n.api.DIMENSION(netdataapi.DimensionOpts{
		ID:         chart.id,
		Name:       dimName(chart.id),
		Algorithm:  "absolute",
		Multiplier: 1,
		Divisor:    1,
	})
	_ = n.api.EMPTYLINE()
}

func (n *Netdata) flush() error {
	defer n.buf.Reset()
	if n.buf.Len() == 0 {
		return nil
	}
	if _, err := io.Copy(n.out, n.buf); err != nil {
		return fmt.Errorf("writing to netdata: %w", err)
	}
	return nil
}

var idReplacer = strings.NewReplacer(" ", "_", ".", "_", "'", "")

func chartID(typeInstance string) string {
	return idReplacer.Replace(typeInstance)
}

func chartTitle(id string) string {
	if v, ok := chartTitles[id]; ok {
		return v
	}
	return "Pulp Tasks " + id
}

// running_tasks -> running
func dimName(id string) string {
	return strings.TrimSuffix(id, "_tasks")
}

func calcSinceLastRun(curTime, prevRun time.Time) int {
	if prevRun.IsZero() {
		return 0
	}
	return int((curTime.UnixNano() - prevRun.UnixNano()) / 1000)
}
