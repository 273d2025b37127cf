// Package metrics exports crash and trace activity as Prometheus metrics.
package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"

	"github.com/moffa90/go-crashtrace/crash"
	"github.com/moffa90/go-crashtrace/scratch"
	"github.com/moffa90/go-crashtrace/trace"
)

var outcomes = [...]crash.Outcome{
	crash.Written,
	crash.SnapshotPresent,
	crash.RegionOccupied,
	crash.InsufficientSpace,
}

// Collector implements crash.Observer with Prometheus counters on a
// private registry.
type Collector struct {
	registry *prometheus.Registry
	factory  promauto.Factory

	// one child per outcome, resolved up front so FaultHandled does not
	// allocate in fault context
	faults  [len(outcomes)]prometheus.Counter
	healed  prometheus.Counter
	cleared prometheus.Counter
}

var _ crash.Observer = (*Collector)(nil)

// NewCollector creates a collector with its own registry.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	faults := factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crashtrace_faults_total",
			Help: "Faults handled by the snapshot writer, by outcome",
		},
		[]string{"outcome"},
	)

	c := &Collector{
		registry: registry,
		factory:  factory,

		healed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crashtrace_region_healed_total",
				Help: "Crash regions erased because they held foreign data",
			},
		),

		cleared: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "crashtrace_snapshots_cleared_total",
				Help: "Snapshots cleared on request",
			},
		),
	}

	for i, o := range outcomes {
		c.faults[i] = faults.WithLabelValues(o.String())
	}
	return c
}

// FaultHandled implements crash.Observer.
func (c *Collector) FaultHandled(o crash.Outcome) {
	if int(o) >= 0 && int(o) < len(c.faults) {
		c.faults[o].Inc()
	}
}

// RegionHealed implements crash.Observer.
func (c *Collector) RegionHealed() {
	c.healed.Inc()
}

// SnapshotCleared implements crash.Observer.
func (c *Collector) SnapshotCleared() {
	c.cleared.Inc()
}

// WatchRing exports the ring's write cursor.
func (c *Collector) WatchRing(ring *trace.Ring) {
	c.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "crashtrace_trace_events_recorded",
			Help: "Events recorded into the trace ring since it was created or restored",
		},
		func() float64 { return float64(ring.Cursor()) },
	)
}

// WatchScratch exports the scratch budget in use.
func (c *Collector) WatchScratch(pool *scratch.Pool) {
	c.factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "crashtrace_scratch_used_bytes",
			Help: "Scratch bytes currently handed out to printers",
		},
		func() float64 { return float64(pool.Used()) },
	)
}

// Registry returns the collector's registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// WriteText writes every metric in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	families, err := c.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return nil
}
