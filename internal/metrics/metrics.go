// Package metrics provides Prometheus metrics for monitoring the collector.
//
// Key metrics:
//   - Cycles by outcome
//   - Rows appended and records skipped
//   - Cycle duration and last successful capture
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rickgao/crypto-snapshots/internal/model"
)

const namespace = "snapshot_collector"

// Metrics records cycle reports as Prometheus series.
type Metrics struct {
	registry *prometheus.Registry

	cycles         *prometheus.CounterVec
	rowsWritten    prometheus.Counter
	recordsSkipped prometheus.Counter
	lastFetched    prometheus.Gauge
	lastSuccess    prometheus.Gauge
	cycleDuration  prometheus.Histogram
}

// New creates metrics on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycles_total",
			Help:      "Collection cycles by outcome.",
		}, []string{"outcome"}),
		rowsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_written_total",
			Help:      "Snapshot rows appended to the store.",
		}),
		recordsSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_skipped_total",
			Help:      "API records rejected during conversion.",
		}),
		lastFetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_fetched_records",
			Help:      "Records returned by the most recent fetch.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last cycle that appended its batch.",
		}),
		cycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "cycle_duration_seconds",
			Help:      "Wall time of fetch, transform and persist.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	m.registry.MustRegister(
		m.cycles,
		m.rowsWritten,
		m.recordsSkipped,
		m.lastFetched,
		m.lastSuccess,
		m.cycleDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Expose every outcome from the start so rates work before the first failure.
	for _, o := range model.Outcomes {
		m.cycles.WithLabelValues(string(o))
	}

	return m
}

// ObserveCycle implements collector.Observer.
func (m *Metrics) ObserveCycle(r model.CycleReport) {
	m.cycles.WithLabelValues(string(r.Outcome)).Inc()
	m.rowsWritten.Add(float64(r.Written))
	m.recordsSkipped.Add(float64(r.Skipped))
	m.lastFetched.Set(float64(r.Fetched))
	m.cycleDuration.Observe(r.Duration.Seconds())
	if r.OK() {
		m.lastSuccess.Set(float64(r.StartedAt.Unix()))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
