// Package metrics holds the Prometheus collectors of the service.
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "jobdesk"

// Import row outcomes.
const (
	OutcomeCreated = "created"
	OutcomeSkipped = "skipped"
)

type Metrics struct {
	registry   *prometheus.Registry
	imports    prometheus.Counter
	importRows *prometheus.CounterVec
	overdue    prometheus.Counter
	gauges     *prometheus.GaugeVec
}

// New builds a private registry with the runtime collectors and the
// application counters registered.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		imports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "imports_total",
			Help:      "Spreadsheet imports processed.",
		}),
		importRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Spreadsheet rows by sheet and outcome.",
		}, []string{"sheet", "outcome"}),
		overdue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "jobs_marked_overdue_total",
			Help:      "Jobs moved to Overdue by the sweep.",
		}),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "system_gauge",
			Help:      "Process and host readings sampled by the monitor task.",
		}, []string{"name"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.imports,
		m.importRows,
		m.overdue,
		m.gauges,
	)
	return m
}

// Registry returns the registry that /metrics serves.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ImportBatch() {
	if m == nil {
		return
	}
	m.imports.Inc()
}

func (m *Metrics) ImportRow(sheet, outcome string) {
	if m == nil {
		return
	}
	m.importRows.WithLabelValues(sheet, outcome).Inc()
}

func (m *Metrics) OverdueMarked(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.overdue.Add(float64(n))
}

// SetGauge records a named reading, e.g. "process_memuse_mb".
func (m *Metrics) SetGauge(name string, value float64) {
	if m == nil {
		return
	}
	m.gauges.WithLabelValues(name).Set(value)
}
