package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()
	m.ImportBatch()
	m.ImportRow("Jobs", OutcomeCreated)
	m.ImportRow("Jobs", OutcomeCreated)
	m.ImportRow("Jobs", OutcomeSkipped)
	m.OverdueMarked(3)
	m.OverdueMarked(-1)
	m.SetGauge("process_memuse_mb", 42)

	if got := testutil.ToFloat64(m.imports); got != 1 {
		t.Fatalf("imports = %v", got)
	}
	if got := testutil.ToFloat64(m.importRows.WithLabelValues("Jobs", OutcomeCreated)); got != 2 {
		t.Fatalf("created rows = %v", got)
	}
	if got := testutil.ToFloat64(m.overdue); got != 3 {
		t.Fatalf("overdue = %v", got)
	}
	if got := testutil.ToFloat64(m.gauges.WithLabelValues("process_memuse_mb")); got != 42 {
		t.Fatalf("gauge = %v", got)
	}
	if _, err := m.Registry().Gather(); err != nil {
		t.Fatalf("gather: %v", err)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ImportBatch()
	m.ImportRow("Customers", OutcomeSkipped)
	m.OverdueMarked(1)
	m.SetGauge("x", 1)
	if m.Registry() != nil {
		t.Fatal("nil metrics should have no registry")
	}
}
