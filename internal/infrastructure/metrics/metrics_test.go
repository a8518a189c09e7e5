package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Swap the default registry so the test can inspect registrations.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.RecalculationsTotal == nil || m.RecalcDuration == nil || m.PartiesCreated == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}

	m.ObserveRecalculation(50*time.Millisecond, 3)
	m.PartyCreated()
	m.EntryCreated()

	if got := testutil.ToFloat64(m.RecalculationsTotal); got != 1 {
		t.Fatalf("expected one recalculation observed, got %v", got)
	}
	if got := testutil.ToFloat64(m.PartiesCreated); got != 1 {
		t.Fatalf("expected one party created, got %v", got)
	}
	if got := testutil.ToFloat64(m.EntriesCreated); got != 1 {
		t.Fatalf("expected one entry created, got %v", got)
	}
}
