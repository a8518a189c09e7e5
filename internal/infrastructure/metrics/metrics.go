package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine-level Prometheus metrics. HTTP metrics live in the
// HTTP middleware.
type Metrics struct {
	RecalculationsTotal prometheus.Counter
	RecalcDuration      prometheus.Histogram
	RecalcEntryWrites   prometheus.Histogram
	PartiesCreated      prometheus.Counter
	EntriesCreated      prometheus.Counter
}

// New creates and registers all engine metrics.
func New() *Metrics {
	return &Metrics{
		RecalculationsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "partybook_recalculations_total",
			Help: "Total number of balance recalculation passes",
		}),
		RecalcDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "partybook_recalculation_duration_seconds",
			Help:    "Duration of balance recalculation passes",
			Buckets: prometheus.DefBuckets,
		}),
		RecalcEntryWrites: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "partybook_recalculation_entry_writes",
			Help:    "Entry rows written per recalculation pass",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100, 250},
		}),
		PartiesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "partybook_parties_created_total",
			Help: "Total number of parties created",
		}),
		EntriesCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "partybook_entries_created_total",
			Help: "Total number of ledger entries created",
		}),
	}
}

// ObserveRecalculation implements usecase.MetricsRecorder.
func (m *Metrics) ObserveRecalculation(duration time.Duration, entriesWritten int) {
	m.RecalculationsTotal.Inc()
	m.RecalcDuration.Observe(duration.Seconds())
	m.RecalcEntryWrites.Observe(float64(entriesWritten))
}

// PartyCreated implements usecase.MetricsRecorder.
func (m *Metrics) PartyCreated() {
	m.PartiesCreated.Inc()
}

// EntryCreated implements usecase.MetricsRecorder.
func (m *Metrics) EntryCreated() {
	m.EntriesCreated.Inc()
}
