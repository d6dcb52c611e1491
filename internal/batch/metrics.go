package batch

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric names as constants for consistency.
const (
	MetricRankPairsTotal    = "rank_pairs_total"
	MetricRankCycleDuration = "rank_cycle_duration_seconds"
	MetricRankCyclesTotal   = "rank_cycles_total"
)

// Pair outcome labels.
const (
	StatusRanked  = "ranked"
	StatusFailed  = "failed"
	StatusSkipped = "skipped"
)

// Metrics contains Prometheus metrics for rank cycle operations.
// All operations are thread-safe.
type Metrics struct {
	pairsTotal    *prometheus.CounterVec
	cycleDuration prometheus.Histogram
	cyclesTotal   prometheus.Counter
}

// NewMetrics creates a Metrics instance with all collectors initialized.
// The metrics are not registered; call Register to register them.
func NewMetrics() *Metrics {
	return &Metrics{
		pairsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricRankPairsTotal,
				Help: "Total number of (job, campaign) pairs processed by outcome",
			},
			[]string{"status"},
		),
		cycleDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    MetricRankCycleDuration,
				Help:    "Histogram of rank cycle duration in seconds",
				Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0, 120.0},
			},
		),
		cyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: MetricRankCyclesTotal,
				Help: "Total number of completed rank cycles",
			},
		),
	}
}

// Register registers all collectors with the given registry.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{m.pairsTotal, m.cycleDuration, m.cyclesTotal} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// ObservePair records the outcome of one pair.
func (m *Metrics) ObservePair(status string) {
	m.pairsTotal.WithLabelValues(status).Inc()
}

// ObserveCycle records a completed cycle and its duration in seconds.
func (m *Metrics) ObserveCycle(seconds float64) {
	m.cyclesTotal.Inc()
	m.cycleDuration.Observe(seconds)
}
