package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the engine's Prometheus collectors
type Metrics struct {
	LinkMutations  *prometheus.CounterVec
	AnalysisRuns   *prometheus.CounterVec
	LayoutDuration prometheus.Histogram
	CyclesDetected prometheus.Gauge
}

// NewMetrics registers and returns the engine metrics
func NewMetrics() *Metrics {
	return &Metrics{
		LinkMutations: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathways",
			Subsystem: "graph",
			Name:      "link_mutations_total",
			Help:      "Relationship store mutations by operation",
		}, []string{"operation"}),
		AnalysisRuns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pathways",
			Subsystem: "graph",
			Name:      "analysis_runs_total",
			Help:      "Dependency and recommendation computations by kind",
		}, []string{"kind"}),
		LayoutDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pathways",
			Subsystem: "graph",
			Name:      "layout_duration_seconds",
			Help:      "Wall time of force-directed layout runs",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
		CyclesDetected: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: "pathways",
			Subsystem: "graph",
			Name:      "cycles_detected",
			Help:      "Cycle count from the most recent detection pass",
		}),
	}
}

// CountMutation records a link mutation; safe on a nil receiver
func (m *Metrics) CountMutation(op string) {
	if m == nil {
		return
	}
	m.LinkMutations.WithLabelValues(op).Inc()
}

// CountAnalysis records an analysis run; safe on a nil receiver
func (m *Metrics) CountAnalysis(kind string) {
	if m == nil {
		return
	}
	m.AnalysisRuns.WithLabelValues(kind).Inc()
}

// ObserveLayout records a layout duration; safe on a nil receiver
func (m *Metrics) ObserveLayout(d time.Duration) {
	if m == nil {
		return
	}
	m.LayoutDuration.Observe(d.Seconds())
}

// SetCycleCount records the latest cycle count; safe on a nil receiver
func (m *Metrics) SetCycleCount(n int) {
	if m == nil {
		return
	}
	m.CyclesDetected.Set(float64(n))
}
