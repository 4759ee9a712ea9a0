package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "niva"

// Metrics holds the Prometheus collectors updated by log scans.
type Metrics struct {
	ScansTotal   prometheus.Counter
	Fragments    *prometheus.CounterVec // labels: outcome={accepted,malformed,checksum_mismatch,unknown_format,field_count,decode_failed}
	Waypoints    *prometheus.CounterVec // labels: format
	ScanDuration prometheus.Histogram
}

func newMetrics() *Metrics {
	return &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scans_total",
			Help:      "Total log scans completed.",
		}),
		Fragments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fragments_total",
			Help:      "Log fragments examined, by pipeline outcome.",
		}, []string{"outcome"}),
		Waypoints: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waypoints_total",
			Help:      "Waypoints decoded, by reading format code.",
		}, []string{"format"}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "scan_duration_seconds",
			Help:      "Duration of a complete log scan.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

// NewMetrics creates the scan metrics and registers them with reg.
// A nil reg uses the default Prometheus registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := newMetrics()
	reg.MustRegister(
		m.ScansTotal,
		m.Fragments,
		m.Waypoints,
		m.ScanDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
