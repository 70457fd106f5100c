package metric

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains all platform-level metrics for the resolution service
type Metrics struct {
	// Resolution metrics
	ResolutionsTotal   *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	UnresolvedTotal    *prometheus.CounterVec

	// Taxonomy metrics
	TaxonomyEntries  prometheus.Gauge
	TaxonomyDegraded prometheus.Gauge
	TaxonomyLoads    *prometheus.CounterVec

	// Error metrics
	ErrorsTotal *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all platform metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ResolutionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rubro",
				Subsystem: "resolver",
				Name:      "resolutions_total",
				Help:      "Total number of resolution calls by tier and status",
			},
			[]string{"tier", "status"},
		),

		ResolutionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "rubro",
				Subsystem: "resolver",
				Name:      "duration_seconds",
				Help:      "Resolution call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"tier"},
		),

		UnresolvedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rubro",
				Subsystem: "resolver",
				Name:      "unresolved_total",
				Help:      "Total number of records that resolved to no taxonomy entry",
			},
			[]string{"source"},
		),

		TaxonomyEntries: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rubro",
				Subsystem: "taxonomy",
				Name:      "entries",
				Help:      "Number of entries in the loaded taxonomy dataset",
			},
		),

		TaxonomyDegraded: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "rubro",
				Subsystem: "taxonomy",
				Name:      "degraded",
				Help:      "Degraded mode indicator (1=running on fallback or empty taxonomy, 0=normal)",
			},
		),

		TaxonomyLoads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rubro",
				Subsystem: "taxonomy",
				Name:      "loads_total",
				Help:      "Total number of taxonomy load attempts by source and status",
			},
			[]string{"source", "status"},
		),

		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "rubro",
				Subsystem: "errors",
				Name:      "total",
				Help:      "Total number of errors by component and class",
			},
			[]string{"component", "class"},
		),
	}
}
