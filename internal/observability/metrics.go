package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// catalog reconciliation pipeline.
type Metrics struct {
	SourcesProcessed prometheus.Counter
	SourcesFailed    prometheus.Counter
	LinesSkipped     prometheus.Counter
	BatchRunning     prometheus.Gauge

	// Per-catalog metrics.
	MeasurementsAccepted *prometheus.CounterVec   // labels: catalog
	CatalogErrors        *prometheus.CounterVec   // labels: catalog, reason={query,no_data,normalize}
	CatalogQueryDuration *prometheus.HistogramVec // labels: catalog

	// Enrichment and sink metrics.
	ReddeningCache   *prometheus.CounterVec // labels: result={hit,miss}
	RecordsPublished prometheus.Counter
}

// NewMetrics creates and registers all pipeline metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SourcesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "sources_processed_total",
			Help:      "Total input sources fully processed.",
		}),
		SourcesFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "sources_failed_total",
			Help:      "Total input sources written without a resolved catalog position.",
		}),
		LinesSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "input_lines_skipped_total",
			Help:      "Total input lines that did not match the configured grammar.",
		}),
		BatchRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "sedfuse",
			Name:      "batch_running",
			Help:      "1 while a batch run is active, 0 when finished.",
		}),
		MeasurementsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "measurements_accepted_total",
			Help:      "Accepted photometric measurements by catalog.",
		}, []string{"catalog"}),
		CatalogErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "catalog_errors_total",
			Help:      "Catalog lookups that produced no measurements, by catalog and reason.",
		}, []string{"catalog", "reason"}),
		CatalogQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sedfuse",
			Name:      "catalog_query_duration_seconds",
			Help:      "Catalog service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"catalog"}),
		ReddeningCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "reddening_cache_total",
			Help:      "Reddening cache lookups by result.",
		}, []string{"result"}),
		RecordsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "sedfuse",
			Name:      "records_published_total",
			Help:      "Reconciled records published to the sink topic.",
		}),
	}

	prometheus.MustRegister(
		m.SourcesProcessed,
		m.SourcesFailed,
		m.LinesSkipped,
		m.BatchRunning,
		m.MeasurementsAccepted,
		m.CatalogErrors,
		m.CatalogQueryDuration,
		m.ReddeningCache,
		m.RecordsPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SourcesProcessed:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sedfuse", Name: "sources_processed_total"}),
		SourcesFailed:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sedfuse", Name: "sources_failed_total"}),
		LinesSkipped:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sedfuse", Name: "input_lines_skipped_total"}),
		BatchRunning:         prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "sedfuse", Name: "batch_running"}),
		MeasurementsAccepted: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sedfuse", Name: "measurements_accepted_total"}, []string{"catalog"}),
		CatalogErrors:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sedfuse", Name: "catalog_errors_total"}, []string{"catalog", "reason"}),
		CatalogQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "sedfuse", Name: "catalog_query_duration_seconds"}, []string{"catalog"}),
		ReddeningCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "sedfuse", Name: "reddening_cache_total"}, []string{"result"}),
		RecordsPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "sedfuse", Name: "records_published_total"}),
	}
}
