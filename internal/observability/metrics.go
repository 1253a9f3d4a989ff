package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "water_restriction"

// Metrics holds the Prometheus counters, histograms, and gauges for the refresh pipeline.
type Metrics struct {
	RefreshCycles       *prometheus.CounterVec // labels: outcome={success,fetch_error,unknown_level,load_error}
	RefreshDuration     prometheus.Histogram
	RestrictionsFetched prometheus.Histogram
	SchedulerRunning    prometheus.Gauge

	// Classification metrics.
	UnclassifiedUsages    prometheus.Counter
	WithheldCategories    prometheus.Counter
	GlobalAlertLevel      prometheus.Gauge
	EntitiesPublished     prometheus.Counter
	ConfigEntryMigrations *prometheus.CounterVec // labels: outcome={migrated,current,error}

	// Geocoding metrics.
	GeocodeRequests    *prometheus.CounterVec // labels: outcome={success,error,empty}
	GeocodeCache       *prometheus.CounterVec // labels: result={hit,miss}
	GeocodeAPIDuration prometheus.Histogram
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.RefreshCycles,
		m.RefreshDuration,
		m.RestrictionsFetched,
		m.SchedulerRunning,
		m.UnclassifiedUsages,
		m.WithheldCategories,
		m.GlobalAlertLevel,
		m.EntitiesPublished,
		m.ConfigEntryMigrations,
		m.GeocodeRequests,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
	)
	return m
}

// NewMetricsForTesting creates unregistered Metrics to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Refresh cycles by outcome.",
		}, []string{"outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-classify-publish cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RestrictionsFetched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "restrictions_fetched",
			Help:      "Number of usage restrictions in the fetched order.",
			Buckets:   []float64{0, 1, 5, 10, 20, 40, 80},
		}),
		SchedulerRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "scheduler_running",
			Help:      "1 when the refresh scheduler is active, 0 when shut down.",
		}),
		UnclassifiedUsages: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "unclassified_usages_total",
			Help:      "Usages no catalog category matched.",
		}),
		WithheldCategories: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "withheld_categories_total",
			Help:      "Category states withheld because their severity could not be derived.",
		}),
		GlobalAlertLevel: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "global_alert_level",
			Help:      "Zone alert level ordinal, 0 (none) to 4 (crisis).",
		}),
		EntitiesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entities_published_total",
			Help:      "Entity states written to the sink topic.",
		}),
		ConfigEntryMigrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "config_entry_migrations_total",
			Help:      "Config entry preparations by outcome.",
		}, []string{"outcome"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_requests_total",
			Help:      "Reverse geocoding API requests by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Reverse geocoding cache lookups by result.",
		}, []string{"result"}),
		GeocodeAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Reverse geocoding API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
	}
}
