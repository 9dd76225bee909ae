package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "shelter_nav"

// Metrics holds the Prometheus counters, histograms, and gauges for the shelter navigator.
type Metrics struct {
	// Navigation metrics.
	NearestLookups *prometheus.CounterVec // labels: outcome={found,empty}
	RouteRequests  *prometheus.CounterVec // labels: profile={driving,walking}, outcome={directions,fallback}

	// Directions API metrics.
	DirectionsAPIDuration prometheus.Histogram
	DirectionsCache       *prometheus.CounterVec // labels: result={hit,miss}
	DirectionsEnabled     prometheus.Gauge

	// Alert ingestion metrics.
	AlertCycles        *prometheus.CounterVec // labels: source, outcome={success,error}
	AlertsPublished    *prometheus.CounterVec // labels: category, urgent={true,false}
	AlertsDeduplicated prometheus.Counter
	AlertsInjected     *prometheus.CounterVec // labels: category
	IngestorRunning    prometheus.Gauge
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		NearestLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "nearest_lookups_total",
			Help:      "Closest-shelter lookups by outcome.",
		}, []string{"outcome"}),
		RouteRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "route_requests_total",
			Help:      "Route requests by travel profile and geometry source.",
		}, []string{"profile", "outcome"}),
		DirectionsAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "directions_api_duration_seconds",
			Help:      "Mapbox Directions API request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}),
		DirectionsCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "directions_cache_total",
			Help:      "Directions cache lookups by result.",
		}, []string{"result"}),
		DirectionsEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "directions_enabled",
			Help:      "1 when the Directions API is configured, 0 when routes always fall back.",
		}),
		AlertCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alert_cycles_total",
			Help:      "Alert fetch cycles by source and outcome.",
		}, []string{"source", "outcome"}),
		AlertsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_published_total",
			Help:      "Alert records added to the buffer by category and urgency.",
		}, []string{"category", "urgent"}),
		AlertsDeduplicated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_deduplicated_total",
			Help:      "Alert records dropped because their ID was seen recently.",
		}),
		AlertsInjected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_injected_total",
			Help:      "Canned alerts injected through the API by category.",
		}, []string{"category"}),
		IngestorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ingestor_running",
			Help:      "1 when the alert ingestor loop is active, 0 when shut down.",
		}),
	}

	prometheus.MustRegister(
		m.NearestLookups,
		m.RouteRequests,
		m.DirectionsAPIDuration,
		m.DirectionsCache,
		m.DirectionsEnabled,
		m.AlertCycles,
		m.AlertsPublished,
		m.AlertsDeduplicated,
		m.AlertsInjected,
		m.IngestorRunning,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		NearestLookups:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "nearest_lookups_total"}, []string{"outcome"}),
		RouteRequests:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "route_requests_total"}, []string{"profile", "outcome"}),
		DirectionsAPIDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "directions_api_duration_seconds"}),
		DirectionsCache:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "directions_cache_total"}, []string{"result"}),
		DirectionsEnabled:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "directions_enabled"}),
		AlertCycles:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "alert_cycles_total"}, []string{"source", "outcome"}),
		AlertsPublished:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "alerts_published_total"}, []string{"category", "urgent"}),
		AlertsDeduplicated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: "alerts_deduplicated_total"}),
		AlertsInjected:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "alerts_injected_total"}, []string{"category"}),
		IngestorRunning:       prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "ingestor_running"}),
	}
}
