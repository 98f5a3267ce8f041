package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "climate_credit"

// Metrics holds the Prometheus collectors for the workflow client and the
// reference backend.
type Metrics struct {
	// Workflow metrics.
	LocationResolutions *prometheus.CounterVec // labels: mode={address,coordinates,device}, outcome={success,error,empty,busy,discarded}
	AnalysisSubmissions *prometheus.CounterVec // labels: outcome={success,error,busy,invalid}
	AnalysisDuration    prometheus.Histogram
	CameraMoves         prometheus.Counter

	// Assessment feed metrics.
	AssessmentsPublished prometheus.Counter
	PublishErrors        prometheus.Counter

	// Geocoding metrics.
	GeocodeCache       *prometheus.CounterVec   // labels: tier={memory,redis}, result={hit,miss,error}
	GeocodeAPIDuration *prometheus.HistogramVec // labels: provider={api,mapbox}

	// Reference backend metrics.
	GeocodesServed *prometheus.CounterVec // labels: outcome={found,not_found,bad_request,error}
	AnalysesServed prometheus.Counter
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates unregistered Metrics so tests can build as
// many as they like without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		LocationResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "location_resolutions_total",
			Help:      "Location resolution attempts by input mode and outcome.",
		}, []string{"mode", "outcome"}),
		AnalysisSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_submissions_total",
			Help:      "Analysis submissions by outcome.",
		}, []string{"outcome"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Analysis Service round-trip duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		CameraMoves: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "camera_moves_total",
			Help:      "Animated map camera moves issued.",
		}),
		AssessmentsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessments_published_total",
			Help:      "Assessment events written to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assessment_publish_errors_total",
			Help:      "Assessment events that could not be written to Kafka.",
		}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocode_cache_total",
			Help:      "Geocoding cache lookups by tier and result.",
		}, []string{"tier", "result"}),
		GeocodeAPIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "geocode_api_duration_seconds",
			Help:      "Geocoding provider request duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"provider"}),
		GeocodesServed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geocodes_served_total",
			Help:      "Geocode API responses by outcome.",
		}, []string{"outcome"}),
		AnalysesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_served_total",
			Help:      "Risk analyses computed by the reference backend.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.LocationResolutions,
		m.AnalysisSubmissions,
		m.AnalysisDuration,
		m.CameraMoves,
		m.AssessmentsPublished,
		m.PublishErrors,
		m.GeocodeCache,
		m.GeocodeAPIDuration,
		m.GeocodesServed,
		m.AnalysesServed,
	}
}
