package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the dashboard pipeline.
type Metrics struct {
	Fetches            prometheus.Counter
	FetchErrors        prometheus.Counter
	RecordsWritten     prometheus.Counter
	StorageWriteErrors prometheus.Counter
	StorageSetupErrors prometheus.Counter
	ChartsRendered     prometheus.Counter
	RenderErrors       prometheus.Counter
	EventsPublished    prometheus.Counter
	PublishErrors      prometheus.Counter

	LocationsProcessed *prometheus.CounterVec // label: outcome={done,skipped}
	FetchDuration      prometheus.Histogram
	RunDuration        prometheus.Histogram
}

// NewMetrics creates and registers all dashboard metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Fetches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "fetches_total",
			Help:      "Total successful weather fetches.",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "fetch_errors_total",
			Help:      "Total fetch failures (transport, status, or malformed payload).",
		}),
		RecordsWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "records_written_total",
			Help:      "Total observation records archived to object storage.",
		}),
		StorageWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "storage_write_errors_total",
			Help:      "Total failed observation writes.",
		}),
		StorageSetupErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "storage_setup_errors_total",
			Help:      "Total bucket probe or creation failures (non-fatal).",
		}),
		ChartsRendered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "charts_rendered_total",
			Help:      "Total charts rendered.",
		}),
		RenderErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "render_errors_total",
			Help:      "Total chart render failures.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "events_published_total",
			Help:      "Total observation events published to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "publish_errors_total",
			Help:      "Total failed observation event publishes (non-fatal).",
		}),
		LocationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "weather_dash",
			Name:      "locations_processed_total",
			Help:      "Locations processed per terminal outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dash",
			Name:      "fetch_duration_seconds",
			Help:      "Weather provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "weather_dash",
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-record-visualize run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}

	prometheus.MustRegister(
		m.Fetches,
		m.FetchErrors,
		m.RecordsWritten,
		m.StorageWriteErrors,
		m.StorageSetupErrors,
		m.ChartsRendered,
		m.RenderErrors,
		m.EventsPublished,
		m.PublishErrors,
		m.LocationsProcessed,
		m.FetchDuration,
		m.RunDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Fetches:            prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "fetches_total"}),
		FetchErrors:        prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "fetch_errors_total"}),
		RecordsWritten:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "records_written_total"}),
		StorageWriteErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "storage_write_errors_total"}),
		StorageSetupErrors: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "storage_setup_errors_total"}),
		ChartsRendered:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "charts_rendered_total"}),
		RenderErrors:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "render_errors_total"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "events_published_total"}),
		PublishErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "weather_dash", Name: "publish_errors_total"}),
		LocationsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "weather_dash", Name: "locations_processed_total"}, []string{"outcome"}),
		FetchDuration:      prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_dash", Name: "fetch_duration_seconds"}),
		RunDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "weather_dash", Name: "run_duration_seconds"}),
	}
}
