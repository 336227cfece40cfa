package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "storm_track"

// Metrics holds the Prometheus counters, histograms, and gauges for the
// track conversion pipeline.
type Metrics struct {
	PipelineRunning prometheus.Gauge
	Runs            *prometheus.CounterVec // labels: outcome={success,error,skipped}
	RunDuration     prometheus.Histogram
	LastSuccess     prometheus.Gauge

	ShapefilesProcessed *prometheus.CounterVec // labels: provenance={historical,forecast}
	FeaturesProduced    *prometheus.CounterVec // labels: geometry={Point,LineString,Polygon}
	RecordErrors        *prometheus.CounterVec // labels: kind={malformed,timestamp,other}
	QualityViolations   prometheus.Counter

	ArchiveCache     *prometheus.CounterVec // labels: result={hit,miss}
	MessagesProduced prometheus.Counter
}

func newMetrics() *Metrics {
	return &Metrics{
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pipeline_running",
			Help:      "1 while a conversion run is in progress, 0 otherwise.",
		}),
		Runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Conversion runs by outcome.",
		}, []string{"outcome"}),
		RunDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of a complete fetch-convert-write run.",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run whose output was accepted.",
		}),
		ShapefilesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "shapefiles_processed_total",
			Help:      "Shapefile layers converted, by provenance.",
		}, []string{"provenance"}),
		FeaturesProduced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "features_produced_total",
			Help:      "Features written by geometry type.",
		}, []string{"geometry"}),
		RecordErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "record_errors_total",
			Help:      "Records that failed normalization, by kind.",
		}, []string{"kind"}),
		QualityViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "quality_violations_total",
			Help:      "Runs rejected by the data quality gate.",
		}),
		ArchiveCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "archive_cache_total",
			Help:      "Decoded archive cache lookups by result.",
		}, []string{"result"}),
		MessagesProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_produced_total",
			Help:      "Storm collections published to the sink topic.",
		}),
	}
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PipelineRunning,
		m.Runs,
		m.RunDuration,
		m.LastSuccess,
		m.ShapefilesProcessed,
		m.FeaturesProduced,
		m.RecordErrors,
		m.QualityViolations,
		m.ArchiveCache,
		m.MessagesProduced,
	}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(m.collectors()...)
	return m
}

// NewMetricsForTesting creates Metrics registered with a fresh registry to
// avoid "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	m := newMetrics()
	prometheus.NewRegistry().MustRegister(m.collectors()...)
	return m
}
