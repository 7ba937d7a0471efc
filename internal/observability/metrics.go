package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// ignition service.
type Metrics struct {
	AssessmentsComputed *prometheus.CounterVec // labels: category
	AssessmentFailures  *prometheus.CounterVec // labels: reason={invalid_input,range_miss,configuration}
	DegradedLookups     *prometheus.CounterVec // labels: stage={correction,probability}
	AssessmentDuration  prometheus.Histogram

	// Kafka scoring loop metrics.
	ObservationsConsumed prometheus.Counter
	AssessmentsProduced  prometheus.Counter
	TransformErrors      prometheus.Counter
	PipelineRunning      prometheus.Gauge
	BatchSize            prometheus.Histogram
	BatchDuration        prometheus.Histogram
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()

	prometheus.MustRegister(
		m.AssessmentsComputed,
		m.AssessmentFailures,
		m.DegradedLookups,
		m.AssessmentDuration,
		m.ObservationsConsumed,
		m.AssessmentsProduced,
		m.TransformErrors,
		m.PipelineRunning,
		m.BatchSize,
		m.BatchDuration,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		AssessmentsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "assessments_computed_total",
			Help:      "Completed ignition assessments by risk category.",
		}, []string{"category"}),
		AssessmentFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "assessment_failures_total",
			Help:      "Assessments that could not produce a result, by reason.",
		}, []string{"reason"}),
		DegradedLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "degraded_lookups_total",
			Help:      "Lookups that fell back to a default value, by stage.",
		}, []string{"stage"}),
		AssessmentDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ignition",
			Name:      "assessment_duration_seconds",
			Help:      "Duration of one full assessment computation.",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		}),
		ObservationsConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "observations_consumed_total",
			Help:      "Total observations read from the source topic.",
		}),
		AssessmentsProduced: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "assessments_produced_total",
			Help:      "Total assessments written to the sink topic.",
		}),
		TransformErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ignition",
			Name:      "transform_errors_total",
			Help:      "Observations skipped because assessment failed.",
		}),
		PipelineRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ignition",
			Name:      "pipeline_running",
			Help:      "1 when the scoring loop is active, 0 when shut down.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ignition",
			Name:      "batch_size",
			Help:      "Number of observations per batch extracted from Kafka.",
			Buckets:   []float64{1, 5, 10, 20, 30, 40, 50, 75, 100},
		}),
		BatchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ignition",
			Name:      "batch_processing_duration_seconds",
			Help:      "Duration of a complete batch extract-assess-load cycle.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
	}
}
