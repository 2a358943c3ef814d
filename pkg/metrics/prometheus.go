package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	rowsResolved   prometheus.Counter
	batchesInvoked prometheus.Counter
	predictions    prometheus.Counter
	errorsTotal    *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
	latency        *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		rowsResolved: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "irisserve_rows_resolved_total",
				Help: "Total number of feature rows resolved from storage",
			},
		),
		batchesInvoked: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "irisserve_batches_invoked_total",
				Help: "Total number of batches sent to the inference endpoint",
			},
		),
		predictions: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "irisserve_predictions_total",
				Help: "Total number of predictions returned",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "irisserve_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		cacheHits: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "irisserve_cache_requests_total",
				Help: "Prediction cache lookups by outcome",
			},
			[]string{"outcome"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "irisserve_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRowsResolved records feature rows produced by the resolver.
func (r *Recorder) RecordRowsResolved(n int) {
	r.rowsResolved.Add(float64(n))
}

// RecordBatchInvoked records one endpoint invocation.
func (r *Recorder) RecordBatchInvoked() {
	r.batchesInvoked.Inc()
}

// RecordPredictions records predictions returned to a caller.
func (r *Recorder) RecordPredictions(n int) {
	r.predictions.Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(hit bool) {
	outcome := "miss"
	if hit {
		outcome = "hit"
	}
	r.cacheHits.WithLabelValues(outcome).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
