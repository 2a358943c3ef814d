package repository

import (
	"context"

	"IrisServe/internal/domain/models"
)

// FeatureSource resolves a calendar date range to ordered feature rows.
type FeatureSource interface {
	// Resolve enumerates every day in [startDate, endDate] and reads all
	// partitioned records for each day. The empty result is a valid
	// "no data" outcome, not an error.
	Resolve(ctx context.Context, startDate, endDate string) ([]models.FeatureRow, error)
	Health(ctx context.Context) error
}

// EndpointInvoker sends one encoded batch to the inference endpoint and
// returns the raw response body. Exactly one call per invocation, no retry.
type EndpointInvoker interface {
	Invoke(ctx context.Context, payload string) (string, error)
	Name() string
}

// AuditSink records scored requests.
type AuditSink interface {
	Record(ctx context.Context, rec *models.AuditRecord) error
	Health(ctx context.Context) error
	Close() error
}

// Metrics abstracts the metrics recorder.
type Metrics interface {
	RecordRowsResolved(n int)
	RecordBatchInvoked()
	RecordPredictions(n int)
	RecordError(kind string)
	RecordCacheLookup(hit bool)
	RecordLatency(op string, seconds float64)
}
