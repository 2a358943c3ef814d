package usecase

import (
	"context"
	"time"

	"IrisServe/internal/domain/models"
	drepo "IrisServe/internal/domain/repository"
	"IrisServe/internal/service/scoring"
	"IrisServe/pkg/cache"
	xlogger "IrisServe/pkg/logger"
)

// Predictor scores a date range of feature rows against the inference
// endpoint. Each request is one linear pass: resolve, batch, invoke per
// batch in order, concatenate. Batches are sent strictly sequentially.
type Predictor struct {
	source    drepo.FeatureSource
	invoker   drepo.EndpointInvoker
	audit     drepo.AuditSink
	metrics   drepo.Metrics
	cache     cache.Service
	cacheTTL  time.Duration
	logger    *xlogger.Logger
	batchSize int
}

// NewPredictor creates a predictor. cache may be nil to disable response
// caching.
func NewPredictor(
	source drepo.FeatureSource,
	invoker drepo.EndpointInvoker,
	audit drepo.AuditSink,
	metrics drepo.Metrics,
	respCache cache.Service,
	cacheTTL time.Duration,
	logger *xlogger.Logger,
	batchSize int,
) *Predictor {
	return &Predictor{
		source:    source,
		invoker:   invoker,
		audit:     audit,
		metrics:   metrics,
		cache:     respCache,
		cacheTTL:  cacheTTL,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Predict resolves, batches and scores the given range.
func (p *Predictor) Predict(ctx context.Context, startDate, endDate string) (*models.PredictResponse, error) {
	started := time.Now()
	cacheKey := "predict:" + startDate + "|" + endDate

	if p.cache != nil {
		var cached models.PredictResponse
		if err := p.cache.Get(ctx, cacheKey, &cached); err == nil {
			p.metrics.RecordCacheLookup(true)
			return &cached, nil
		}
		p.metrics.RecordCacheLookup(false)
	}

	rows, err := p.source.Resolve(ctx, startDate, endDate)
	if err != nil {
		p.metrics.RecordError("resolve")
		return nil, err
	}
	p.metrics.RecordRowsResolved(len(rows))

	// No data for the range is a valid outcome; skip the endpoint entirely.
	if len(rows) == 0 {
		return &models.PredictResponse{Count: 0, Predictions: []models.Prediction{}}, nil
	}

	batches := scoring.Chunk(rows, p.batchSize)
	predictions := make([]models.Prediction, 0, len(rows))
	for _, batch := range batches {
		payload := scoring.EncodeCSV(batch)
		body, err := p.invoker.Invoke(ctx, payload)
		if err != nil {
			p.metrics.RecordError("invoke")
			return nil, err
		}
		p.metrics.RecordBatchInvoked()
		predictions = append(predictions, scoring.DecodePredictions(body)...)
	}

	p.metrics.RecordPredictions(len(predictions))
	p.metrics.RecordLatency("predict", time.Since(started).Seconds())

	resp := &models.PredictResponse{
		Count:       len(predictions),
		Predictions: predictions,
		StartDate:   startDate,
		EndDate:     endDate,
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, cacheKey, resp, p.cacheTTL); err != nil {
			p.logger.Warn("cache store failed", xlogger.Error(err))
		}
	}

	// Audit is best effort: a sink failure must not fail a scored request.
	rec := &models.AuditRecord{
		StartDate:   startDate,
		EndDate:     endDate,
		RowCount:    len(rows),
		BatchCount:  len(batches),
		Predictions: len(predictions),
		DurationMs:  time.Since(started).Milliseconds(),
		ScoredAt:    time.Now().UTC(),
	}
	if err := p.audit.Record(ctx, rec); err != nil {
		p.metrics.RecordError("audit")
		p.logger.Warn("audit record failed", xlogger.Error(err))
	}

	return resp, nil
}

// Health reports the readiness of the feature source and the audit sink.
func (p *Predictor) Health(ctx context.Context) error {
	if err := p.source.Health(ctx); err != nil {
		return err
	}
	return p.audit.Health(ctx)
}
