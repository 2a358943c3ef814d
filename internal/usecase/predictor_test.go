package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"IrisServe/internal/domain/models"
	"IrisServe/pkg/cache"
	xlogger "IrisServe/pkg/logger"
)

type fakeSource struct {
	rows  []models.FeatureRow
	err   error
	calls int
}

func (f *fakeSource) Resolve(context.Context, string, string) ([]models.FeatureRow, error) {
	f.calls++
	return f.rows, f.err
}

func (f *fakeSource) Health(context.Context) error { return nil }

// fakeInvoker echoes one prediction line per input row, carrying the row's
// first feature so ordering can be asserted end to end.
type fakeInvoker struct {
	err      error
	payloads []string
}

func (f *fakeInvoker) Invoke(_ context.Context, payload string) (string, error) {
	f.payloads = append(f.payloads, payload)
	if f.err != nil {
		return "", f.err
	}
	var out strings.Builder
	for _, line := range strings.Split(strings.TrimSpace(payload), "\n") {
		out.WriteString(strings.Split(line, ",")[0])
		out.WriteString("\n")
	}
	return out.String(), nil
}

func (f *fakeInvoker) Name() string { return "fake" }

type fakeAudit struct {
	records []*models.AuditRecord
	err     error
}

func (f *fakeAudit) Record(_ context.Context, rec *models.AuditRecord) error {
	f.records = append(f.records, rec)
	return f.err
}

func (f *fakeAudit) Health(context.Context) error { return nil }
func (f *fakeAudit) Close() error                 { return nil }

type fakeMetrics struct {
	errors []string
}

func (f *fakeMetrics) RecordRowsResolved(int)        {}
func (f *fakeMetrics) RecordBatchInvoked()           {}
func (f *fakeMetrics) RecordPredictions(int)         {}
func (f *fakeMetrics) RecordError(kind string)       { f.errors = append(f.errors, kind) }
func (f *fakeMetrics) RecordCacheLookup(bool)        {}
func (f *fakeMetrics) RecordLatency(string, float64) {}

func testLogger(t *testing.T) *xlogger.Logger {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func makeRows(n int) []models.FeatureRow {
	rows := make([]models.FeatureRow, n)
	for i := range rows {
		rows[i] = models.FeatureRow{float64(i), 3.5, 1.4, 0.2}
	}
	return rows
}

func TestPredictBatchesAndPreservesOrder(t *testing.T) {
	source := &fakeSource{rows: makeRows(1200)}
	invoker := &fakeInvoker{}
	audit := &fakeAudit{}
	p := NewPredictor(source, invoker, audit, &fakeMetrics{}, nil, 0, testLogger(t), 500)

	resp, err := p.Predict(context.Background(), "2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 1200 || len(resp.Predictions) != 1200 {
		t.Fatalf("expected 1200 predictions, got count=%d len=%d", resp.Count, len(resp.Predictions))
	}
	if len(invoker.payloads) != 3 {
		t.Fatalf("expected 3 endpoint calls, got %d", len(invoker.payloads))
	}
	for i, pred := range resp.Predictions {
		if pred.Number != float64(i) {
			t.Fatalf("prediction %d out of order: got %v", i, pred.Number)
		}
	}
	if resp.StartDate != "2024-05-01" || resp.EndDate != "2024-05-03" {
		t.Fatalf("range not echoed: %q..%q", resp.StartDate, resp.EndDate)
	}
	if len(audit.records) != 1 || audit.records[0].BatchCount != 3 {
		t.Fatalf("expected one audit record with 3 batches, got %+v", audit.records)
	}
}

func TestPredictEmptyRangeSkipsEndpoint(t *testing.T) {
	source := &fakeSource{}
	invoker := &fakeInvoker{}
	audit := &fakeAudit{}
	p := NewPredictor(source, invoker, audit, &fakeMetrics{}, nil, 0, testLogger(t), 500)

	resp, err := p.Predict(context.Background(), "2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("expected count 0, got %d", resp.Count)
	}
	if resp.Predictions == nil || len(resp.Predictions) != 0 {
		t.Fatalf("expected empty, non-nil predictions, got %#v", resp.Predictions)
	}
	if len(invoker.payloads) != 0 {
		t.Fatalf("endpoint must not be called for an empty range, got %d calls", len(invoker.payloads))
	}
	if len(audit.records) != 0 {
		t.Fatalf("empty range must not be audited, got %d records", len(audit.records))
	}
}

func TestPredictResolveError(t *testing.T) {
	source := &fakeSource{err: errors.New("list failed")}
	metrics := &fakeMetrics{}
	p := NewPredictor(source, &fakeInvoker{}, &fakeAudit{}, metrics, nil, 0, testLogger(t), 500)

	if _, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01"); err == nil {
		t.Fatalf("expected resolve error to propagate")
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "resolve" {
		t.Fatalf("expected one resolve error recorded, got %v", metrics.errors)
	}
}

func TestPredictInvokeError(t *testing.T) {
	source := &fakeSource{rows: makeRows(10)}
	invoker := &fakeInvoker{err: errors.New("endpoint down")}
	metrics := &fakeMetrics{}
	p := NewPredictor(source, invoker, &fakeAudit{}, metrics, nil, 0, testLogger(t), 500)

	if _, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01"); err == nil {
		t.Fatalf("expected invoke error to propagate")
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "invoke" {
		t.Fatalf("expected one invoke error recorded, got %v", metrics.errors)
	}
}

func TestPredictAuditFailureDoesNotFailRequest(t *testing.T) {
	source := &fakeSource{rows: makeRows(2)}
	audit := &fakeAudit{err: errors.New("sink down")}
	metrics := &fakeMetrics{}
	p := NewPredictor(source, &fakeInvoker{}, audit, metrics, nil, 0, testLogger(t), 500)

	resp, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("audit failure must not fail a scored request: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 predictions, got %d", resp.Count)
	}
	if len(metrics.errors) != 1 || metrics.errors[0] != "audit" {
		t.Fatalf("expected one audit error recorded, got %v", metrics.errors)
	}
}

func TestPredictCacheHitSkipsPipeline(t *testing.T) {
	source := &fakeSource{rows: makeRows(5)}
	invoker := &fakeInvoker{}
	mem := cache.NewMemoryCache()
	defer mem.Close()
	p := NewPredictor(source, invoker, &fakeAudit{}, &fakeMetrics{}, mem, time.Minute, testLogger(t), 500)

	first, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if source.calls != 1 || len(invoker.payloads) != 1 {
		t.Fatalf("cached call must skip resolve and invoke: resolves=%d invokes=%d", source.calls, len(invoker.payloads))
	}
	if second.Count != first.Count {
		t.Fatalf("cached response differs: %d vs %d", second.Count, first.Count)
	}
}

func TestPredictLabelPredictions(t *testing.T) {
	source := &fakeSource{rows: makeRows(2)}
	labeler := &labelInvoker{}
	p := NewPredictor(source, labeler, &fakeAudit{}, &fakeMetrics{}, nil, 0, testLogger(t), 500)

	resp, err := p.Predict(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, pred := range resp.Predictions {
		if pred.Numeric || pred.Label != "setosa" {
			t.Fatalf("prediction %d: expected label %q, got %+v", i, "setosa", pred)
		}
	}
}

type labelInvoker struct{}

func (l *labelInvoker) Invoke(_ context.Context, payload string) (string, error) {
	n := len(strings.Split(strings.TrimSpace(payload), "\n"))
	return strings.Repeat("setosa\n", n), nil
}

func (l *labelInvoker) Name() string { return "labels" }
