package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"IrisServe/internal/domain/models"
	"IrisServe/internal/usecase"
	xhttp "IrisServe/pkg/http"
	xlogger "IrisServe/pkg/logger"
)

type stubSource struct {
	rows  []models.FeatureRow
	err   error
	calls int
}

func (s *stubSource) Resolve(context.Context, string, string) ([]models.FeatureRow, error) {
	s.calls++
	return s.rows, s.err
}

func (s *stubSource) Health(context.Context) error { return nil }

type stubInvoker struct {
	body  string
	err   error
	calls int
}

func (s *stubInvoker) Invoke(context.Context, string) (string, error) {
	s.calls++
	return s.body, s.err
}

func (s *stubInvoker) Name() string { return "stub" }

type stubAudit struct{}

func (stubAudit) Record(context.Context, *models.AuditRecord) error { return nil }
func (stubAudit) Health(context.Context) error                      { return nil }
func (stubAudit) Close() error                                      { return nil }

type stubMetrics struct{}

func (stubMetrics) RecordRowsResolved(int)        {}
func (stubMetrics) RecordBatchInvoked()           {}
func (stubMetrics) RecordPredictions(int)         {}
func (stubMetrics) RecordError(string)            {}
func (stubMetrics) RecordCacheLookup(bool)        {}
func (stubMetrics) RecordLatency(string, float64) {}

func newTestHandler(t *testing.T, source *stubSource, invoker *stubInvoker) *PredictEchoHandler {
	t.Helper()
	log, err := xlogger.New(&xlogger.Config{Level: "error", Format: "json", Output: "stderr"})
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	predictor := usecase.NewPredictor(source, invoker, stubAudit{}, stubMetrics{}, nil, 0, log, 500)
	return NewPredictEchoHandler(log, predictor)
}

func doPredict(t *testing.T, h *PredictEchoHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.RegisterRoutes(e)
	req := httptest.NewRequest(http.MethodPost, "/api/predict", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestPredictMissingFieldRejected(t *testing.T) {
	source := &stubSource{}
	invoker := &stubInvoker{}
	h := newTestHandler(t, source, invoker)

	rec := doPredict(t, h, `{"start_date":"2024-05-01"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
	if source.calls != 0 || invoker.calls != 0 {
		t.Fatalf("validation failure must not touch storage or endpoint")
	}
}

func TestPredictSuccessEnvelope(t *testing.T) {
	source := &stubSource{rows: []models.FeatureRow{
		{5.1, 3.5, 1.4, 0.2},
		{6.7, 3.0, 5.2, 2.3},
	}}
	invoker := &stubInvoker{body: "0.0\nsetosa\n"}
	h := newTestHandler(t, source, invoker)

	rec := doPredict(t, h, `{"start_date":"2024-05-01","end_date":"2024-05-02"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp models.PredictResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp.Count != 2 || len(resp.Predictions) != 2 {
		t.Fatalf("expected 2 predictions, got %+v", resp)
	}
	if !resp.Predictions[0].Numeric || resp.Predictions[0].Number != 0 {
		t.Fatalf("expected numeric 0 at index 0, got %+v", resp.Predictions[0])
	}
	if resp.Predictions[1].Label != "setosa" {
		t.Fatalf("expected label setosa at index 1, got %+v", resp.Predictions[1])
	}
	if resp.StartDate != "2024-05-01" || resp.EndDate != "2024-05-02" {
		t.Fatalf("range not echoed: %+v", resp)
	}
}

func TestPredictEmptyRange(t *testing.T) {
	source := &stubSource{}
	invoker := &stubInvoker{}
	h := newTestHandler(t, source, invoker)

	rec := doPredict(t, h, `{"start_date":"2024-05-01","end_date":"2024-05-02"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := `"predictions":[]`
	if !strings.Contains(rec.Body.String(), want) {
		t.Fatalf("expected %s in body, got %s", want, rec.Body.String())
	}
	if invoker.calls != 0 {
		t.Fatalf("endpoint must not be invoked for an empty range")
	}
}

func TestPredictBadDateRange(t *testing.T) {
	source := &stubSource{err: xhttp.BadRequestError(`invalid date "05/01/2024": expected YYYY-MM-DD`)}
	h := newTestHandler(t, source, &stubInvoker{})

	rec := doPredict(t, h, `{"start_date":"05/01/2024","end_date":"2024-05-02"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestPredictEndpointFailure(t *testing.T) {
	source := &stubSource{rows: []models.FeatureRow{{5.1, 3.5, 1.4, 0.2}}}
	invoker := &stubInvoker{err: xhttp.BadGatewayError("invoke endpoint failed")}
	h := newTestHandler(t, source, invoker)

	rec := doPredict(t, h, `{"start_date":"2024-05-01","end_date":"2024-05-01"}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] == "" {
		t.Fatalf("expected error envelope, got %s", rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, &stubSource{}, &stubInvoker{})
	e := echo.New()
	h.RegisterRoutes(e)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}
