package models

import (
	"encoding/json"
	"time"
)

// FeatureArity is the number of feature columns per scoring input.
const FeatureArity = 4

// FeatureColumns names the feature fields in model order.
var FeatureColumns = [FeatureArity]string{
	"sepal_length",
	"sepal_width",
	"petal_length",
	"petal_width",
}

// FeatureRow is one fixed-arity numeric scoring input.
type FeatureRow []float64

// Prediction is one scalar result aligned with its source row. The endpoint
// may return either a numeric score or a categorical label per line, so the
// value is a number-or-string variant.
type Prediction struct {
	Number  float64
	Label   string
	Numeric bool
}

// NumberPrediction builds a numeric prediction.
func NumberPrediction(v float64) Prediction {
	return Prediction{Number: v, Numeric: true}
}

// LabelPrediction builds a categorical prediction.
func LabelPrediction(s string) Prediction {
	return Prediction{Label: s}
}

// MarshalJSON renders the variant as a bare JSON number or string.
func (p Prediction) MarshalJSON() ([]byte, error) {
	if p.Numeric {
		return json.Marshal(p.Number)
	}
	return json.Marshal(p.Label)
}

// UnmarshalJSON accepts either a JSON number or a string.
func (p *Prediction) UnmarshalJSON(data []byte) error {
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = NumberPrediction(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*p = LabelPrediction(s)
	return nil
}

// PredictRequest is the inbound request body.
type PredictRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
}

// PredictResponse is the outbound success body. Dates are echoed only when
// predictions were produced.
type PredictResponse struct {
	Count       int          `json:"count"`
	Predictions []Prediction `json:"predictions"`
	StartDate   string       `json:"start_date,omitempty"`
	EndDate     string       `json:"end_date,omitempty"`
}

// AuditRecord describes one scored request for the audit trail.
type AuditRecord struct {
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	RowCount    int       `json:"row_count"`
	BatchCount  int       `json:"batch_count"`
	Predictions int       `json:"predictions"`
	DurationMs  int64     `json:"duration_ms"`
	ScoredAt    time.Time `json:"scored_at"`
}
