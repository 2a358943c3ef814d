package scoring

import (
	"strconv"
	"strings"

	"IrisServe/internal/domain/models"
)

// EncodeCSV serializes a batch as newline-separated CSV rows with no header,
// one line per row terminated by a single newline. Floats use shortest
// locale-independent formatting.
func EncodeCSV(batch []models.FeatureRow) string {
	var b strings.Builder
	for _, row := range batch {
		for i, v := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodePredictions parses an endpoint response, one prediction per line.
// Lines that parse as floats become numeric predictions; anything else is
// kept verbatim, since the model may return categorical labels.
func DecodePredictions(responseText string) []models.Prediction {
	text := strings.TrimSpace(responseText)
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	preds := make([]models.Prediction, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimRight(line, "\r")
		if v, err := strconv.ParseFloat(line, 64); err == nil {
			preds = append(preds, models.NumberPrediction(v))
		} else {
			preds = append(preds, models.LabelPrediction(line))
		}
	}
	return preds
}
