package scoring

import (
	"fmt"

	"IrisServe/internal/domain/models"
)

// Chunk splits rows into consecutive batches of at most maxSize rows, in
// order, with the final batch possibly shorter. Concatenating the result
// reproduces rows exactly. A non-positive maxSize is a programming error.
func Chunk(rows []models.FeatureRow, maxSize int) [][]models.FeatureRow {
	if maxSize <= 0 {
		panic(fmt.Sprintf("scoring: batch size must be positive, got %d", maxSize))
	}

	var batches [][]models.FeatureRow
	for i := 0; i < len(rows); i += maxSize {
		end := i + maxSize
		if end > len(rows) {
			end = len(rows)
		}
		batches = append(batches, rows[i:end])
	}
	return batches
}
