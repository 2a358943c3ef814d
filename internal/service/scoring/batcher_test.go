package scoring

import (
	"testing"

	"IrisServe/internal/domain/models"
)

func makeRows(n int) []models.FeatureRow {
	rows := make([]models.FeatureRow, n)
	for i := range rows {
		rows[i] = models.FeatureRow{float64(i), float64(i) + 0.1, float64(i) + 0.2, float64(i) + 0.3}
	}
	return rows
}

func TestChunkPartitionsExactly(t *testing.T) {
	rows := makeRows(1200)
	batches := Chunk(rows, 500)

	if len(batches) != 3 {
		t.Fatalf("expected 3 batches, got %d", len(batches))
	}
	sizes := []int{500, 500, 200}
	for i, want := range sizes {
		if len(batches[i]) != want {
			t.Fatalf("batch %d: expected %d rows, got %d", i, want, len(batches[i]))
		}
	}

	// Concatenation must reproduce the input exactly
	idx := 0
	for _, b := range batches {
		for _, row := range b {
			if row[0] != rows[idx][0] {
				t.Fatalf("row %d out of order", idx)
			}
			idx++
		}
	}
	if idx != len(rows) {
		t.Fatalf("expected %d rows total, got %d", len(rows), idx)
	}
}

func TestChunkShortInput(t *testing.T) {
	batches := Chunk(makeRows(3), 500)
	if len(batches) != 1 {
		t.Fatalf("expected 1 batch, got %d", len(batches))
	}
	if len(batches[0]) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(batches[0]))
	}
}

func TestChunkExactMultiple(t *testing.T) {
	batches := Chunk(makeRows(1000), 500)
	if len(batches) != 2 {
		t.Fatalf("expected 2 batches, got %d", len(batches))
	}
	for i, b := range batches {
		if len(b) != 500 {
			t.Fatalf("batch %d: expected 500 rows, got %d", i, len(b))
		}
	}
}

func TestChunkEmpty(t *testing.T) {
	if batches := Chunk(nil, 500); len(batches) != 0 {
		t.Fatalf("expected no batches, got %d", len(batches))
	}
}

func TestChunkNonPositiveSizePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic")
		}
	}()
	Chunk(makeRows(1), 0)
}
