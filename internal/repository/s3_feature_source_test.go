package repository

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeStore struct {
	objects map[string]string // key -> body
	listing map[string][]string
	reads   []string
}

func (f *fakeStore) ListObjects(_ context.Context, prefix string) ([]string, error) {
	return f.listing[prefix], nil
}

func (f *fakeStore) GetObject(_ context.Context, key string) ([]byte, error) {
	body, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	f.reads = append(f.reads, key)
	return []byte(body), nil
}

func (f *fakeStore) Health(context.Context) error { return nil }

const csvHeader = "sepal_length,sepal_width,petal_length,petal_width\n"

func TestResolveAcrossDays(t *testing.T) {
	store := &fakeStore{
		listing: map[string][]string{
			"app/data/dt=2024-05-01/": {"app/data/dt=2024-05-01/a.csv"},
			"app/data/dt=2024-05-02/": {"app/data/dt=2024-05-02/b.csv"},
		},
		objects: map[string]string{
			"app/data/dt=2024-05-01/a.csv": csvHeader + "5.1,3.5,1.4,0.2\n",
			"app/data/dt=2024-05-02/b.csv": csvHeader + "6.7,3.0,5.2,2.3\n4.9,2.4,3.3,1.0\n",
		},
	}
	src := NewS3FeatureSource(store, "app/data", false)

	rows, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-02")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0][0] != 5.1 || rows[1][0] != 6.7 || rows[2][0] != 4.9 {
		t.Fatalf("rows out of order: %v", rows)
	}
	if len(rows[0]) != 4 {
		t.Fatalf("expected arity 4, got %d", len(rows[0]))
	}
}

func TestResolveSkipsNonCSV(t *testing.T) {
	store := &fakeStore{
		listing: map[string][]string{
			"app/data/dt=2024-05-01/": {
				"app/data/dt=2024-05-01/_SUCCESS",
				"app/data/dt=2024-05-01/a.csv",
			},
		},
		objects: map[string]string{
			"app/data/dt=2024-05-01/a.csv": csvHeader + "5.1,3.5,1.4,0.2\n",
		},
	}
	src := NewS3FeatureSource(store, "app/data", false)

	rows, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(store.reads) != 1 || !strings.HasSuffix(store.reads[0], "a.csv") {
		t.Fatalf("expected only the csv object to be read, got %v", store.reads)
	}
}

func TestResolveSortKeys(t *testing.T) {
	store := &fakeStore{
		listing: map[string][]string{
			"app/data/dt=2024-05-01/": {
				"app/data/dt=2024-05-01/b.csv",
				"app/data/dt=2024-05-01/a.csv",
			},
		},
		objects: map[string]string{
			"app/data/dt=2024-05-01/a.csv": csvHeader + "1,1,1,1\n",
			"app/data/dt=2024-05-01/b.csv": csvHeader + "2,2,2,2\n",
		},
	}
	src := NewS3FeatureSource(store, "app/data", true)

	rows, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows[0][0] != 1 || rows[1][0] != 2 {
		t.Fatalf("expected sorted read order, got %v", rows)
	}
}

func TestResolveEmptyRangeOfData(t *testing.T) {
	src := NewS3FeatureSource(&fakeStore{}, "app/data", false)

	rows, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-03")
	if err != nil {
		t.Fatalf("no data must not be an error, got %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("expected empty result, got %d rows", len(rows))
	}
}

func TestResolveInvertedRange(t *testing.T) {
	src := NewS3FeatureSource(&fakeStore{}, "app/data", false)

	if _, err := src.Resolve(context.Background(), "2024-05-02", "2024-05-01"); err == nil {
		t.Fatalf("expected error for inverted range")
	}
}

func TestResolveMalformedDate(t *testing.T) {
	src := NewS3FeatureSource(&fakeStore{}, "app/data", false)

	if _, err := src.Resolve(context.Background(), "05/01/2024", "2024-05-02"); err == nil {
		t.Fatalf("expected error for malformed start date")
	}
	if _, err := src.Resolve(context.Background(), "2024-05-01", "not-a-date"); err == nil {
		t.Fatalf("expected error for malformed end date")
	}
}

func TestResolveMissingColumn(t *testing.T) {
	store := &fakeStore{
		listing: map[string][]string{
			"app/data/dt=2024-05-01/": {"app/data/dt=2024-05-01/a.csv"},
		},
		objects: map[string]string{
			"app/data/dt=2024-05-01/a.csv": "sepal_length,sepal_width,petal_length\n5.1,3.5,1.4\n",
		},
	}
	src := NewS3FeatureSource(store, "app/data", false)

	_, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-01")
	if err == nil || !strings.Contains(err.Error(), "petal_width") {
		t.Fatalf("expected missing column error, got %v", err)
	}
}

func TestResolveNonNumericField(t *testing.T) {
	store := &fakeStore{
		listing: map[string][]string{
			"app/data/dt=2024-05-01/": {"app/data/dt=2024-05-01/a.csv"},
		},
		objects: map[string]string{
			"app/data/dt=2024-05-01/a.csv": csvHeader + "5.1,oops,1.4,0.2\n",
		},
	}
	src := NewS3FeatureSource(store, "app/data", false)

	if _, err := src.Resolve(context.Background(), "2024-05-01", "2024-05-01"); err == nil {
		t.Fatalf("expected error for non-numeric field")
	}
}
