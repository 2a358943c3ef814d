package repository

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"IrisServe/internal/domain/models"
	"IrisServe/internal/domain/repository"
	xhttp "IrisServe/pkg/http"
	"IrisServe/pkg/util"
)

// ObjectStore is the slice of the S3 client the resolver needs.
type ObjectStore interface {
	ListObjects(ctx context.Context, prefix string) ([]string, error)
	GetObject(ctx context.Context, key string) ([]byte, error)
	Health(ctx context.Context) error
}

// S3FeatureSource resolves date ranges against a date-partitioned CSV
// layout: <prefix>/dt=YYYY-MM-DD/<file>.csv, each file carrying named
// feature columns.
type S3FeatureSource struct {
	store    ObjectStore
	prefix   string
	sortKeys bool
}

// NewS3FeatureSource creates a resolver over the given store. When sortKeys
// is set, object keys within a day are sorted by name before reading;
// otherwise the storage listing order is kept as-is. That order is
// storage-defined and callers must not assume it is chronological.
func NewS3FeatureSource(store ObjectStore, prefix string, sortKeys bool) repository.FeatureSource {
	return &S3FeatureSource{
		store:    store,
		prefix:   strings.TrimSuffix(prefix, "/"),
		sortKeys: sortKeys,
	}
}

func (s *S3FeatureSource) Resolve(ctx context.Context, startDate, endDate string) ([]models.FeatureRow, error) {
	start, err := util.ParseDate(startDate)
	if err != nil {
		return nil, xhttp.BadRequestError(err.Error())
	}
	end, err := util.ParseDate(endDate)
	if err != nil {
		return nil, xhttp.BadRequestError(err.Error())
	}

	days, err := util.EnumerateDays(start, end)
	if err != nil {
		return nil, xhttp.BadRequestError(err.Error())
	}

	var rows []models.FeatureRow
	for _, day := range days {
		prefix := fmt.Sprintf("%s/dt=%s/", s.prefix, util.FormatDay(day))
		keys, err := s.store.ListObjects(ctx, prefix)
		if err != nil {
			return nil, err
		}
		if s.sortKeys {
			sort.Strings(keys)
		}
		for _, key := range keys {
			if !strings.HasSuffix(key, ".csv") {
				continue
			}
			body, err := s.store.GetObject(ctx, key)
			if err != nil {
				return nil, err
			}
			fileRows, err := parseFeatureCSV(body)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", key, err)
			}
			rows = append(rows, fileRows...)
		}
	}

	return rows, nil
}

func (s *S3FeatureSource) Health(ctx context.Context) error {
	return s.store.Health(ctx)
}

// parseFeatureCSV reads a headered CSV file and extracts the feature
// columns in model order. A missing or non-numeric field aborts the whole
// parse; there is no partial-result recovery.
func parseFeatureCSV(body []byte) ([]models.FeatureRow, error) {
	reader := csv.NewReader(bytes.NewReader(body))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	colIdx := make(map[string]int, len(header))
	for i, name := range header {
		colIdx[strings.TrimSpace(name)] = i
	}

	indices := make([]int, models.FeatureArity)
	for i, col := range models.FeatureColumns {
		idx, ok := colIdx[col]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
		indices[i] = idx
	}

	rows := make([]models.FeatureRow, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		row := make(models.FeatureRow, models.FeatureArity)
		for i, idx := range indices {
			if idx >= len(record) {
				return nil, fmt.Errorf("row %d: missing field %q", lineNo+2, models.FeatureColumns[i])
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(record[idx]), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d: field %q is not numeric: %q", lineNo+2, models.FeatureColumns[i], record[idx])
			}
			row[i] = v
		}
		rows = append(rows, row)
	}

	return rows, nil
}
