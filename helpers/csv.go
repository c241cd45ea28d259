package helpers

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// CSV HELPER — Parses CSV data into []engine.Record
// ============================================================================
// The header row names the columns. Numeric cells become measures, empty
// and "null" cells become null samples (absent from both maps), anything
// else is a dimension.
// ============================================================================

// ParseCSV parses CSV bytes into Records. It also returns the snake_case
// column keys in header order.
func ParseCSV(data []byte) ([]engine.Record, []string, error) {
	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read CSV headers: %w", err)
	}
	keys := headerKeys(headers)

	var rows [][]string
	for line := 2; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Warn("skipping malformed CSV row", "line", line, "error", err)
			continue
		}
		rows = append(rows, row)
	}

	return rowsToRecords(keys, rows), keys, nil
}

// ParseCSVView parses CSV into a RecordView with columns in header order.
func ParseCSVView(data []byte) (engine.RecordView, []string, error) {
	records, keys, err := ParseCSV(data)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewSliceView(records, keys...), keys, nil
}

// Samples returns the key measure of every record, null where absent.
func Samples(records []engine.Record, key string) []scale.Sample {
	out := make([]scale.Sample, len(records))
	for i, r := range records {
		out[i] = r.Sample(key)
	}
	return out
}

func headerKeys(headers []string) []string {
	keys := make([]string, len(headers))
	for i, h := range headers {
		keys[i] = toSnakeCase(strings.TrimSpace(h))
	}
	return keys
}

// rowsToRecords classifies every cell. Rows with no content are dropped and
// cells beyond the header are ignored.
func rowsToRecords(keys []string, rows [][]string) []engine.Record {
	records := make([]engine.Record, 0, len(rows))
	for _, row := range rows {
		rec := engine.Record{
			Dimensions: make(map[string]string),
			Measures:   make(map[string]float64),
		}
		for i, val := range row {
			if i >= len(keys) {
				break
			}
			val = strings.TrimSpace(val)
			if isNullCell(val) {
				continue
			}
			if f, ok := parseNumber(val); ok {
				rec.Measures[keys[i]] = f
			} else {
				rec.Dimensions[keys[i]] = val
			}
		}
		if len(rec.Dimensions) == 0 && len(rec.Measures) == 0 {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// parseNumber accepts finite numbers only; "NaN" and "Inf" stay text.
func parseNumber(val string) (float64, bool) {
	f, err := strconv.ParseFloat(val, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func isNullCell(val string) bool {
	return val == "" || strings.EqualFold(val, "null")
}

// toSnakeCase converts "Column Name" → "column_name".
func toSnakeCase(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = strings.ReplaceAll(s, "-", "_")
	return s
}
