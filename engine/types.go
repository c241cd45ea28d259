package engine

import (
	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// TALLY ENGINE TYPES — Dashboard tables over generic records
// ============================================================================
// Records carry string dimensions and numeric measures. A measure key that
// is absent from a record is a null sample, never a zero.
// ============================================================================

// ============================================================================
// RECORD — Generic data row
// ============================================================================

// Record is a single data row with string dimensions and numeric measures.
//
//	Record{Dimensions: {"region": "EMEA"}, Measures: {"revenue": 1.2e6}}
type Record struct {
	Dimensions map[string]string  `json:"dimensions"`
	Measures   map[string]float64 `json:"measures"`
}

// Sample returns the named measure, or a null sample when it is absent.
func (r Record) Sample(key string) scale.Sample {
	v, ok := r.Measures[key]
	if !ok {
		return scale.Null()
	}
	return scale.Value(v)
}

// Filters define which records to include.
// Keys are dimension names. Values are allowed values.
// OR within a dimension, AND across dimensions. Empty = all.
type Filters struct {
	Dimensions map[string][]string `json:"dimensions"`
}

// IsEmpty returns true if no filters are set.
func (f Filters) IsEmpty() bool {
	for _, vals := range f.Dimensions {
		if len(vals) > 0 {
			return false
		}
	}
	return true
}

// ============================================================================
// GROUP — Intermediate computation result
// ============================================================================

// Group is one aggregated bucket. Value is null when no record in the
// group had the measure. Formatted is filled by HumanizeGroups.
type Group struct {
	Key       string       `json:"key"`
	Label     string       `json:"label"`
	Value     scale.Sample `json:"value"`
	Count     int          `json:"count"`
	Formatted string       `json:"formatted,omitempty"`
	View      RecordView   `json:"-"`
}

// ============================================================================
// TABLE TYPES
// ============================================================================

// TableData is a render-ready table.
type TableData struct {
	Title   string   `json:"title"`
	Columns []Column `json:"columns"`
	Rows    [][]Cell `json:"rows"`
	Summary *Summary `json:"summary,omitempty"`
}

// Column defines a table column. Numeric columns carry the alignment
// metadata shared by every cell below them.
type Column struct {
	Key         string             `json:"key"`
	Label       string             `json:"label"`
	Type        string             `json:"type"`  // "text", "number"
	Align       string             `json:"align"` // "left", "right"
	Scale       scale.Symbol       `json:"scale,omitempty"`
	Spacing     *align.Spacing     `json:"spacing,omitempty"`
	PixelWidths *align.PixelWidths `json:"pixelWidths,omitempty"`
}

// Cell is one rendered table value. Parts is set for numeric cells whose
// text could be split.
type Cell struct {
	Text  string       `json:"text"`
	Parts *align.Parts `json:"parts,omitempty"`
}

// Padded returns the cell text padded to the column spacing, or the plain
// text when either side lacks alignment metadata.
func (c Cell) Padded(col Column) string {
	if c.Parts == nil || col.Spacing == nil {
		return c.Text
	}
	return c.Parts.Pad(*col.Spacing)
}

// Summary provides totals for a table.
type Summary struct {
	Label  string            `json:"label"`
	Values map[string]string `json:"values"`
}

// ============================================================================
// GROWTH TYPES
// ============================================================================

// GrowthData contains change-over-time metrics.
type GrowthData struct {
	EarliestValue  float64 `json:"earliestValue"`
	LatestValue    float64 `json:"latestValue"`
	EarliestPeriod string  `json:"earliestPeriod"`
	LatestPeriod   string  `json:"latestPeriod"`
	ChangeAmount   float64 `json:"changeAmount"`
	ChangeRatio    float64 `json:"changeRatio"`
	Direction      string  `json:"direction"` // "increased", "decreased", "unchanged", "insufficient data"
	Display        string  `json:"display"`
}
