package engine

import (
	"fmt"

	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// TABLE BUILDER — Produces aligned TableData from a RecordView
// ============================================================================
// Every numeric column is formatted with a single scale and carries the
// spacing (and optionally pixel widths) its cells share. A column that can
// not be formatted or split falls back to raw numbers without metadata.
// ============================================================================

// BuildTable produces a table of measures. With a dimension, rows are the
// dimension's groups aggregated per WithAggregation and ordered by the first
// measure; without one, every record is a row.
func BuildTable(title string, view RecordView, dimension string, measures []string, opts ...Option) *TableData {
	cfg := applyOptions(opts)
	if dimension == "" {
		return buildListTable(title, view, measures, cfg)
	}
	return buildAggregatedTable(title, view, dimension, measures, cfg)
}

// ============================================================================
// LIST TABLE — Row per record
// ============================================================================

func buildListTable(title string, view RecordView, measures []string, cfg *config) *TableData {
	if view.Len() == 0 {
		return emptyTable(title)
	}

	dimKeys := view.DimensionKeys()
	columns := make([]Column, 0, len(dimKeys)+len(measures))
	cols := make([][]Cell, 0, len(dimKeys)+len(measures))

	for _, key := range dimKeys {
		columns = append(columns, textColumn(key, LabelForDimension(key)))
		cells := make([]Cell, view.Len())
		for i := range cells {
			cells[i] = Cell{Text: view.Dimension(i, key)}
		}
		cols = append(cols, cells)
	}

	summary := &Summary{
		Label:  fmt.Sprintf("Total (%d records)", view.Len()),
		Values: make(map[string]string, len(measures)),
	}
	for _, m := range measures {
		col, cells := numericColumn(m, LabelForDimension(m), Samples(view, m), cfg)
		columns = append(columns, col)
		cols = append(cols, cells)
		summary.Values[m] = totalText(SumMeasure(view, m), m, cfg)
	}

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    transpose(cols, view.Len()),
		Summary: summary,
	}
}

// ============================================================================
// AGGREGATED TABLE — Row per group
// ============================================================================

func buildAggregatedTable(title string, view RecordView, dimension string, measures []string, cfg *config) *TableData {
	if view.Len() == 0 || len(measures) == 0 {
		return emptyTable(title)
	}

	groups := GroupAndAggregate(view, dimension, measures[0], cfg.Aggregation, cfg.SortBy, cfg.Limit)

	columns := []Column{textColumn(dimension, LabelForDimension(dimension))}
	labels := make([]Cell, len(groups))
	counts := make([]Cell, len(groups))
	totalCount := 0
	for i, g := range groups {
		labels[i] = Cell{Text: g.Label}
		counts[i] = Cell{Text: fmt.Sprintf("%d", g.Count)}
		totalCount += g.Count
	}
	cols := [][]Cell{labels}

	summary := &Summary{Label: "Total", Values: make(map[string]string, len(measures)+1)}
	for mi, m := range measures {
		samples := make([]scale.Sample, len(groups))
		for i, g := range groups {
			if mi == 0 {
				samples[i] = g.Value
				continue
			}
			other := g
			aggregateGroup(&other, m, cfg.Aggregation)
			samples[i] = other.Value
		}
		col, cells := numericColumn(m, LabelForAggregation(cfg.Aggregation, m), samples, cfg)
		columns = append(columns, col)
		cols = append(cols, cells)
		if cfg.Aggregation == "sum" || cfg.Aggregation == "count" {
			summary.Values[m] = totalText(sumSamples(samples), m, cfg)
		}
	}

	columns = append(columns, Column{Key: "count", Label: "Count", Type: "number", Align: "right"})
	cols = append(cols, counts)
	summary.Values["count"] = fmt.Sprintf("%d", totalCount)

	return &TableData{
		Title:   title,
		Columns: columns,
		Rows:    transpose(cols, len(groups)),
		Summary: summary,
	}
}

// ============================================================================
// COLUMN HELPERS
// ============================================================================

func emptyTable(title string) *TableData {
	return &TableData{
		Title:   title,
		Columns: []Column{},
		Rows:    [][]Cell{},
	}
}

func textColumn(key, label string) Column {
	return Column{Key: key, Label: label, Type: "text", Align: "left"}
}

// numericColumn formats samples with one scale, splits every non-null text
// and attaches the shared spacing.
func numericColumn(key, label string, samples []scale.Sample, cfg *config) (Column, []Cell) {
	col := Column{Key: key, Label: label, Type: "number", Align: "right"}
	cells := make([]Cell, len(samples))

	formatted, err := format.FormatColumn(samples, cfg.formatterForColumn(key), cfg.Format)
	if err != nil {
		logging.Warn("column formatting fell back to raw numbers", "column", key, "error", err)
		for i, s := range samples {
			cells[i] = Cell{Text: rawText(s)}
		}
		return col, cells
	}
	col.Scale = formatted.Scale

	parts := make([]align.Parts, 0, len(samples))
	for i, text := range formatted.Texts {
		cells[i] = Cell{Text: text}
		if samples[i].IsNull() {
			continue
		}
		p, err := align.Split(text)
		if err != nil {
			logging.Warn("column alignment skipped", "column", key, "error", err)
			for j := range cells {
				cells[j] = Cell{Text: formatted.Texts[j]}
			}
			return col, cells
		}
		cells[i].Parts = &p
		parts = append(parts, p)
	}
	if len(parts) == 0 {
		return col, cells
	}

	spacing, err := align.SpacingFor(parts)
	if err != nil {
		logging.Warn("column spacing skipped", "column", key, "error", err)
		return col, cells
	}
	col.Spacing = &spacing

	if cfg.Width != nil {
		px, err := align.PixelWidthsFor(parts, cfg.Width)
		if err != nil {
			logging.Warn("column pixel widths skipped", "column", key, "error", err)
		} else {
			col.PixelWidths = &px
		}
	}
	return col, cells
}

func transpose(cols [][]Cell, n int) [][]Cell {
	rows := make([][]Cell, n)
	for i := range rows {
		row := make([]Cell, len(cols))
		for c := range cols {
			row[c] = cols[c][i]
		}
		rows[i] = row
	}
	return rows
}

func sumSamples(samples []scale.Sample) scale.Sample {
	var total float64
	seen := false
	for _, s := range samples {
		if v, ok := s.Float64(); ok {
			total += v
			seen = true
		}
	}
	if !seen {
		return scale.Null()
	}
	return scale.Value(total)
}

// totalText formats a single total with a scale chosen from its own value.
func totalText(total scale.Sample, key string, cfg *config) string {
	v, ok := total.Float64()
	if !ok {
		return format.NullText
	}
	sym, err := scale.SelectValues(v)
	if err != nil {
		return rawText(total)
	}
	opts := cfg.Format
	opts.Scale = sym
	return cfg.formatterForColumn(key).Format(v, opts)
}
