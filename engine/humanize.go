package engine

import (
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// HUMANIZE — shared-scale text for groups and record columns
// ============================================================================

// HumanizeGroups fills Formatted on every group using one scale for the
// whole set. Null values render as format.NullText. When the values cannot
// share a scale the groups fall back to the raw number.
func HumanizeGroups(groups []Group, opts ...Option) []Group {
	if len(groups) == 0 {
		return groups
	}
	cfg := applyOptions(opts)

	samples := make([]scale.Sample, len(groups))
	for i, g := range groups {
		samples[i] = g.Value
	}
	texts := formatSamples(samples, cfg, "group value")

	out := make([]Group, len(groups))
	for i, g := range groups {
		g.Formatted = texts[i]
		out[i] = g
	}
	return out
}

// ColumnFormat names a measure and its format kind.
type ColumnFormat struct {
	Measure string
	Kind    format.Kind
}

// FormattedKey is the dimension key HumanizeRecords writes a measure's
// text under.
func FormattedKey(measure string) string {
	return "__formatted_" + measure
}

// HumanizeRecords returns copies of records where each listed measure gains
// a FormattedKey dimension, with a scale shared per column. Kind "none"
// leaves the column untouched.
func HumanizeRecords(records []Record, columns []ColumnFormat) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		dims := make(map[string]string, len(r.Dimensions)+len(columns))
		for k, v := range r.Dimensions {
			dims[k] = v
		}
		out[i] = Record{Dimensions: dims, Measures: r.Measures}
	}

	for _, col := range columns {
		if col.Kind == format.KindNone {
			continue
		}
		samples := make([]scale.Sample, len(records))
		for i, r := range records {
			samples[i] = r.Sample(col.Measure)
		}
		cfg := applyOptions([]Option{WithKind(col.Kind)})
		for i, text := range formatSamples(samples, cfg, col.Measure) {
			out[i].Dimensions[FormattedKey(col.Measure)] = text
		}
	}
	return out
}

// formatSamples renders samples with one shared scale, degrading to the
// plain number when no scale can be chosen.
func formatSamples(samples []scale.Sample, cfg *config, what string) []string {
	col, err := format.FormatColumn(samples, cfg.Formatter, cfg.Format)
	if err == nil {
		return col.Texts
	}

	logging.Warn("formatting fell back to raw numbers", "column", what, "error", err)
	texts := make([]string, len(samples))
	for i, s := range samples {
		texts[i] = rawText(s)
	}
	return texts
}

func rawText(s scale.Sample) string {
	if s.IsNull() {
		return format.NullText
	}
	v, _ := s.Float64()
	return format.Plain{}.Format(v, format.Options{})
}
