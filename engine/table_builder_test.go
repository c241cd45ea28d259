package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/scale"
)

func texts(row []Cell) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = c.Text
	}
	return out
}

func TestBuildAggregatedTable(t *testing.T) {
	table := BuildTable("Revenue by region", salesView(), "region", []string{"revenue"})

	require.Len(t, table.Columns, 3)
	assert.Equal(t, "Region", table.Columns[0].Label)
	revenue := table.Columns[1]
	assert.Equal(t, "Revenue", revenue.Label)
	assert.Equal(t, scale.Million, revenue.Scale)
	require.NotNil(t, revenue.Spacing)
	assert.Equal(t, align.Spacing{MaxIntegerDigits: 1, MaxFractionDigits: 1, MaxSuffixChars: 1}, *revenue.Spacing)
	assert.Nil(t, revenue.PixelWidths)

	require.Len(t, table.Rows, 3)
	assert.Equal(t, []string{"EMEA", "2.0M", "2"}, texts(table.Rows[0]))
	assert.Equal(t, []string{"APAC", "0.4M", "2"}, texts(table.Rows[1]))
	assert.Equal(t, []string{"LATAM", format.NullText, "1"}, texts(table.Rows[2]))
	assert.Nil(t, table.Rows[2][1].Parts)

	require.NotNil(t, table.Summary)
	assert.Equal(t, "2.4M", table.Summary.Values["revenue"])
	assert.Equal(t, "5", table.Summary.Values["count"])
}

func TestBuildListTableAlignsColumn(t *testing.T) {
	table := BuildTable("Sales", salesView(), "", []string{"revenue"},
		WithWidthFunc(align.MonospaceWidth(1)))

	require.Len(t, table.Columns, 3)
	revenue := table.Columns[2]
	assert.Equal(t, scale.Thousand, revenue.Scale)
	require.NotNil(t, revenue.Spacing)
	assert.Equal(t, align.Spacing{MaxIntegerDigits: 4, MaxFractionDigits: 1, MaxSuffixChars: 1}, *revenue.Spacing)
	require.NotNil(t, revenue.PixelWidths)
	assert.Equal(t, align.PixelWidths{Integer: 4, Dot: 1, Fraction: 1, Suffix: 1}, *revenue.PixelWidths)

	require.Len(t, table.Rows, 5)
	assert.Equal(t, []string{"EMEA", "Jan-2026", "1200.0k"}, texts(table.Rows[0]))
	assert.Equal(t, " 800.0k", table.Rows[1][2].Padded(revenue))
	assert.Equal(t, format.NullText, table.Rows[4][2].Padded(revenue))
	assert.Equal(t, "Total (5 records)", table.Summary.Label)
	assert.Equal(t, "2.4M", table.Summary.Values["revenue"])
}

func TestBuildTableCurrencyAndLimit(t *testing.T) {
	table := BuildTable("Top region", salesView(), "region", []string{"revenue"},
		WithKind(format.KindCurrency), WithLimit(1), WithAggregation("max"))

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Max Revenue", table.Columns[1].Label)
	assert.Equal(t, "$1.2M", table.Rows[0][1].Text)
	_, hasTotal := table.Summary.Values["revenue"]
	assert.False(t, hasTotal)
}

func TestBuildTableColumnKinds(t *testing.T) {
	table := BuildTable("", salesView(), "region", []string{"revenue"},
		WithColumnKinds(map[string]format.Kind{"revenue": format.KindCurrency}))

	assert.Equal(t, "$2.0M", table.Rows[0][1].Text)
	assert.Equal(t, "$2.4M", table.Summary.Values["revenue"])

	table = BuildTable("", salesView(), "region", []string{"revenue"},
		WithColumnKinds(map[string]format.Kind{"revenue": format.KindCurrency}),
		WithFormatter(format.Plain{}))
	assert.Equal(t, "2000000", table.Rows[0][1].Text)
}

func TestBuildTableFallsBackToRawNumbers(t *testing.T) {
	view := NewSliceView([]Record{
		{Dimensions: map[string]string{"k": "a"}, Measures: map[string]float64{"v": math.NaN()}},
		{Dimensions: map[string]string{"k": "b"}, Measures: map[string]float64{"v": 12.5}},
	})
	table := BuildTable("", view, "", []string{"v"})

	col := table.Columns[1]
	assert.Equal(t, scale.Symbol(""), col.Scale)
	assert.Nil(t, col.Spacing)
	assert.Equal(t, "NaN", table.Rows[0][1].Text)
	assert.Equal(t, "12.5", table.Rows[1][1].Text)
}

func TestBuildTableEmpty(t *testing.T) {
	table := BuildTable("nothing", NewSliceView(nil), "region", []string{"revenue"})
	assert.Empty(t, table.Columns)
	assert.Empty(t, table.Rows)
}

func TestHumanizeGroups(t *testing.T) {
	groups := HumanizeGroups(GroupAndAggregate(salesView(), "region", "revenue", "sum", "value_desc", 0))
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"2.0M", "0.4M", format.NullText},
		[]string{groups[0].Formatted, groups[1].Formatted, groups[2].Formatted})

	assert.Empty(t, HumanizeGroups(nil))
}

func TestHumanizeRecords(t *testing.T) {
	records := salesRecords()
	out := HumanizeRecords(records, []ColumnFormat{{Measure: "revenue", Kind: format.KindCurrency}})

	key := FormattedKey("revenue")
	assert.Equal(t, "$1200.0k", out[0].Dimensions[key])
	assert.Equal(t, "$400.0k", out[2].Dimensions[key])
	assert.Equal(t, format.NullText, out[3].Dimensions[key])
	_, mutated := records[0].Dimensions[key]
	assert.False(t, mutated)

	untouched := HumanizeRecords(records, []ColumnFormat{{Measure: "revenue", Kind: format.KindNone}})
	_, has := untouched[0].Dimensions[key]
	assert.False(t, has)
}

func TestLeaderboardScale(t *testing.T) {
	lb := BuildLeaderboard(salesView(), []string{"month", "region"}, "revenue", "sum", 0, 5, 7)

	// LATAM has no revenue, so the region values force the unscaled form
	assert.Equal(t, scale.None, lb.Scale)
	assert.Equal(t, "2000000", lb.Values["region"][0].Formatted)
	assert.Equal(t, format.NullText, lb.Values["region"][2].Formatted)

	assert.Equal(t, scale.Million, ScaleForLeaderboard(lb, 1, 7))
	assert.Equal(t, scale.None, ScaleForLeaderboard(nil, 5, 7))

	months := BuildLeaderboard(salesView(), []string{"month"}, "revenue", "sum", 0, 5, 7)
	assert.Equal(t, scale.Million, months.Scale)
	assert.Equal(t, "1.6M", months.Values["month"][0].Formatted)
	assert.Equal(t, "0.8M", months.Values["month"][1].Formatted)
}

func TestBuildGrowth(t *testing.T) {
	g := BuildGrowth(salesView(), "month", "revenue")
	assert.Equal(t, "Jan-2026", g.EarliestPeriod)
	assert.Equal(t, "Feb-2026", g.LatestPeriod)
	assert.Equal(t, 1_600_000.0, g.EarliestValue)
	assert.Equal(t, -800_000.0, g.ChangeAmount)
	assert.Equal(t, "decreased", g.Direction)
	assert.Equal(t, "↓ 50%", g.Display)

	single := BuildGrowth(ApplyFilters(salesView(), Filters{Dimensions: map[string][]string{"month": {"Jan-2026"}}}), "month", "revenue")
	assert.Equal(t, "insufficient data", single.Direction)

	assert.Equal(t, "Jan-2026 – Feb-2026", DerivePeriod(salesView(), "month"))
	assert.Equal(t, "All time", DerivePeriod(salesView(), "quarter"))
}
