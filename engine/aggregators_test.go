package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/tally/scale"
)

func salesRecords() []Record {
	return []Record{
		{Dimensions: map[string]string{"region": "EMEA", "month": "Jan-2026"}, Measures: map[string]float64{"revenue": 1_200_000}},
		{Dimensions: map[string]string{"region": "EMEA", "month": "Feb-2026"}, Measures: map[string]float64{"revenue": 800_000}},
		{Dimensions: map[string]string{"region": "APAC", "month": "Jan-2026"}, Measures: map[string]float64{"revenue": 400_000}},
		{Dimensions: map[string]string{"region": "APAC", "month": "Feb-2026"}, Measures: map[string]float64{}},
		{Dimensions: map[string]string{"region": "LATAM", "month": "Feb-2026"}},
	}
}

func salesView() RecordView {
	return NewSliceView(salesRecords(), "region", "month", "revenue")
}

func keys(groups []Group) []string {
	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.Key
	}
	return out
}

func TestSliceViewKeys(t *testing.T) {
	v := salesView()
	assert.Equal(t, 5, v.Len())
	assert.Equal(t, []string{"region", "month"}, v.DimensionKeys())
	assert.Equal(t, []string{"revenue"}, v.MeasureKeys())

	_, ok := v.Measure(3, "revenue")
	assert.False(t, ok)
	_, ok = v.Measure(99, "revenue")
	assert.False(t, ok)
	assert.Equal(t, "", v.Dimension(-1, "region"))
}

func TestGroupAndAggregateSkipsNulls(t *testing.T) {
	groups := GroupAndAggregate(salesView(), "region", "revenue", "sum", "value_desc", 0)
	require.Len(t, groups, 3)

	assert.Equal(t, []string{"EMEA", "APAC", "LATAM"}, keys(groups))
	assert.Equal(t, scale.Value(2_000_000), groups[0].Value)
	assert.Equal(t, scale.Value(400_000), groups[1].Value)
	assert.True(t, groups[2].Value.IsNull())
	assert.Equal(t, []int{2, 2, 1}, []int{groups[0].Count, groups[1].Count, groups[2].Count})
}

func TestGroupAndAggregateAggregations(t *testing.T) {
	tests := []struct {
		agg  string
		want scale.Sample
	}{
		{"sum", scale.Value(2_000_000)},
		{"avg", scale.Value(1_000_000)},
		{"max", scale.Value(1_200_000)},
		{"min", scale.Value(800_000)},
		{"count", scale.Value(2)},
	}
	for _, tt := range tests {
		t.Run(tt.agg, func(t *testing.T) {
			groups := GroupAndAggregate(salesView(), "region", "revenue", tt.agg, "", 1)
			require.Len(t, groups, 1)
			assert.Equal(t, "EMEA", groups[0].Key)
			assert.Equal(t, tt.want, groups[0].Value)
		})
	}
}

func TestGroupAndAggregateTotalAndYear(t *testing.T) {
	total := GroupAndAggregate(salesView(), "", "revenue", "avg", "", 0)
	require.Len(t, total, 1)
	assert.Equal(t, "Total", total[0].Label)
	assert.Equal(t, scale.Value(800_000), total[0].Value)

	years := GroupAndAggregate(salesView(), "year", "revenue", "sum", "", 0)
	require.Len(t, years, 1)
	assert.Equal(t, "2026", years[0].Key)
	assert.Equal(t, 5, years[0].Count)

	assert.Nil(t, GroupAndAggregate(NewSliceView(nil), "region", "revenue", "sum", "", 0))
}

func TestSortGroupsKeepsNullsLast(t *testing.T) {
	build := func() []Group {
		return []Group{
			{Key: "a", Value: scale.Null()},
			{Key: "b", Value: scale.Value(3)},
			{Key: "c", Value: scale.Value(1)},
			{Key: "d", Value: scale.Null()},
			{Key: "e", Value: scale.Value(2)},
		}
	}

	desc := build()
	SortGroups(desc, "value_desc")
	assert.Equal(t, []string{"b", "e", "c", "a", "d"}, keys(desc))

	asc := build()
	SortGroups(asc, "value_asc")
	assert.Equal(t, []string{"c", "e", "b", "a", "d"}, keys(asc))

	alpha := build()
	SortGroups(alpha, "alpha_desc")
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, keys(alpha))
}

func TestSortGroupsByDate(t *testing.T) {
	groups := []Group{{Key: "Mar-2026"}, {Key: "Dec-2025"}, {Key: "Jan-2026"}}
	SortGroups(groups, "date_asc")
	assert.Equal(t, []string{"Dec-2025", "Jan-2026", "Mar-2026"}, keys(groups))
	assert.Equal(t, 202601, ParseMonthOrder("Jan-2026"))
	assert.Equal(t, 0, ParseMonthOrder("soon"))
}

func TestFilters(t *testing.T) {
	f, err := ParseFilters([]string{"region=emea", "region=APAC", "month = Jan-2026"})
	require.NoError(t, err)

	v := ApplyFilters(salesView(), f)
	require.Equal(t, 2, v.Len())
	assert.Equal(t, "EMEA", v.Dimension(0, "region"))
	assert.Equal(t, "APAC", v.Dimension(1, "region"))

	same := salesView()
	assert.Same(t, same, ApplyFilters(same, Filters{}))

	_, err = ParseFilters([]string{"region"})
	assert.Error(t, err)
}

func TestDomainAdapter(t *testing.T) {
	type sale struct {
		Region  string
		Revenue float64
		Booked  bool
	}
	view := NewDomainAdapter[sale]().
		Dimension("region", func(s sale) string { return s.Region }).
		Measure("revenue", func(s sale) (float64, bool) { return s.Revenue, s.Booked }).
		Bind([]sale{{"EMEA", 10, true}, {"EMEA", 99, false}, {"APAC", 5, true}})

	assert.Equal(t, []string{"region"}, view.DimensionKeys())
	assert.Equal(t, []scale.Sample{scale.Value(10), scale.Null(), scale.Value(5)}, Samples(view, "revenue"))

	groups := GroupAndAggregate(view, "region", "revenue", "sum", "value_asc", 0)
	assert.Equal(t, []string{"APAC", "EMEA"}, keys(groups))
	assert.Equal(t, scale.Value(10), groups[1].Value)
}

func TestLabels(t *testing.T) {
	assert.Equal(t, "Region", LabelForDimension("region"))
	assert.Equal(t, "Avg Revenue", LabelForAggregation("avg", "revenue"))
	assert.Equal(t, "Count", LabelForAggregation("count", "revenue"))
	assert.Equal(t, []string{"EMEA", "APAC", "LATAM"}, UniqueValues(salesView(), "region"))
}
