package engine

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// AGGREGATORS — Grouping, Aggregation, and Sorting via RecordView
// ============================================================================
// Aggregations skip null measures. A group where every record is null has a
// null value, which value sorts keep at the tail.
// ============================================================================

// Aggregations lists the accepted aggregation names.
var Aggregations = []string{"sum", "count", "avg", "max", "min"}

// GroupAndAggregate runs group → aggregate → sort → limit. An empty
// dimension yields a single "Total" group.
func GroupAndAggregate(
	view RecordView,
	dimension string,
	measure string,
	aggregation string,
	sortBy string,
	limit int,
) []Group {
	if view.Len() == 0 {
		return nil
	}

	var groups []Group
	if dimension == "" {
		groups = []Group{{
			Key:   "all",
			Label: "Total",
			View:  view,
		}}
	} else {
		groups = groupBy(view, dimension)
	}

	for i := range groups {
		aggregateGroup(&groups[i], measure, aggregation)
	}

	SortGroups(groups, sortBy)

	if limit > 0 && len(groups) > limit {
		groups = groups[:limit]
	}
	return groups
}

// ============================================================================
// GROUPING
// ============================================================================

func groupBy(view RecordView, dimension string) []Group {
	grouped := make(map[string][]int)
	order := make([]string, 0)

	for i := 0; i < view.Len(); i++ {
		key := getDimensionValue(view, i, dimension)
		if _, exists := grouped[key]; !exists {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], i)
	}

	groups := make([]Group, 0, len(order))
	for _, key := range order {
		groups = append(groups, Group{
			Key:   key,
			Label: key,
			View:  newSubView(view, grouped[key]),
		})
	}
	return groups
}

// getDimensionValue extracts a dimension value from a view at index.
// Handles "year" as a virtual dimension derived from "month".
func getDimensionValue(view RecordView, i int, dimension string) string {
	if dimension == "year" {
		if v := view.Dimension(i, "year"); v != "" {
			return v
		}
		if t, err := time.Parse("Jan-2006", view.Dimension(i, "month")); err == nil {
			return fmt.Sprintf("%d", t.Year())
		}
	}
	return view.Dimension(i, dimension)
}

// ============================================================================
// AGGREGATION
// ============================================================================

func aggregateGroup(group *Group, measure string, aggregation string) {
	group.Count = group.View.Len()

	switch aggregation {
	case "count":
		group.Value = scale.Value(float64(group.Count))
	case "avg":
		group.Value = AvgMeasure(group.View, measure)
	case "max":
		group.Value = MaxMeasure(group.View, measure)
	case "min":
		group.Value = MinMeasure(group.View, measure)
	default:
		group.Value = SumMeasure(group.View, measure)
	}
}

// fold calls fn for every non-null measure and reports how many it saw.
func fold(view RecordView, measure string, fn func(float64)) int {
	n := 0
	for i := 0; i < view.Len(); i++ {
		if v, ok := view.Measure(i, measure); ok {
			fn(v)
			n++
		}
	}
	return n
}

// SumMeasure sums a named measure across a view.
func SumMeasure(view RecordView, measure string) scale.Sample {
	var total float64
	if fold(view, measure, func(v float64) { total += v }) == 0 {
		return scale.Null()
	}
	return scale.Value(total)
}

// AvgMeasure averages the non-null values of a named measure.
func AvgMeasure(view RecordView, measure string) scale.Sample {
	var total float64
	n := fold(view, measure, func(v float64) { total += v })
	if n == 0 {
		return scale.Null()
	}
	return scale.Value(total / float64(n))
}

// MaxMeasure returns the largest value of a named measure.
func MaxMeasure(view RecordView, measure string) scale.Sample {
	m := math.Inf(-1)
	if fold(view, measure, func(v float64) { m = math.Max(m, v) }) == 0 {
		return scale.Null()
	}
	return scale.Value(m)
}

// MinMeasure returns the smallest value of a named measure.
func MinMeasure(view RecordView, measure string) scale.Sample {
	m := math.Inf(1)
	if fold(view, measure, func(v float64) { m = math.Min(m, v) }) == 0 {
		return scale.Null()
	}
	return scale.Value(m)
}

// ============================================================================
// SORTING
// ============================================================================

// SortGroups sorts groups by the specified sort mode. Unknown modes keep the
// grouping order. Value sorts keep null groups at the tail in their
// original order.
func SortGroups(groups []Group, sortBy string) {
	switch sortBy {
	case "value_desc":
		valued := nullsLast(groups)
		sort.SliceStable(valued, func(i, j int) bool { return groupValue(valued[i]) > groupValue(valued[j]) })
	case "value_asc":
		valued := nullsLast(groups)
		sort.SliceStable(valued, func(i, j int) bool { return groupValue(valued[i]) < groupValue(valued[j]) })
	case "date_asc":
		sort.SliceStable(groups, func(i, j int) bool { return parseSortableDate(groups[i].Key) < parseSortableDate(groups[j].Key) })
	case "date_desc":
		sort.SliceStable(groups, func(i, j int) bool { return parseSortableDate(groups[i].Key) > parseSortableDate(groups[j].Key) })
	case "alpha_asc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) < strings.ToLower(groups[j].Key) })
	case "alpha_desc":
		sort.SliceStable(groups, func(i, j int) bool { return strings.ToLower(groups[i].Key) > strings.ToLower(groups[j].Key) })
	}
}

// nullsLast moves null groups to the tail and returns the non-null prefix.
func nullsLast(groups []Group) []Group {
	sort.SliceStable(groups, func(i, j int) bool {
		return !groups[i].Value.IsNull() && groups[j].Value.IsNull()
	})
	n := 0
	for n < len(groups) && !groups[n].Value.IsNull() {
		n++
	}
	return groups[:n]
}

func groupValue(g Group) float64 {
	v, _ := g.Value.Float64()
	return v
}

// ParseMonthOrder converts "Jan-2026" to sortable int (202601).
func ParseMonthOrder(monthStr string) int {
	t, err := time.Parse("Jan-2006", monthStr)
	if err != nil {
		return 0
	}
	return t.Year()*100 + int(t.Month())
}

func parseSortableDate(key string) int {
	if v := ParseMonthOrder(key); v > 0 {
		return v
	}
	if t, err := time.Parse("2006-01-02", key); err == nil {
		return t.Year()*100 + int(t.Month())
	}
	if t, err := time.Parse("2006", key); err == nil {
		return t.Year() * 100
	}
	return 0
}

// UniqueValues returns distinct non-empty values for a dimension.
func UniqueValues(view RecordView, dimension string) []string {
	seen := make(map[string]bool)
	var result []string
	for i := 0; i < view.Len(); i++ {
		val := getDimensionValue(view, i, dimension)
		if val != "" && !seen[val] {
			seen[val] = true
			result = append(result, val)
		}
	}
	return result
}

// LabelForDimension returns a capitalized label for a dimension.
func LabelForDimension(dimension string) string {
	if len(dimension) == 0 {
		return ""
	}
	return strings.ToUpper(dimension[:1]) + dimension[1:]
}

// LabelForAggregation returns a column label for an aggregation of measure.
func LabelForAggregation(aggregation, measure string) string {
	name := LabelForDimension(measure)
	switch aggregation {
	case "count":
		return "Count"
	case "avg":
		return "Avg " + name
	case "max":
		return "Max " + name
	case "min":
		return "Min " + name
	default:
		return name
	}
}
