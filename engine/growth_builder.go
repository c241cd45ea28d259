package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/spektr-org/tally/format"
)

// ============================================================================
// GROWTH BUILDER — change between the first and last period
// ============================================================================

// BuildGrowth totals measure per value of the period dimension, orders the
// periods chronologically (see ParseMonthOrder) and compares the earliest
// with the latest. Null measures are skipped.
func BuildGrowth(view RecordView, period, measure string) *GrowthData {
	totals := make(map[string]float64)
	for i := 0; i < view.Len(); i++ {
		p := view.Dimension(i, period)
		v, ok := view.Measure(i, measure)
		if p == "" || !ok {
			continue
		}
		totals[p] += v
	}

	if len(totals) < 2 {
		g := &GrowthData{Direction: "insufficient data", Display: "→ No change"}
		for p, total := range totals {
			g.EarliestPeriod, g.LatestPeriod = p, p
			g.EarliestValue, g.LatestValue = total, total
		}
		return g
	}

	type entry struct {
		Period string
		Order  int
		Total  float64
	}
	entries := make([]entry, 0, len(totals))
	for p, total := range totals {
		entries = append(entries, entry{Period: p, Order: parseSortableDate(p), Total: total})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Order != entries[j].Order {
			return entries[i].Order < entries[j].Order
		}
		return entries[i].Period < entries[j].Period
	})

	earliest := entries[0]
	latest := entries[len(entries)-1]

	g := &GrowthData{
		EarliestValue:  earliest.Total,
		LatestValue:    latest.Total,
		EarliestPeriod: earliest.Period,
		LatestPeriod:   latest.Period,
		ChangeAmount:   latest.Total - earliest.Total,
	}
	if earliest.Total != 0 {
		g.ChangeRatio = g.ChangeAmount / math.Abs(earliest.Total)
	}

	switch {
	case earliest.Total == 0 && g.ChangeAmount > 0:
		g.Direction, g.Display = "increased", "↑ n/a"
	case earliest.Total == 0 && g.ChangeAmount < 0:
		g.Direction, g.Display = "decreased", "↓ n/a"
	case g.ChangeRatio > 0.005:
		g.Direction = "increased"
		g.Display = "↑ " + format.PercentDifference(g.ChangeRatio)
	case g.ChangeRatio < -0.005:
		g.Direction = "decreased"
		g.Display = "↓ " + format.PercentDifference(-g.ChangeRatio)
	default:
		g.Direction, g.Display = "unchanged", "→ No change"
	}
	return g
}

// DerivePeriod describes the span of the period dimension in view: a
// single value, "first – last", or "All time" when the dimension is empty.
func DerivePeriod(view RecordView, period string) string {
	if view.Len() == 0 {
		return "No data"
	}

	var earliest, latest string
	var earliestOrder, latestOrder int
	for i := 0; i < view.Len(); i++ {
		p := view.Dimension(i, period)
		if p == "" {
			continue
		}
		order := parseSortableDate(p)
		if earliest == "" || order < earliestOrder {
			earliest, earliestOrder = p, order
		}
		if latest == "" || order > latestOrder {
			latest, latestOrder = p, order
		}
	}

	switch {
	case earliest == "":
		return "All time"
	case earliest == latest:
		return earliest
	default:
		return fmt.Sprintf("%s – %s", earliest, latest)
	}
}
