package engine

import (
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// LEADERBOARD — top values per dimension, one scale for all of them
// ============================================================================

// LeaderboardValue is one ranked entry.
type LeaderboardValue struct {
	Label     string       `json:"label"`
	Value     scale.Sample `json:"value"`
	Formatted string       `json:"formatted,omitempty"`
}

// Leaderboard holds ranked values per dimension, in dimension order.
type Leaderboard struct {
	Measure    string                        `json:"measure"`
	Dimensions []string                      `json:"dimensions"`
	Values     map[string][]LeaderboardValue `json:"values"`
	Scale      scale.Symbol                  `json:"scale"`
}

// BuildLeaderboard ranks the groups of each dimension by measure, keeping at
// most limit per dimension (0 keeps all), then picks the shared display
// scale from the first sampleDims dimensions and sampleValues values and
// formats every entry with it.
func BuildLeaderboard(
	view RecordView,
	dimensions []string,
	measure string,
	aggregation string,
	limit int,
	sampleDims int,
	sampleValues int,
	opts ...Option,
) *Leaderboard {
	cfg := applyOptions(opts)
	lb := &Leaderboard{
		Measure:    measure,
		Dimensions: dimensions,
		Values:     make(map[string][]LeaderboardValue, len(dimensions)),
	}

	for _, dim := range dimensions {
		groups := GroupAndAggregate(view, dim, measure, aggregation, "value_desc", limit)
		values := make([]LeaderboardValue, len(groups))
		for i, g := range groups {
			values[i] = LeaderboardValue{Label: g.Label, Value: g.Value}
		}
		lb.Values[dim] = values
	}

	lb.Scale = ScaleForLeaderboard(lb, sampleDims, sampleValues)
	opt := cfg.Format
	opt.Scale = lb.Scale
	for _, dim := range dimensions {
		for i, v := range lb.Values[dim] {
			if x, ok := v.Value.Float64(); ok {
				lb.Values[dim][i].Formatted = cfg.Formatter.Format(x, opt)
			} else {
				lb.Values[dim][i].Formatted = rawText(v.Value)
			}
		}
	}
	return lb
}

// ScaleForLeaderboard samples the first dims dimensions and the first
// values entries of each. Any null in the sample, or no sample at all,
// yields scale.None.
func ScaleForLeaderboard(lb *Leaderboard, dims, values int) scale.Symbol {
	if lb == nil {
		return scale.None
	}

	var sample []float64
	for d, dim := range lb.Dimensions {
		if d >= dims {
			break
		}
		for i, v := range lb.Values[dim] {
			if i >= values {
				break
			}
			x, ok := v.Value.Float64()
			if !ok {
				return scale.None
			}
			sample = append(sample, x)
		}
	}

	sym, err := scale.SelectValues(sample...)
	if err != nil {
		logging.Debug("leaderboard scale defaulted", "measure", lb.Measure, "error", err)
		return scale.None
	}
	return sym
}
