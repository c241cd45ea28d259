package schema

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/format"
)

// ============================================================================
// AUTO-DISCOVERY — heuristic column classification
// ============================================================================
// Per column:
//   1. Measures are columns the parser read as numbers
//   2. Unique-per-row columns (more than 10 rows) are skipped as IDs
//   3. Measure names and value ranges pick a format kind
//   4. Dimension samples reveal temporal patterns and cardinality
// ============================================================================

// Discover classifies the columns of records. keys gives the column order,
// usually the header returned by the helpers parsers.
func Discover(name string, keys []string, records []engine.Record) (*Config, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("schema: no data rows")
	}
	if name == "" {
		name = "Auto-discovered Dataset"
	}

	view := engine.NewSliceView(records, keys...)
	isMeasure := make(map[string]bool)
	for _, k := range view.MeasureKeys() {
		isMeasure[k] = true
	}

	c := &Config{Name: name}
	for _, key := range keys {
		if isMeasure[key] {
			c.addMeasure(key, records)
		} else {
			c.addDimension(key, records)
		}
	}
	return c, nil
}

func (c *Config) addMeasure(key string, records []engine.Record) {
	var values []float64
	nulls := 0
	unique := make(map[float64]bool)
	for _, r := range records {
		v, ok := r.Sample(key).Float64()
		if !ok {
			nulls++
			continue
		}
		values = append(values, v)
		unique[v] = true
	}

	if len(unique) == len(records) && len(records) > 10 && isIDName(key) {
		c.Skipped = append(c.Skipped, Skipped{Column: key, Reason: "Unique per row, likely an ID column"})
		return
	}

	c.Measures = append(c.Measures, Measure{
		Key:                key,
		DisplayName:        toDisplayName(key),
		Kind:               inferKind(key, values),
		DefaultAggregation: "sum",
		NullCount:          nulls,
	})
}

func (c *Config) addDimension(key string, records []engine.Record) {
	unique := make(map[string]bool)
	for _, r := range records {
		if v := r.Dimensions[key]; v != "" {
			unique[v] = true
		}
	}

	switch {
	case len(unique) == 0:
		c.Skipped = append(c.Skipped, Skipped{Column: key, Reason: "All values are empty/null"})
		return
	case len(unique) == len(records) && len(records) > 10:
		c.Skipped = append(c.Skipped, Skipped{Column: key, Reason: "Unique per row, likely an identifier"})
		return
	}

	samples := collectSamples(unique, 10)
	d := Dimension{
		Key:          key,
		DisplayName:  toDisplayName(key),
		SampleValues: samples,
	}
	d.IsTemporal, d.TemporalFormat = detectTemporalPattern(samples)
	switch {
	case len(unique) <= 10:
		d.CardinalityHint = "low"
	case len(unique) <= 100:
		d.CardinalityHint = "medium"
	default:
		d.CardinalityHint = "high"
	}
	c.Dimensions = append(c.Dimensions, d)
}

// ============================================================================
// KIND INFERENCE
// ============================================================================

var (
	currencyWords = []string{"revenue", "price", "cost", "amount", "spend", "sales", "budget", "income", "profit", "usd"}
	percentWords  = []string{"pct", "percent", "rate", "ratio", "share", "margin"}
)

// inferKind guesses the format kind from the column name. Percentage also
// requires every value to lie within [-1, 1], since ratios are stored as
// fractions.
func inferKind(key string, values []float64) format.Kind {
	if hasWord(key, percentWords) {
		fractions := len(values) > 0
		for _, v := range values {
			if math.Abs(v) > 1 {
				fractions = false
				break
			}
		}
		if fractions {
			return format.KindPercentage
		}
	}
	if hasWord(key, currencyWords) {
		return format.KindCurrency
	}
	return format.KindHumanize
}

func hasWord(key string, words []string) bool {
	for _, part := range strings.Split(key, "_") {
		for _, w := range words {
			if part == w {
				return true
			}
		}
	}
	return false
}

func isIDName(key string) bool {
	return key == "id" || strings.HasSuffix(key, "_id") || strings.HasSuffix(key, "_key")
}

// ============================================================================
// TEMPORAL DETECTION
// ============================================================================

var periodPatterns = []struct {
	re     *regexp.Regexp
	format string
}{
	{regexp.MustCompile(`^[A-Z][a-z]{2}-\d{4}$`), "MMM-yyyy"},   // Jan-2026
	{regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`), "yyyy-MM-dd"},  // 2026-01-15
	{regexp.MustCompile(`^\d{4}-\d{2}$`), "yyyy-MM"},            // 2026-01
	{regexp.MustCompile(`^Q[1-4][- ]\d{4}$`), "QN-yyyy"},        // Q1-2026
	{regexp.MustCompile(`^[A-Z][a-z]+ \d{4}$`), "MMMM yyyy"},    // January 2026
}

// detectTemporalPattern reports the first pattern matched by at least 80%
// of samples.
func detectTemporalPattern(samples []string) (bool, string) {
	if len(samples) == 0 {
		return false, ""
	}
	for _, p := range periodPatterns {
		matches := 0
		for _, s := range samples {
			if p.re.MatchString(strings.TrimSpace(s)) {
				matches++
			}
		}
		if float64(matches)/float64(len(samples)) >= 0.8 {
			return true, p.format
		}
	}
	return false, ""
}

// ============================================================================
// STRING UTILITIES
// ============================================================================

// toDisplayName converts "net_revenue" → "Net Revenue".
func toDisplayName(key string) string {
	words := strings.Fields(strings.ReplaceAll(key, "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// collectSamples returns up to max values in sorted order.
func collectSamples(unique map[string]bool, max int) []string {
	samples := make([]string, 0, len(unique))
	for v := range unique {
		samples = append(samples, v)
	}
	sort.Strings(samples)
	if len(samples) > max {
		samples = samples[:max]
	}
	return samples
}
