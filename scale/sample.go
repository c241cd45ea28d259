package scale

import (
	"encoding/json"
	"sort"
	"strconv"
)

// Sample is a number or Null. The zero value is Null.
type Sample struct {
	value float64
	valid bool
}

// Value wraps a number.
func Value(v float64) Sample { return Sample{value: v, valid: true} }

// Null returns the missing-value sample.
func Null() Sample { return Sample{} }

// Values wraps each number as a Sample.
func Values(vs ...float64) []Sample {
	out := make([]Sample, len(vs))
	for i, v := range vs {
		out[i] = Value(v)
	}
	return out
}

// Float64 returns the number and whether the sample holds one.
func (s Sample) Float64() (float64, bool) { return s.value, s.valid }

// IsNull reports whether s is Null.
func (s Sample) IsNull() bool { return !s.valid }

func (s Sample) String() string {
	if !s.valid {
		return "null"
	}
	return strconv.FormatFloat(s.value, 'f', -1, 64)
}

// MarshalJSON encodes Null as JSON null.
func (s Sample) MarshalJSON() ([]byte, error) {
	if !s.valid {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or null.
func (s *Sample) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Null()
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Value(v)
	return nil
}

// ParseSample reads "null" (or "") as Null and anything else as a float.
func ParseSample(text string) (Sample, error) {
	if text == "" || text == "null" {
		return Null(), nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Null(), err
	}
	return Value(v), nil
}

// SortNullsLast orders samples by descending value with every Null at the
// tail, which is the order Select expects. The input is not modified.
func SortNullsLast(samples []Sample) []Sample {
	out := make([]Sample, 0, len(samples))
	var nulls int
	for _, s := range samples {
		if s.valid {
			out = append(out, s)
		} else {
			nulls++
		}
	}
	sortDesc(out)
	for i := 0; i < nulls; i++ {
		out = append(out, Null())
	}
	return out
}

func sortDesc(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool { return samples[i].value > samples[j].value })
}
