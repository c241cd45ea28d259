package format

import (
	"fmt"
	"math"
	"sort"

	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// PREPARED COLUMNS — format once, align every row
// ============================================================================
// Prepare formats a whole sample up front so each row can be rendered with
// the column's shared spacing and pixel widths.
// ============================================================================

// Range is the smallest and largest value of a sample.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// RichNumber is one formatted value with everything needed to align it.
type RichNumber struct {
	Number     float64            `json:"number"`
	Raw        string             `json:"raw"`
	Parts      align.Parts        `json:"parts"`
	Spacing    align.Spacing      `json:"spacing"`
	Range      Range              `json:"range"`
	MaxPxWidth *align.PixelWidths `json:"maxPxWidth,omitempty"`
}

// Prepared holds a formatted sample.
type Prepared struct {
	numbers []RichNumber
}

// Prepare formats every sample value with render, splits the results and
// computes the column metadata. width may be nil to skip pixel widths.
func Prepare(sample []float64, render func(float64) string, width align.WidthFunc) (*Prepared, error) {
	if len(sample) == 0 {
		return nil, align.ErrEmptyInput
	}

	rng := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	parts := make([]align.Parts, len(sample))
	raws := make([]string, len(sample))
	for i, v := range sample {
		rng.Min = math.Min(rng.Min, v)
		rng.Max = math.Max(rng.Max, v)
		raws[i] = render(v)
		p, err := align.Split(raws[i])
		if err != nil {
			return nil, fmt.Errorf("prepare sample %d: %w", i, err)
		}
		parts[i] = p
	}

	spacing, err := align.SpacingFor(parts)
	if err != nil {
		return nil, err
	}
	var px *align.PixelWidths
	if width != nil {
		w, err := align.PixelWidthsFor(parts, width)
		if err != nil {
			return nil, err
		}
		px = &w
	}

	numbers := make([]RichNumber, len(sample))
	for i, v := range sample {
		numbers[i] = RichNumber{
			Number:     v,
			Raw:        raws[i],
			Parts:      parts[i],
			Spacing:    spacing,
			Range:      rng,
			MaxPxWidth: px,
		}
	}
	return &Prepared{numbers: numbers}, nil
}

// Lookup returns the entry for the first sample value equal to x.
func (p *Prepared) Lookup(x float64) (RichNumber, bool) {
	for _, n := range p.numbers {
		if n.Number == x {
			return n, true
		}
	}
	return RichNumber{}, false
}

// Numbers returns every entry in sample order.
func (p *Prepared) Numbers() []RichNumber {
	return p.numbers
}

// ============================================================================
// CATALOG — named formatter factories
// ============================================================================

// Factory builds a render function for a whole sample, so strategies that
// depend on the sample (a shared scale) see all of it.
type Factory struct {
	Name string
	Desc string
	New  func(sample []float64, kind Kind) (func(float64) string, error)
}

// Catalog lists the built-in factories.
func Catalog() []Factory {
	return []Factory{
		{
			Name: "plain",
			Desc: "shortest round-trip decimal",
			New: func([]float64, Kind) (func(float64) string, error) {
				return bind(Plain{}, Options{}), nil
			},
		},
		{
			Name: "humanize",
			Desc: "shared k/M/B/T/Q scale chosen from the sample median",
			New: func(sample []float64, kind Kind) (func(float64) string, error) {
				sym, err := SampleScale(sample)
				if err != nil {
					return nil, err
				}
				return bind(Humanizer{Kind: kind}, Options{Scale: sym}), nil
			},
		},
		{
			Name: "scientific",
			Desc: "mantissa and power-of-ten exponent",
			New: func([]float64, Kind) (func(float64) string, error) {
				return bind(Scientific{}, Options{}), nil
			},
		},
		{
			Name: "engineering",
			Desc: "exponent restricted to multiples of three",
			New: func([]float64, Kind) (func(float64) string, error) {
				return bind(Scientific{Engineering: true}, Options{}), nil
			},
		},
		{
			Name: "locale",
			Desc: "en-US digit grouping with a shared scale",
			New: func(sample []float64, kind Kind) (func(float64) string, error) {
				sym, err := SampleScale(sample)
				if err != nil {
					return nil, err
				}
				loc, err := NewLocale("en-US", kind)
				if err != nil {
					return nil, err
				}
				return bind(loc, Options{Scale: sym}), nil
			},
		},
	}
}

// LookupFactory finds a catalog entry by name.
func LookupFactory(name string) (Factory, bool) {
	for _, f := range Catalog() {
		if f.Name == name {
			return f, true
		}
	}
	return Factory{}, false
}

// SampleScale sorts a copy of sample by descending value and selects its
// shared scale.
func SampleScale(sample []float64) (scale.Symbol, error) {
	sorted := append([]float64(nil), sample...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	return scale.SelectValues(sorted...)
}

func bind(f NumberFormatter, opts Options) func(float64) string {
	return func(v float64) string { return f.Format(v, opts) }
}

// ============================================================================
// COLUMNS WITH NULLS
// ============================================================================

// NullText is rendered in place of a missing value.
const NullText = "∅"

// Column is a formatted column of samples sharing one scale.
type Column struct {
	Scale scale.Symbol `json:"scale"`
	Texts []string     `json:"texts"`
}

// FormatColumn selects one scale for samples (nulls allowed, in any order) and
// renders each with f. Nulls render as NullText.
func FormatColumn(samples []scale.Sample, f NumberFormatter, opts Options) (Column, error) {
	sym, err := scale.Select(scale.SortNullsLast(samples), true)
	if err != nil {
		return Column{}, err
	}
	opts.Scale = sym

	texts := make([]string, len(samples))
	for i, s := range samples {
		v, ok := s.Float64()
		if !ok {
			texts[i] = NullText
			continue
		}
		texts[i] = f.Format(v, opts)
	}
	return Column{Scale: sym, Texts: texts}, nil
}
