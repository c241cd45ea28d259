// Package scale picks the magnitude shorthand (k, M, B, T, Q) a column of
// numbers is rendered with.
package scale

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ============================================================================
// SCALE SELECTION — One shared magnitude for a column of numbers
// ============================================================================
// Picking the scale from the largest value alone renders a typical, much
// smaller value as "0.0M". Select starts at the largest value's scale and
// walks down until the median keeps at least one integer digit.
// ============================================================================

// Symbol is a magnitude shorthand.
type Symbol string

const (
	Quadrillion Symbol = "Q"
	Trillion    Symbol = "T"
	Billion     Symbol = "B"
	Million     Symbol = "M"
	Thousand    Symbol = "k"
	None        Symbol = "none"
)

// Symbols lists every scale from largest to smallest magnitude.
var Symbols = []Symbol{Quadrillion, Trillion, Billion, Million, Thousand, None}

var divisors = map[Symbol]float64{
	Quadrillion: 1.0e15,
	Trillion:    1.0e12,
	Billion:     1.0e9,
	Million:     1.0e6,
	Thousand:    1.0e3,
	None:        1,
}

var (
	// ErrEmptyInput is returned when no usable sample is left to choose from.
	ErrEmptyInput = errors.New("scale: no samples")
	// ErrUnexpectedNull is returned for a Null sample when nulls are not allowed.
	ErrUnexpectedNull = errors.New("scale: null sample not allowed")
	// ErrNonFinite is returned for NaN or infinite samples.
	ErrNonFinite = errors.New("scale: non-finite sample")
)

// Divisor returns the value a number is divided by when rendered at s.
// Unknown symbols behave like None.
func (s Symbol) Divisor() float64 {
	if d, ok := divisors[s]; ok {
		return d
	}
	return 1
}

// Suffix is the text appended to a scaled number ("" for None).
func (s Symbol) Suffix() string {
	if s == None || !s.Valid() {
		return ""
	}
	return string(s)
}

// Valid reports whether s is one of Symbols.
func (s Symbol) Valid() bool {
	_, ok := divisors[s]
	return ok
}

// Smaller returns the next smaller scale. None is terminal.
func (s Symbol) Smaller() Symbol {
	for i, sym := range Symbols {
		if sym == s && i+1 < len(Symbols) {
			return Symbols[i+1]
		}
	}
	return None
}

// Parse converts "Q", "T", "B", "M", "k" or "none" to a Symbol.
// An empty string parses as None.
func Parse(s string) (Symbol, error) {
	if s == "" {
		return None, nil
	}
	sym := Symbol(s)
	if !sym.Valid() {
		return None, fmt.Errorf("scale: unknown symbol %q", s)
	}
	return sym, nil
}

// ForValue returns the largest scale whose divisor does not exceed |v|.
func ForValue(v float64) Symbol {
	abs := math.Abs(v)
	for _, sym := range Symbols {
		if abs >= divisors[sym] {
			return sym
		}
	}
	return None
}

// Select chooses the scale shared by all samples.
//
// Samples are expected to arrive with nulls sorted to the tail. With allowNull
// everything from the first Null onwards is dropped; otherwise a Null is an
// error. Ordering is not verified.
func Select(samples []Sample, allowNull bool) (Symbol, error) {
	values := make([]float64, 0, len(samples))
	for i, s := range samples {
		v, ok := s.Float64()
		if !ok {
			if !allowNull {
				return None, fmt.Errorf("%w: index %d", ErrUnexpectedNull, i)
			}
			break
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return None, fmt.Errorf("%w: index %d", ErrNonFinite, i)
		}
		values = append(values, math.Abs(v))
	}
	if len(values) == 0 {
		return None, ErrEmptyInput
	}

	sort.Sort(sort.Reverse(sort.Float64Slice(values)))
	median := Median(values)

	sym := ForValue(values[0])
	for sym != None {
		if IntegerDigits(median/sym.Divisor()) >= 1 {
			return sym, nil
		}
		sym = sym.Smaller()
	}
	return None, nil
}

// SelectValues is Select for a plain slice with no nulls.
func SelectValues(values ...float64) (Symbol, error) {
	return Select(Values(values...), false)
}

// Median of an already sorted slice. Even lengths average the two middle
// elements. Returns 0 for an empty slice.
func Median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	half := n / 2
	if n%2 == 1 {
		return sorted[half]
	}
	return (sorted[half-1] + sorted[half]) / 2.0
}

// IntegerDigits counts the digits left of the decimal point when |v| is
// printed with one decimal, the same rounding the formatters use. A zero
// integer part has no digits.
func IntegerDigits(v float64) int {
	s := strconv.FormatFloat(math.Abs(v), 'f', 1, 64)
	whole, _, _ := strings.Cut(s, ".")
	if whole == "0" {
		return 0
	}
	return len(whole)
}
