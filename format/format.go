// Package format turns numbers into display strings. Every strategy satisfies
// NumberFormatter so callers can swap the humanizer for a locale-aware or
// scientific rendering without touching alignment code.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spektr-org/tally/scale"
)

// ============================================================================
// KINDS — What a measure represents
// ============================================================================

// Kind selects the family of formatting applied to a measure.
type Kind string

const (
	KindHumanize   Kind = "humanize"
	KindNone       Kind = "none"
	KindCurrency   Kind = "currency_usd"
	KindPercentage Kind = "percentage"
)

// KindOption pairs a Kind with its menu label.
type KindOption struct {
	Value Kind   `json:"value"`
	Label string `json:"label"`
}

// Kinds lists the selectable kinds in menu order.
func Kinds() []KindOption {
	return []KindOption{
		{Value: KindHumanize, Label: "Humanize"},
		{Value: KindNone, Label: "No formatting"},
		{Value: KindCurrency, Label: "Currency (USD)"},
		{Value: KindPercentage, Label: "Percentage"},
	}
}

// ParseKind accepts any Kind value; an empty string means KindHumanize.
func ParseKind(s string) (Kind, error) {
	if s == "" {
		return KindHumanize, nil
	}
	for _, k := range Kinds() {
		if string(k.Value) == s {
			return k.Value, nil
		}
	}
	return "", fmt.Errorf("format: unknown kind %q", s)
}

// ============================================================================
// STRATEGY INTERFACE
// ============================================================================

// Options tune a single Format call.
type Options struct {
	// Scale divides the value and appends the symbol. Empty means scale.None.
	Scale scale.Symbol
	// Decimals is the number of digits after the point. 0 picks a default
	// for the scale; a negative value drops the fraction.
	Decimals int
	// ExcludeDecimalZeros trims trailing zeros ("1.0M" -> "1M").
	ExcludeDecimalZeros bool
}

// NumberFormatter renders one value.
type NumberFormatter interface {
	Format(value float64, opts Options) string
}

// Func adapts a plain function to NumberFormatter.
type Func func(value float64, opts Options) string

func (f Func) Format(value float64, opts Options) string { return f(value, opts) }

// ============================================================================
// HUMANIZER
// ============================================================================

// Humanizer renders scaled shorthand: "1.2M", "$34.5k", "12.5%".
type Humanizer struct {
	Kind Kind
}

func (h Humanizer) Format(value float64, opts Options) string {
	if h.Kind == KindPercentage {
		d := opts.Decimals
		if d == 0 {
			d = 1
		}
		return fixed(value*100, d, opts.ExcludeDecimalZeros) + "%"
	}

	sym := opts.Scale
	if sym == "" {
		sym = scale.None
	}
	scaled := value / sym.Divisor()
	s := fixed(math.Abs(scaled), decimalsFor(scaled, sym, opts.Decimals), opts.ExcludeDecimalZeros) + sym.Suffix()
	if h.Kind == KindCurrency {
		s = "$" + s
	}
	if scaled < 0 && !isZeroText(s) {
		s = "-" + s
	}
	return s
}

func decimalsFor(v float64, sym scale.Symbol, requested int) int {
	if requested != 0 {
		return requested
	}
	if sym != scale.None {
		return 1
	}
	if v == math.Trunc(v) {
		return -1
	}
	return 2
}

// fixed formats v with d decimals; d < 0 means none.
func fixed(v float64, d int, trimZeros bool) string {
	if d < 0 {
		d = 0
	}
	s := strconv.FormatFloat(v, 'f', d, 64)
	if trimZeros && strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}

// isZeroText reports whether s renders a zero, so "-0.0M" never appears.
func isZeroText(s string) bool {
	return strings.Trim(s, "$0.%QTBMk") == ""
}

// ============================================================================
// PLAIN AND SCIENTIFIC
// ============================================================================

// Plain renders the shortest decimal that round-trips. Options are ignored.
type Plain struct{}

func (Plain) Format(value float64, _ Options) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

// Scientific renders "9.877E8", or with Engineering "987.654E6" where the
// exponent is a multiple of three. The mantissa keeps at most three decimals.
type Scientific struct {
	Engineering bool
}

func (s Scientific) Format(value float64, _ Options) string {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return strconv.FormatFloat(value, 'f', -1, 64) + "E0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(value))))
	if s.Engineering {
		exp = int(math.Floor(float64(exp)/3)) * 3
	}
	mantissa := roundTo(value/math.Pow10(exp), 3)

	limit := 10.0
	if s.Engineering {
		limit = 1000
	}
	if math.Abs(mantissa) >= limit {
		step := 1
		if s.Engineering {
			step = 3
		}
		exp += step
		mantissa = roundTo(value/math.Pow10(exp), 3)
	}
	return strconv.FormatFloat(mantissa, 'f', -1, 64) + "E" + strconv.Itoa(exp)
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}

// ============================================================================
// SINGLE VALUES
// ============================================================================

// HumanizeValue renders an arbitrary dashboard cell. nil renders as "",
// non-numeric values with fmt.Sprint, numbers with the kind's formatter and a
// scale chosen from the value alone.
func HumanizeValue(v any, kind Kind) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(scale.Sample); ok && s.IsNull() {
		return ""
	}
	f, ok := toFloat(v)
	if !ok {
		return fmt.Sprint(v)
	}
	if kind == KindNone {
		return Plain{}.Format(f, Options{})
	}
	sym, err := scale.SelectValues(f)
	if err != nil {
		return Plain{}.Format(f, Options{})
	}
	return Humanizer{Kind: kind}.Format(f, Options{Scale: sym})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case scale.Sample:
		return n.Float64()
	}
	return 0, false
}
