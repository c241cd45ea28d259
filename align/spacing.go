package align

import (
	"math"
	"unicode/utf8"
)

// Spacing is the widest integer, fraction and suffix, in characters, across a
// column. A monospace renderer pads every row to these widths.
type Spacing struct {
	MaxIntegerDigits  int `json:"maxIntegerDigits"`
	MaxFractionDigits int `json:"maxFractionDigits"`
	MaxSuffixChars    int `json:"maxSuffixChars"`
	// BareDot is set when some row ends its number with "." ("12.") but no
	// row has a fraction, so the dot still needs a column.
	BareDot bool `json:"bareDot,omitempty"`
}

// hasDotColumn reports whether padded rows reserve a character for the dot.
func (sp Spacing) hasDotColumn() bool {
	return sp.MaxFractionDigits > 0 || sp.BareDot
}

// Width is the total column width a padded row occupies.
func (sp Spacing) Width() int {
	w := sp.MaxIntegerDigits + sp.MaxSuffixChars + sp.MaxFractionDigits
	if sp.hasDotColumn() {
		w++
	}
	return w
}

// SpacingFor folds parts into their element-wise maximum character counts.
func SpacingFor(parts []Parts) (Spacing, error) {
	if len(parts) == 0 {
		return Spacing{}, ErrEmptyInput
	}
	var sp Spacing
	dot := false
	for _, p := range parts {
		sp = Spacing{
			MaxIntegerDigits:  max(sp.MaxIntegerDigits, utf8.RuneCountInString(p.Integer)),
			MaxFractionDigits: max(sp.MaxFractionDigits, utf8.RuneCountInString(p.Fraction)),
			MaxSuffixChars:    max(sp.MaxSuffixChars, utf8.RuneCountInString(p.Suffix)),
		}
		dot = dot || p.HasDot
	}
	sp.BareDot = dot && sp.MaxFractionDigits == 0
	return sp, nil
}

// SpacingForStrings splits ss and folds the result.
func SpacingForStrings(ss []string) (Spacing, error) {
	parts, err := SplitAll(ss)
	if err != nil {
		return Spacing{}, err
	}
	return SpacingFor(parts)
}

// WidthFunc measures the rendered width of a piece of text, usually in pixels.
type WidthFunc func(text string) float64

// PixelWidths is the widest rendering of each part across a column. Parts are
// measured separately, never as a whole string.
type PixelWidths struct {
	Integer  float64 `json:"int"`
	Dot      float64 `json:"dot"`
	Fraction float64 `json:"frac"`
	Suffix   float64 `json:"suffix"`
}

// Total is the sum of every part's width.
func (w PixelWidths) Total() float64 {
	return w.Integer + w.Dot + w.Fraction + w.Suffix
}

// PixelWidthsFor measures every part of every element with width and keeps
// the running maximum per part. Results are not cached; wrap width with
// CachedWidth for that.
func PixelWidthsFor(parts []Parts, width WidthFunc) (PixelWidths, error) {
	if len(parts) == 0 {
		return PixelWidths{}, ErrEmptyInput
	}
	var w PixelWidths
	for _, p := range parts {
		w = PixelWidths{
			Integer:  math.Max(w.Integer, width(p.Integer)),
			Dot:      math.Max(w.Dot, width(p.Dot())),
			Fraction: math.Max(w.Fraction, width(p.Fraction)),
			Suffix:   math.Max(w.Suffix, width(p.Suffix)),
		}
	}
	return w, nil
}
