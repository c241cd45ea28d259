package align

import (
	"errors"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		in   string
		want Parts
	}{
		{"1.23M", Parts{Integer: "1", HasDot: true, Fraction: "23", Suffix: "M"}},
		{"500", Parts{Integer: "500"}},
		{"12.", Parts{Integer: "12", HasDot: true}},
		{"12", Parts{Integer: "12"}},
		{"34.56k", Parts{Integer: "34", HasDot: true, Fraction: "56", Suffix: "k"}},
		{"-7.5 B", Parts{Integer: "-7", HasDot: true, Fraction: "5", Suffix: " B"}},
		{"$1.2k", Parts{Integer: "$1", HasDot: true, Fraction: "2", Suffix: "k"}},
		{"988 millions", Parts{Integer: "988", Suffix: " millions"}},
		{"9.877E8", Parts{Integer: "9", HasDot: true, Fraction: "877", Suffix: "E8"}},
		{".5", Parts{HasDot: true, Fraction: "5"}},
		{"", Parts{}},
	}
	for _, tc := range tests {
		got, err := Split(tc.in)
		require.NoError(t, err, "Split(%q)", tc.in)
		assert.Equal(t, tc.want, got, "Split(%q)", tc.in)
	}
}

func TestSplitMalformed(t *testing.T) {
	for _, in := range []string{"1.2.3", "1k2M", "12 345", "1.5 k 2 M"} {
		_, err := Split(in)
		require.Error(t, err, "Split(%q)", in)

		var malformed *MalformedStringError
		assert.True(t, errors.As(err, &malformed), "Split(%q) error type", in)
		assert.Equal(t, in, malformed.Input)
		assert.ErrorIs(t, err, ErrMalformed)
	}
}

func TestSplitRoundTrip(t *testing.T) {
	for _, in := range []string{"1.23M", "500", "12.", "0.001", "4 k", "-3.75T", "1,234.5", "<1%", "$12.00"} {
		p, err := Split(in)
		require.NoError(t, err)
		assert.Equal(t, in, p.String())
	}
}

func TestSpacingFor(t *testing.T) {
	sp, err := SpacingForStrings([]string{"1.2M", "34.56k", "7"})
	require.NoError(t, err)
	assert.Equal(t, Spacing{MaxIntegerDigits: 2, MaxFractionDigits: 2, MaxSuffixChars: 1}, sp)
	assert.Equal(t, 6, sp.Width())

	_, err = SpacingFor(nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = SpacingForStrings([]string{"1", "1.2.3"})
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestPixelWidthsFor(t *testing.T) {
	// one pixel per byte, dots are narrow
	width := func(s string) float64 {
		if s == "." {
			return 0.5
		}
		return float64(len(s))
	}
	parts, err := SplitAll([]string{"1.2M", "34.56k", "7"})
	require.NoError(t, err)

	w, err := PixelWidthsFor(parts, width)
	require.NoError(t, err)
	assert.Equal(t, PixelWidths{Integer: 2, Dot: 0.5, Fraction: 2, Suffix: 1}, w)
	assert.Equal(t, 5.5, w.Total())

	_, err = PixelWidthsFor(nil, width)
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestPixelWidthsMonotonic(t *testing.T) {
	width := MonospaceWidth(7)
	base := []string{"1.2M", "3k"}
	extra := []string{"0.25", "1234", "9.9999B", "", "12 apples"}

	parts, err := SplitAll(base)
	require.NoError(t, err)
	prev, err := PixelWidthsFor(parts, width)
	require.NoError(t, err)

	for _, s := range extra {
		p, err := Split(s)
		require.NoError(t, err)
		parts = append(parts, p)
		next, err := PixelWidthsFor(parts, width)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, next.Integer, prev.Integer)
		assert.GreaterOrEqual(t, next.Dot, prev.Dot)
		assert.GreaterOrEqual(t, next.Fraction, prev.Fraction)
		assert.GreaterOrEqual(t, next.Suffix, prev.Suffix)
		prev = next
	}
}

func TestPixelWidthsNoCaching(t *testing.T) {
	var calls int
	width := func(s string) float64 {
		calls++
		return float64(len(s))
	}
	parts, err := SplitAll([]string{"1.2M", "1.2M"})
	require.NoError(t, err)
	_, err = PixelWidthsFor(parts, width)
	require.NoError(t, err)
	assert.Equal(t, 8, calls, "every part of every element is measured")
}

func TestPad(t *testing.T) {
	parts, err := SplitAll([]string{"1.2M", "34.56k", "7"})
	require.NoError(t, err)
	sp, err := SpacingFor(parts)
	require.NoError(t, err)

	got := make([]string, len(parts))
	for i, p := range parts {
		got[i] = p.Pad(sp)
		assert.Equal(t, sp.Width(), utf8.RuneCountInString(got[i]))
	}
	assert.Equal(t, []string{" 1.2 M", "34.56k", " 7    "}, got)
}

func TestPadBareDot(t *testing.T) {
	parts, err := SplitAll([]string{"12.", "5"})
	require.NoError(t, err)
	sp, err := SpacingFor(parts)
	require.NoError(t, err)
	assert.Equal(t, Spacing{MaxIntegerDigits: 2, BareDot: true}, sp)
	assert.Equal(t, 3, sp.Width())

	assert.Equal(t, "12.", parts[0].Pad(sp))
	assert.Equal(t, " 5 ", parts[1].Pad(sp))

	parts, err = SplitAll([]string{"12.", "3.5"})
	require.NoError(t, err)
	sp, err = SpacingFor(parts)
	require.NoError(t, err)
	assert.False(t, sp.BareDot)
	assert.Equal(t, "12. ", parts[0].Pad(sp))
	assert.Equal(t, " 3.5", parts[1].Pad(sp))
}

func TestMonospaceWidth(t *testing.T) {
	assert.Equal(t, 3.0, MonospaceWidth(1)("1.2"))
	assert.Equal(t, 16.0, MonospaceWidth(8)("12"))
	assert.Equal(t, 4.0, MonospaceWidth(1)("万円"))
}

func TestFontWidth(t *testing.T) {
	width := FontWidth(nil)
	// basicfont.Face7x13 advances 7px per glyph
	assert.Equal(t, 21.0, width("123"))
	assert.Equal(t, 0.0, width(""))
}

func TestCachedWidth(t *testing.T) {
	var calls atomic.Int32
	width := CachedWidth(func(s string) float64 {
		calls.Add(1)
		return float64(len(s))
	})
	assert.Equal(t, 3.0, width("abc"))
	assert.Equal(t, 3.0, width("abc"))
	assert.Equal(t, 1.0, width("."))
	assert.Equal(t, int32(2), calls.Load())
}
