// Package align decomposes formatted numbers into integer, dot, fraction and
// suffix parts and measures how wide each part must be so a column of
// numbers lines up on the decimal point.
package align

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

var (
	// ErrMalformed is wrapped by every MalformedStringError.
	ErrMalformed = errors.New("align: malformed number string")
	// ErrEmptyInput is returned when there is nothing to take a maximum over.
	ErrEmptyInput = errors.New("align: no parts")
)

// MalformedStringError reports a string Split cannot decompose unambiguously.
type MalformedStringError struct {
	Input  string
	Reason string
}

func (e *MalformedStringError) Error() string {
	return fmt.Sprintf("align: cannot split %q: %s", e.Input, e.Reason)
}

func (e *MalformedStringError) Unwrap() error {
	return ErrMalformed
}

// Parts is one formatted number split for alignment.
type Parts struct {
	Integer  string `json:"int"`
	HasDot   bool   `json:"hasDot"`
	Fraction string `json:"frac"`
	Suffix   string `json:"suffix"`
}

// Dot returns "." or "" depending on HasDot.
func (p Parts) Dot() string {
	if p.HasDot {
		return "."
	}
	return ""
}

// String reassembles the parts.
func (p Parts) String() string {
	return p.Integer + p.Dot() + p.Fraction + p.Suffix
}

// isSuffixRune matches the letter-or-space class that starts a suffix.
func isSuffixRune(r rune) bool {
	return r == ' ' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Split decomposes s. The suffix starts at the first ASCII letter or space and
// runs to the end of the string; the rest is split once on ".".
//
// Currency symbols and other leading prefixes stay in the integer part.
// Digit grouping with spaces ("12 345") is rejected rather than read as a
// suffix.
func Split(s string) (Parts, error) {
	numPart, suffix := s, ""
	if idx := strings.IndexFunc(s, isSuffixRune); idx >= 0 {
		numPart, suffix = s[:idx], s[idx:]
	}
	if err := checkSuffix(s, suffix); err != nil {
		return Parts{}, err
	}

	p := Parts{
		HasDot: strings.Contains(s, "."),
		Suffix: suffix,
	}
	segments := strings.Split(numPart, ".")
	switch len(segments) {
	case 1:
		p.Integer = segments[0]
	case 2:
		p.Integer, p.Fraction = segments[0], segments[1]
	default:
		return Parts{}, &MalformedStringError{Input: s, Reason: "more than one decimal point"}
	}
	return p, nil
}

// checkSuffix rejects suffixes made of two separate letter/space runs
// ("1k2M") and space-grouped digits ("12 345").
func checkSuffix(s, suffix string) error {
	if suffix == "" {
		return nil
	}
	if len(suffix) > 1 && suffix[0] == ' ' && suffix[1] >= '0' && suffix[1] <= '9' {
		return &MalformedStringError{Input: s, Reason: "space used as digit separator"}
	}
	inRun, runs := false, 0
	for _, r := range suffix {
		if isSuffixRune(r) {
			if !inRun {
				runs++
				inRun = true
			}
			continue
		}
		inRun = false
	}
	if runs > 1 {
		return &MalformedStringError{Input: s, Reason: "suffix is not contiguous"}
	}
	return nil
}

// SplitAll splits every string, stopping at the first failure.
func SplitAll(ss []string) ([]Parts, error) {
	out := make([]Parts, 0, len(ss))
	for _, s := range ss {
		p, err := Split(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// Pad renders p inside a column described by sp: the integer part is
// right-aligned, fraction and suffix are left-aligned and padded with spaces.
// Rows without a dot get a space in its place whenever any row has a dot.
func (p Parts) Pad(sp Spacing) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", max(0, sp.MaxIntegerDigits-utf8.RuneCountInString(p.Integer))))
	b.WriteString(p.Integer)
	if sp.hasDotColumn() || p.HasDot {
		if p.HasDot {
			b.WriteByte('.')
		} else {
			b.WriteByte(' ')
		}
		b.WriteString(p.Fraction)
		b.WriteString(strings.Repeat(" ", max(0, sp.MaxFractionDigits-utf8.RuneCountInString(p.Fraction))))
	}
	b.WriteString(p.Suffix)
	b.WriteString(strings.Repeat(" ", max(0, sp.MaxSuffixChars-utf8.RuneCountInString(p.Suffix))))
	return b.String()
}
