package format

import (
	"math"
	"strconv"
)

// PercentParts is a percentage split for rendering with separate styling of
// the sign, the number and the percent sign.
type PercentParts struct {
	Neg     string `json:"neg"`
	Int     string `json:"int"`
	Percent string `json:"percent"`
}

func (p PercentParts) String() string {
	return p.Neg + p.Int + p.Percent
}

// PercentDifferenceParts formats a comparison ratio (0.052 means +5.2%).
// Non-zero changes under one percent collapse to "<1". Changes below 1000%
// keep at most one decimal without padded zeros; larger ones are whole.
func PercentDifferenceParts(ratio float64) PercentParts {
	pct := ratio * 100
	switch {
	case ratio == 0:
		return PercentParts{Int: "0", Percent: "%"}
	case math.Abs(pct) < 1:
		return PercentParts{Int: "<1", Percent: "%"}
	}

	p := PercentParts{Percent: "%"}
	if pct < 0 {
		p.Neg = "-"
		pct = -pct
	}
	if pct < 1000 {
		p.Int = strconv.FormatFloat(roundTo(pct, 1), 'f', -1, 64)
	} else {
		p.Int = strconv.FormatFloat(math.Round(pct), 'f', 0, 64)
	}
	return p
}

// PercentDifference is PercentDifferenceParts joined into one string.
func PercentDifference(ratio float64) string {
	return PercentDifferenceParts(ratio).String()
}
