// Package tally formats columns of numbers so they read well side by side.
//
// A column shares one scale symbol (k, M, B, T, Q) picked from the median
// magnitude of its values, and every formatted string splits into integer,
// fraction and suffix parts that line up on the decimal point.
//
// Usage:
//
//	import "github.com/spektr-org/tally/format"
//
//	col, err := format.FormatColumn(scale.Values(2.5e6, 1.2e6, 9e5),
//	    format.Humanizer{Kind: format.KindHumanize}, format.Options{})
//	// col.Scale == scale.Million, col.Texts == ["2.5M", "1.2M", "0.9M"]
//
// The scale package chooses symbols, align splits and measures formatted
// text, and engine builds aligned tables and leaderboards over CSV or XLSX
// records. Nothing here calls an external service.
package tally
