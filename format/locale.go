package format

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/spektr-org/tally/scale"
)

// Locale renders numbers with the digit grouping and decimal separator of a
// language, then appends the scale symbol. Align expects "." as the decimal
// separator, so only locales that use it split cleanly.
type Locale struct {
	Tag  language.Tag
	Kind Kind
}

// NewLocale parses tag ("en-US", "de") into a Locale formatter.
func NewLocale(tag string, kind Kind) (Locale, error) {
	t, err := language.Parse(tag)
	if err != nil {
		return Locale{}, err
	}
	return Locale{Tag: t, Kind: kind}, nil
}

func (l Locale) Format(value float64, opts Options) string {
	p := message.NewPrinter(l.Tag)

	if l.Kind == KindPercentage {
		d := opts.Decimals
		if d == 0 {
			d = 1
		}
		return p.Sprintf("%v", number.Decimal(value*100, fractionDigits(d, opts.ExcludeDecimalZeros)...)) + "%"
	}

	sym := opts.Scale
	if sym == "" {
		sym = scale.None
	}
	scaled := value / sym.Divisor()
	d := decimalsFor(scaled, sym, opts.Decimals)

	s := p.Sprintf("%v", number.Decimal(math.Abs(scaled), fractionDigits(d, opts.ExcludeDecimalZeros)...)) + sym.Suffix()
	if l.Kind == KindCurrency {
		s = "$" + s
	}
	if scaled < 0 && !isZeroText(s) {
		s = "-" + s
	}
	return s
}

func fractionDigits(d int, trimZeros bool) []number.Option {
	if d < 0 {
		d = 0
	}
	opts := []number.Option{number.MaxFractionDigits(d)}
	if !trimZeros {
		opts = append(opts, number.MinFractionDigits(d))
	}
	return opts
}
