package engine

import (
	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/format"
)

// ============================================================================
// ENGINE OPTIONS — Functional options for the builders
// ============================================================================

// Option configures engine behavior via functional options pattern.
type Option func(*config)

type config struct {
	Kind      format.Kind
	Formatter format.NumberFormatter
	Width     align.WidthFunc
	Format    format.Options
	Columns   map[string]format.Kind

	Aggregation string
	SortBy      string
	Limit       int
}

// WithKind sets the format kind of every measure. Ignored when
// WithFormatter supplies a strategy.
func WithKind(kind format.Kind) Option {
	return func(c *config) {
		c.Kind = kind
	}
}

// WithFormatter replaces the humanizer with another strategy.
func WithFormatter(f format.NumberFormatter) Option {
	return func(c *config) {
		c.Formatter = f
	}
}

// WithWidthFunc enables pixel width metadata on numeric columns.
func WithWidthFunc(fn align.WidthFunc) Option {
	return func(c *config) {
		c.Width = fn
	}
}

// WithFormatOptions sets decimals and zero trimming. The scale is always
// chosen per column.
func WithFormatOptions(opts format.Options) Option {
	return func(c *config) {
		c.Format = opts
	}
}

// WithColumnKinds sets the format kind per measure key, overriding WithKind
// for the listed columns. Ignored when WithFormatter supplies a strategy.
func WithColumnKinds(kinds map[string]format.Kind) Option {
	return func(c *config) {
		c.Columns = kinds
	}
}

// WithAggregation sets how grouped rows combine a measure ("sum" by default).
func WithAggregation(aggregation string) Option {
	return func(c *config) {
		c.Aggregation = aggregation
	}
}

// WithSort sets the group sort mode ("value_desc" by default).
func WithSort(sortBy string) Option {
	return func(c *config) {
		c.SortBy = sortBy
	}
}

// WithLimit keeps at most n groups. 0 keeps all.
func WithLimit(n int) Option {
	return func(c *config) {
		c.Limit = n
	}
}

// applyOptions creates a config from functional options.
func applyOptions(opts []Option) *config {
	cfg := &config{
		Kind:        format.KindHumanize,
		Aggregation: "sum",
		SortBy:      "value_desc",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatterFor(cfg.Kind)
	} else {
		cfg.Columns = nil
	}
	return cfg
}

// formatterForColumn returns the formatter for one measure column.
func (c *config) formatterForColumn(key string) format.NumberFormatter {
	if kind, ok := c.Columns[key]; ok {
		return formatterFor(kind)
	}
	return c.Formatter
}

func formatterFor(kind format.Kind) format.NumberFormatter {
	if kind == format.KindNone {
		return format.Plain{}
	}
	return format.Humanizer{Kind: kind}
}
