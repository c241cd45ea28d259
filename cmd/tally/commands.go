package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/tally/align"
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/helpers"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/scale"
	"github.com/spektr-org/tally/telemetry"
)

func (a *app) scaleCmd() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "scale <values...>",
		Short: "Pick the shared scale for a list of numbers",
		Example: `  tally scale 1200000 800000 400000
  tally scale 950 12000 null`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			samples := make([]scale.Sample, len(args))
			for i, arg := range args {
				s, err := scale.ParseSample(arg)
				if err != nil {
					return err
				}
				samples[i] = s
			}

			if strict {
				if _, err := scale.Select(samples, false); err != nil {
					return err
				}
			}
			col, err := format.FormatColumn(samples, a.formatter(a.cfg.Kind()), a.cfg.FormatOptions())
			if err != nil {
				return err
			}
			a.track(cmd.Context(), strings.Join(args, ","), telemetry.ScreenScale)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "scale: %s\n", col.Scale)
			for i, text := range col.Texts {
				fmt.Fprintf(out, "%s\t%s\n", args[i], text)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject null values instead of ignoring them")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "split <strings...>",
		Short:   "Split formatted numbers into integer, fraction and suffix",
		Example: `  tally split 1.2M 34.56k 7`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parts, err := align.SplitAll(args)
			if err != nil {
				return err
			}
			spacing, err := align.SpacingFor(parts)
			if err != nil {
				return err
			}
			a.track(cmd.Context(), strings.Join(args, ","), telemetry.ScreenSplit)

			header := []string{"input", "int", "dot", "frac", "suffix", "aligned"}
			rows := make([][]string, len(parts))
			for i, p := range parts {
				rows[i] = []string{args[i], p.Integer, p.Dot(), p.Fraction, p.Suffix, "[" + p.Pad(spacing) + "]"}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderGrid(header, rows, nil))
			fmt.Fprintf(out, "spacing: int=%d frac=%d suffix=%d\n",
				spacing.MaxIntegerDigits, spacing.MaxFractionDigits, spacing.MaxSuffixChars)
			return nil
		},
	}
}

func (a *app) alignCmd() *cobra.Command {
	var (
		src       source
		column    string
		kindName  string
		formatter string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Format one column of a file with a shared scale and align it",
		Example: `  tally align --file sales.csv --column revenue
  tally align --file sales.xlsx --sheet Q1 --column revenue --formatter locale --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, _, err := src.records()
			if err != nil {
				return err
			}
			if kindName == "" {
				kindName = a.cfg.Format
			}
			kind, err := format.ParseKind(kindName)
			if err != nil {
				return err
			}
			if formatter == "" {
				formatter = a.cfg.Formatter
			}
			factory, ok := format.LookupFactory(formatter)
			if !ok {
				return fmt.Errorf("unknown formatter %q (see tally formats)", formatter)
			}

			samples := helpers.Samples(records, column)
			values := make([]float64, 0, len(samples))
			for _, s := range samples {
				if v, ok := s.Float64(); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				return fmt.Errorf("column %q has no numeric values", column)
			}

			render, err := factory.New(values, kind)
			if err != nil {
				return err
			}
			prepared, err := format.Prepare(values, render, a.cfg.WidthFunc())
			if err != nil {
				return err
			}
			a.track(cmd.Context(), src.path, telemetry.ScreenAlign)

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(prepared.Numbers())
			}

			lines := make([]string, len(samples))
			for i, s := range samples {
				v, ok := s.Float64()
				if !ok {
					lines[i] = format.NullText
					continue
				}
				n, _ := prepared.Lookup(v)
				lines[i] = n.Parts.Pad(n.Spacing)
			}
			fmt.Fprintln(out, renderColumn(column, lines))
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&column, "column", "", "measure column to format (required)")
	cmd.Flags().StringVar(&kindName, "format", "", "format kind: humanize, none, currency_usd, percentage")
	cmd.Flags().StringVar(&formatter, "formatter", "", "formatter from the catalog (see tally formats)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the alignment metadata as JSON")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List format kinds and formatters",
		Run: func(cmd *cobra.Command, args []string) {
			a.track(cmd.Context(), "catalog", telemetry.ScreenFormats)

			kinds := format.Kinds()
			rows := make([][]string, len(kinds))
			for i, k := range kinds {
				rows[i] = []string{string(k.Value), k.Label}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderGrid([]string{"kind", "label"}, rows, nil))
			fmt.Fprintln(out)

			catalog := format.Catalog()
			rows = make([][]string, len(catalog))
			for i, f := range catalog {
				rows[i] = []string{f.Name, f.Desc}
			}
			fmt.Fprintln(out, renderGrid([]string{"formatter", "description"}, rows, nil))
		},
	}
}

// formatter maps kind and the configured catalog name to the strategy used
// for whole tables, where the engine picks the scale per column.
func (a *app) formatter(kind format.Kind) format.NumberFormatter {
	switch a.cfg.Formatter {
	case "plain":
		return format.Plain{}
	case "scientific":
		return format.Scientific{}
	case "engineering":
		return format.Scientific{Engineering: true}
	case "locale":
		loc, err := format.NewLocale(a.cfg.Locale, kind)
		if err == nil {
			return loc
		}
		logging.Warn("locale formatter unavailable", "locale", a.cfg.Locale, "error", err)
	}
	if kind == format.KindNone {
		return format.Plain{}
	}
	return format.Humanizer{Kind: kind}
}
