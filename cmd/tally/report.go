package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/helpers"
	"github.com/spektr-org/tally/internal/logging"
	"github.com/spektr-org/tally/schema"
	"github.com/spektr-org/tally/telemetry"
)

// source is the --file / --sheet pair shared by every data command.
type source struct {
	path  string
	sheet string
}

func (s *source) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.path, "file", "", "CSV or XLSX data file (required)")
	cmd.Flags().StringVar(&s.sheet, "sheet", "", "worksheet name for XLSX files (default: first sheet)")
	_ = cmd.MarkFlagRequired("file")
}

// records reads the file, choosing the parser by extension.
func (s *source) records() ([]engine.Record, []string, error) {
	if strings.EqualFold(filepath.Ext(s.path), ".xlsx") {
		f, err := os.Open(s.path)
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		return helpers.ParseXLSX(f, s.sheet)
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, nil, err
	}
	return helpers.ParseCSV(data)
}

func (s *source) view(filters []string) (engine.RecordView, error) {
	records, keys, err := s.records()
	if err != nil {
		return nil, err
	}
	logging.Debug("data loaded", "file", s.path, "records", len(records), "columns", len(keys))

	f, err := engine.ParseFilters(filters)
	if err != nil {
		return nil, err
	}
	return engine.ApplyFilters(engine.NewSliceView(records, keys...), f), nil
}

// engineOptions turns the configuration into builder options. columns
// holds per-measure kinds from a schema and may be nil.
func (a *app) engineOptions(columns map[string]format.Kind) []engine.Option {
	kind := a.cfg.Kind()
	opts := []engine.Option{
		engine.WithKind(kind),
		engine.WithFormatOptions(a.cfg.FormatOptions()),
		engine.WithWidthFunc(a.cfg.WidthFunc()),
		engine.WithColumnKinds(columns),
	}
	if a.cfg.Formatter != "humanize" {
		opts = append(opts, engine.WithFormatter(a.formatter(kind)))
	}
	return opts
}

// schemaKinds loads the measure kinds of a schema file. An empty path
// returns nil.
func schemaKinds(path string) (map[string]format.Kind, error) {
	if path == "" {
		return nil, nil
	}
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	return s.Kinds(), nil
}

func (a *app) tableCmd() *cobra.Command {
	var (
		src      source
		groupBy  string
		measures []string
		agg      string
		sortBy   string
		limit    int
		filters  []string
		title    string
		output   string
		outFile  string
		schemaF  string
	)

	cmd := &cobra.Command{
		Use:   "table",
		Short: "Aggregate measures by a dimension and print an aligned table",
		Example: `  tally table --file sales.csv --group-by region --measure revenue
  tally table --file sales.csv --measure revenue --filter region=EMEA --output csv --out emea.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := src.view(filters)
			if err != nil {
				return err
			}
			if len(measures) == 0 {
				measures = view.MeasureKeys()
			}
			if len(measures) == 0 {
				return fmt.Errorf("no numeric columns in %s", src.path)
			}
			if title == "" {
				title = strings.Join(measures, ", ")
				if groupBy != "" {
					title += " by " + groupBy
				}
			}

			kinds, err := schemaKinds(schemaF)
			if err != nil {
				return err
			}
			opts := append(a.engineOptions(kinds),
				engine.WithAggregation(agg),
				engine.WithSort(sortBy),
				engine.WithLimit(limit),
			)
			table := engine.BuildTable(title, view, groupBy, measures, opts...)
			a.track(cmd.Context(), src.path, telemetry.ScreenTable)

			return writeOutput(cmd.OutOrStdout(), outFile, output, func(w io.Writer) error {
				switch output {
				case "json":
					return writeJSON(w, table)
				case "csv":
					return writeTableCSV(w, table)
				default:
					_, err := fmt.Fprintln(w, renderTable(table))
					return err
				}
			})
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&groupBy, "group-by", "", "dimension to group by (default: one row per record)")
	cmd.Flags().StringSliceVar(&measures, "measure", nil, "measure columns (default: every numeric column)")
	cmd.Flags().StringVar(&agg, "agg", "sum", "aggregation: "+strings.Join(engine.Aggregations, ", "))
	cmd.Flags().StringVar(&sortBy, "sort", "value_desc", "sort: value_desc, value_asc, date_asc, date_desc, alpha_asc, alpha_desc")
	cmd.Flags().IntVar(&limit, "limit", 0, "keep at most this many groups (0 = all)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "dimension=value filter, repeatable")
	cmd.Flags().StringVar(&title, "title", "", "table title")
	cmd.Flags().StringVar(&output, "output", "pretty", "output format: pretty, json, csv")
	cmd.Flags().StringVar(&outFile, "out", "", "write output to file instead of stdout")
	cmd.Flags().StringVar(&schemaF, "schema", "", "schema YAML with per-measure format kinds (see tally schema)")
	return cmd
}

func (a *app) leaderboardCmd() *cobra.Command {
	var (
		src        source
		dimensions []string
		measure    string
		agg        string
		limit      int
		filters    []string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:     "leaderboard",
		Short:   "Rank the values of several dimensions with one shared scale",
		Example: `  tally leaderboard --file sales.csv --dimension region,product --measure revenue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := src.view(filters)
			if err != nil {
				return err
			}
			if len(dimensions) == 0 {
				dimensions = view.DimensionKeys()
			}

			lb := engine.BuildLeaderboard(view, dimensions, measure, agg, limit,
				a.cfg.Leaderboard.Dimensions, a.cfg.Leaderboard.Values, a.engineOptions(nil)...)
			a.track(cmd.Context(), src.path, telemetry.ScreenLeaderboard)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, lb)
			}
			fmt.Fprintf(out, "%s (scale: %s)\n\n", measure, lb.Scale)
			for _, dim := range lb.Dimensions {
				values := lb.Values[dim]
				rows := make([][]string, len(values))
				for i, v := range values {
					rows[i] = []string{v.Label, v.Formatted}
				}
				fmt.Fprintln(out, renderGrid([]string{engine.LabelForDimension(dim), measure}, rows, []bool{false, true}))
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringSliceVar(&dimensions, "dimension", nil, "dimensions to rank (default: all)")
	cmd.Flags().StringVar(&measure, "measure", "", "measure column (required)")
	cmd.Flags().StringVar(&agg, "agg", "sum", "aggregation: "+strings.Join(engine.Aggregations, ", "))
	cmd.Flags().IntVar(&limit, "limit", 7, "values per dimension (0 = all)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "dimension=value filter, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the leaderboard as JSON")
	_ = cmd.MarkFlagRequired("measure")
	return cmd
}

func (a *app) growthCmd() *cobra.Command {
	var (
		src     source
		period  string
		measure string
		filters []string
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:     "growth",
		Short:   "Compare a measure between the first and last period",
		Example: `  tally growth --file sales.csv --period month --measure revenue`,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, err := src.view(filters)
			if err != nil {
				return err
			}
			g := engine.BuildGrowth(view, period, measure)
			a.track(cmd.Context(), src.path, telemetry.ScreenGrowth)

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, g)
			}
			kind := a.cfg.Kind()
			fmt.Fprintf(out, "%s %s (%s)\n", measure, g.Display, engine.DerivePeriod(view, period))
			fmt.Fprintf(out, "%s: %s\n", g.EarliestPeriod, format.HumanizeValue(g.EarliestValue, kind))
			fmt.Fprintf(out, "%s: %s\n", g.LatestPeriod, format.HumanizeValue(g.LatestValue, kind))
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&period, "period", "month", "dimension holding the period (Jan-2006, 2006-01-02 or 2006)")
	cmd.Flags().StringVar(&measure, "measure", "", "measure column (required)")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "dimension=value filter, repeatable")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the growth metrics as JSON")
	_ = cmd.MarkFlagRequired("measure")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeOutput sends render to outFile when set, otherwise to stdout.
func writeOutput(stdout io.Writer, outFile, output string, render func(io.Writer) error) error {
	if outFile == "" {
		return render(stdout)
	}
	f, err := os.Create(outFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "wrote %s output to %s\n", output, outFile)
	return nil
}
