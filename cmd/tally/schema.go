package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/schema"
	"github.com/spektr-org/tally/telemetry"
)

func (a *app) schemaCmd() *cobra.Command {
	var (
		src     source
		name    string
		outFile string
		preview int
	)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Discover the columns of a data file and their format kinds",
		Example: `  tally schema --file sales.csv --out sales.schema.yaml
  tally table --file sales.csv --group-by region --schema sales.schema.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			records, keys, err := src.records()
			if err != nil {
				return err
			}
			s, err := schema.Discover(name, keys, records)
			if err != nil {
				return err
			}
			a.track(cmd.Context(), src.path, telemetry.ScreenSchema)

			data, err := s.Marshal()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if outFile != "" {
				if err := os.WriteFile(outFile, data, 0644); err != nil {
					return fmt.Errorf("failed to write schema: %w", err)
				}
				fmt.Fprintf(out, "wrote schema to %s\n", outFile)
			} else {
				out.Write(data)
			}

			if preview > 0 {
				fmt.Fprintln(out)
				fmt.Fprintln(out, previewGrid(s, records, preview))
			}
			return nil
		},
	}
	src.bind(cmd)
	cmd.Flags().StringVar(&name, "name", "", "dataset name")
	cmd.Flags().StringVar(&outFile, "out", "", "write the schema YAML to this file")
	cmd.Flags().IntVar(&preview, "preview", 0, "print this many rows formatted with the discovered kinds")
	return cmd
}

// previewGrid renders the first n records, measures formatted per column.
func previewGrid(s *schema.Config, records []engine.Record, n int) string {
	if n > len(records) {
		n = len(records)
	}
	formatted := engine.HumanizeRecords(records[:n], s.ColumnFormats())

	var header []string
	var right []bool
	for _, d := range s.Dimensions {
		header = append(header, d.DisplayName)
		right = append(right, false)
	}
	for _, m := range s.Measures {
		header = append(header, m.DisplayName)
		right = append(right, true)
	}

	rows := make([][]string, len(formatted))
	for i, r := range formatted {
		row := make([]string, 0, len(header))
		for _, d := range s.Dimensions {
			row = append(row, r.Dimensions[d.Key])
		}
		for _, m := range s.Measures {
			row = append(row, r.Dimensions[engine.FormattedKey(m.Key)])
		}
		rows[i] = row
	}
	return renderGrid(header, rows, right)
}
