package main

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spektr-org/tally/engine"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Underline(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	summaryStyle = lipgloss.NewStyle().Faint(true)
	columnGap    = "  "
)

// renderGrid lays out header and rows as columns. right marks columns to
// right-align; nil aligns everything left.
func renderGrid(header []string, rows [][]string, right []bool) string {
	blocks := make([]string, 0, len(header)*2)
	for c, h := range header {
		lines := make([]string, 0, len(rows)+1)
		lines = append(lines, headerStyle.Render(h))
		for _, row := range rows {
			if c < len(row) {
				lines = append(lines, row[c])
			} else {
				lines = append(lines, "")
			}
		}

		pos := lipgloss.Left
		if c < len(right) && right[c] {
			pos = lipgloss.Right
		}
		if c > 0 {
			blocks = append(blocks, columnGap)
		}
		blocks = append(blocks, lipgloss.NewStyle().Align(pos).Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

// renderColumn prints one right-aligned column under a title.
func renderColumn(title string, lines []string) string {
	return renderGrid([]string{title}, wrapRows(lines), []bool{true})
}

func wrapRows(lines []string) [][]string {
	rows := make([][]string, len(lines))
	for i, l := range lines {
		rows[i] = []string{l}
	}
	return rows
}

// renderTable prints a TableData with numeric cells padded to their
// column spacing, so decimal points line up.
func renderTable(t *engine.TableData) string {
	header := make([]string, len(t.Columns))
	right := make([]bool, len(t.Columns))
	for c, col := range t.Columns {
		header[c] = col.Label
		if col.Scale != "" {
			header[c] += " (" + string(col.Scale) + ")"
		}
		right[c] = col.Align == "right"
	}

	rows := make([][]string, len(t.Rows))
	for r, row := range t.Rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			cells[c] = cell.Padded(t.Columns[c])
		}
		rows[r] = cells
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(titleStyle.Render(t.Title))
		b.WriteString("\n\n")
	}
	b.WriteString(renderGrid(header, rows, right))

	if t.Summary != nil {
		parts := make([]string, 0, len(t.Columns))
		for _, col := range t.Columns {
			if v, ok := t.Summary.Values[col.Key]; ok {
				parts = append(parts, col.Label+": "+v)
			}
		}
		b.WriteString("\n\n")
		b.WriteString(summaryStyle.Render(t.Summary.Label + "  " + strings.Join(parts, "  ")))
	}
	return b.String()
}

// writeTableCSV writes the header and the unpadded cell text.
func writeTableCSV(w io.Writer, t *engine.TableData) error {
	cw := csv.NewWriter(w)
	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Label
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			rec[i] = cell.Text
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
