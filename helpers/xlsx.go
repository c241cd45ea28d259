package helpers

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/tally/engine"
)

// ParseXLSX reads one worksheet of an Excel workbook into Records with the
// same cell rules as ParseCSV. An empty sheet name picks the first sheet.
func ParseXLSX(r io.Reader, sheet string) ([]engine.Record, []string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, fmt.Errorf("sheet %q has no header row", sheet)
	}

	keys := headerKeys(rows[0])
	return rowsToRecords(keys, rows[1:]), keys, nil
}

// ParseXLSXView is ParseXLSX returning a RecordView.
func ParseXLSXView(r io.Reader, sheet string) (engine.RecordView, []string, error) {
	records, keys, err := ParseXLSX(r, sheet)
	if err != nil {
		return nil, nil, err
	}
	return engine.NewSliceView(records, keys...), keys, nil
}
