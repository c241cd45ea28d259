package helpers

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/spektr-org/tally/scale"
)

const salesCSV = `Region,Month,Net Revenue
EMEA,Jan-2026,1200000
APAC,Jan-2026,null
LATAM,Feb-2026,
,,
EMEA,Feb-2026,800000.5
`

func TestParseCSV(t *testing.T) {
	records, keys, err := ParseCSV([]byte(salesCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"region", "month", "net_revenue"}, keys)
	require.Len(t, records, 4)
	assert.Equal(t, "EMEA", records[0].Dimensions["region"])
	assert.Equal(t, 1_200_000.0, records[0].Measures["net_revenue"])

	assert.Equal(t, []scale.Sample{
		scale.Value(1_200_000), scale.Null(), scale.Null(), scale.Value(800_000.5),
	}, Samples(records, "net_revenue"))
}

func TestParseCSVKeepsNonFiniteAsText(t *testing.T) {
	records, _, err := ParseCSV([]byte("code,units\nInf,3\nNaN,infinity\n"))
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Inf", records[0].Dimensions["code"])
	assert.Equal(t, 3.0, records[0].Measures["units"])
	assert.Equal(t, "NaN", records[1].Dimensions["code"])
	assert.Equal(t, "infinity", records[1].Dimensions["units"])
	assert.NotContains(t, records[1].Measures, "units")
}

func TestParseCSVView(t *testing.T) {
	view, _, err := ParseCSVView([]byte(salesCSV))
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "month"}, view.DimensionKeys())
	assert.Equal(t, []string{"net_revenue"}, view.MeasureKeys())

	_, _, err = ParseCSV(nil)
	assert.Error(t, err)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Sheet1"
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Region", "Revenue"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"EMEA", 1500000}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"APAC", "null"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]any{"LATAM", 250.5}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	records, keys, err := ParseXLSX(bytes.NewReader(buf.Bytes()), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"region", "revenue"}, keys)
	require.Len(t, records, 3)
	assert.Equal(t, []scale.Sample{
		scale.Value(1_500_000), scale.Null(), scale.Value(250.5),
	}, Samples(records, "revenue"))

	_, _, err = ParseXLSX(bytes.NewReader(buf.Bytes()), "Missing")
	assert.Error(t, err)

	_, _, err = ParseXLSX(bytes.NewReader([]byte("not a workbook")), "")
	assert.Error(t, err)
}
