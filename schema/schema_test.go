package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/tally/engine"
	"github.com/spektr-org/tally/format"
	"github.com/spektr-org/tally/helpers"
)

var financeCSV = []byte(`Month,Region,Net Revenue,Margin Pct,Units,Order ID
Jan-2026,EMEA,1200000,0.31,120,1
Jan-2026,APAC,400000,0.12,80,2
Feb-2026,EMEA,800000,,95,3
Feb-2026,APAC,null,0.2,60,4
`)

func discoverFinance(t *testing.T) *Config {
	t.Helper()
	records, keys, err := helpers.ParseCSV(financeCSV)
	require.NoError(t, err)
	c, err := Discover("finance", keys, records)
	require.NoError(t, err)
	return c
}

func TestDiscoverClassifiesColumns(t *testing.T) {
	c := discoverFinance(t)

	assert.Equal(t, []string{"month", "region"}, c.DimensionKeys())
	assert.Equal(t, []string{"net_revenue", "margin_pct", "units", "order_id"}, c.MeasureKeys())

	kinds := c.Kinds()
	assert.Equal(t, format.KindCurrency, kinds["net_revenue"])
	assert.Equal(t, format.KindPercentage, kinds["margin_pct"])
	assert.Equal(t, format.KindHumanize, kinds["units"])

	assert.Equal(t, "Net Revenue", c.Measures[0].DisplayName)
	assert.Equal(t, 1, c.Measures[0].NullCount)

	month := c.Dimensions[0]
	assert.True(t, month.IsTemporal)
	assert.Equal(t, "MMM-yyyy", month.TemporalFormat)
	assert.Equal(t, "low", month.CardinalityHint)
	assert.False(t, c.Dimensions[1].IsTemporal)
}

func TestDiscoverSkipsIdentifiers(t *testing.T) {
	var b strings.Builder
	b.WriteString("ticket,customer_id,amount\n")
	for i := 0; i < 12; i++ {
		fmt.Fprintf(&b, "T-%d,%d,%d\n", i, 1000+i, 10*(i%3))
	}
	records, keys, err := helpers.ParseCSV([]byte(b.String()))
	require.NoError(t, err)

	c, err := Discover("", keys, records)
	require.NoError(t, err)
	assert.Equal(t, "Auto-discovered Dataset", c.Name)
	assert.Empty(t, c.DimensionKeys())
	assert.Equal(t, []string{"amount"}, c.MeasureKeys())
	require.Len(t, c.Skipped, 2)

	_, err = Discover("x", keys, nil)
	assert.Error(t, err)
}

func TestInferKind(t *testing.T) {
	assert.Equal(t, format.KindPercentage, inferKind("conversion_rate", []float64{0.1, 0.4}))
	assert.Equal(t, format.KindHumanize, inferKind("heart_rate", []float64{72, 90}))
	assert.Equal(t, format.KindCurrency, inferKind("unit_price", nil))
	assert.Equal(t, format.KindHumanize, inferKind("pricey", nil))
}

func TestRoundTripYAML(t *testing.T) {
	c := discoverFinance(t)
	data, err := c.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: currency_usd")

	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, data, 0644))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, c, loaded)
}

func TestLoadRejectsUnknownKind(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("measures:\n  - key: revenue\n    kind: roman\n"), 0644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestColumnFormatsFeedHumanizeRecords(t *testing.T) {
	records, keys, err := helpers.ParseCSV(financeCSV)
	require.NoError(t, err)
	c, err := Discover("finance", keys, records)
	require.NoError(t, err)

	out := engine.HumanizeRecords(records, c.ColumnFormats())
	assert.Equal(t, "$1200.0k", out[0].Dimensions[engine.FormattedKey("net_revenue")])
	assert.Equal(t, "31.0%", out[0].Dimensions[engine.FormattedKey("margin_pct")])
	assert.Equal(t, format.NullText, out[3].Dimensions[engine.FormattedKey("net_revenue")])
}
