package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
	"github.com/joseph-ayodele/payslip-extractor/internal/report"
)

func TestXLSXRoundTrip(t *testing.T) {
	table := report.Build([]payslip.Record{
		{
			Period: "Mai/2024",
			Earnings: map[string]decimal.Decimal{
				"SALARIO": decimal.RequireFromString("3000"),
				"BONUS":   decimal.RequireFromString("500.5"),
			},
			TaxBase: decimal.RequireFromString("3000"),
		},
		{
			Period:   "Jun/2024",
			Earnings: map[string]decimal.Decimal{"SALARIO": decimal.RequireFromString("3100")},
			TaxBase:  decimal.RequireFromString("3100"),
		},
	})

	b, err := XLSX(table, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{Sheet}, f.GetSheetList(), "no leftover default sheet")

	rows, err := f.GetRows(Sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"Mês/Ano", "BONUS", "SALARIO", "Base FGTS"}, rows[0])
	assert.Equal(t, "Mai/2024", rows[1][0])
	assert.Equal(t, "500.5", rows[1][1])
	assert.Equal(t, "3000", rows[1][2])
	assert.Equal(t, "Jun/2024", rows[2][0])
	assert.Equal(t, "0", rows[2][1], "missing rubric exported as numeric zero")
}
