package llm

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecordJSON(t *testing.T) {
	valid := [][]byte{
		[]byte(`{"mes_ano":"Mai/2024","proventos":{"SALARIO":3000.0},"base_fgts":3000.0}`),
		[]byte(`{"mes_ano":null,"proventos":null,"base_fgts":null}`),
		[]byte(`{"mes_ano":"Jun/2024","proventos":{"BONUS":null},"base_fgts":null}`),
	}
	for _, doc := range valid {
		assert.NoError(t, ValidateRecordJSON(doc), string(doc))
	}

	invalid := [][]byte{
		[]byte(`not json`),
		[]byte(`{"mes_ano":"Mai/2024"}`),
		[]byte(`{"mes_ano":42,"proventos":{},"base_fgts":null}`),
		[]byte(`{"mes_ano":"Mai/2024","proventos":{"SALARIO":"3000"},"base_fgts":null}`),
	}
	for _, doc := range invalid {
		assert.Error(t, ValidateRecordJSON(doc), string(doc))
	}
}

func TestRecordPayloadToRecord(t *testing.T) {
	mes := "Mai/2024"
	sal := 3000.0
	base := 2950.5
	p := &RecordPayload{
		MesAno:    &mes,
		Proventos: map[string]*float64{"salario": &sal, "vazio": nil},
		BaseFGTS:  &base,
	}

	rec := p.ToRecord()
	require.NotNil(t, rec)
	assert.Equal(t, "Mai/2024", rec.Period)
	require.Len(t, rec.Earnings, 1)
	assert.True(t, rec.Earnings["SALARIO"].Equal(decimal.NewFromFloat(3000.0)))
	assert.True(t, rec.TaxBase.Equal(decimal.NewFromFloat(2950.5)))
}

func TestRecordPayloadWithoutPeriodIsNil(t *testing.T) {
	assert.Nil(t, (&RecordPayload{}).ToRecord())
	empty := "  "
	assert.Nil(t, (&RecordPayload{MesAno: &empty}).ToRecord())
}
