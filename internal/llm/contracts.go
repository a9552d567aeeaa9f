package llm

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// MaxInputChars caps the page text sent to the model.
const MaxInputChars = 12000

// RecordPayload is the JSON shape requested from the model. Fields the
// model could not find come back as null.
type RecordPayload struct {
	MesAno    *string             `json:"mes_ano"`
	Proventos map[string]*float64 `json:"proventos"`
	BaseFGTS  *float64            `json:"base_fgts"`
}

// ToRecord converts the model payload into a parser-equivalent record.
// A payload without a period identifies no payslip and maps to nil.
func (p *RecordPayload) ToRecord() *payslip.Record {
	if p == nil || p.MesAno == nil || strings.TrimSpace(*p.MesAno) == "" {
		return nil
	}
	rec := &payslip.Record{
		Period:   strings.TrimSpace(*p.MesAno),
		Earnings: map[string]decimal.Decimal{},
	}
	for label, v := range p.Proventos {
		if v == nil {
			continue
		}
		rec.Earnings[strings.ToUpper(label)] = decimal.NewFromFloat(*v)
	}
	if p.BaseFGTS != nil {
		rec.TaxBase = decimal.NewFromFloat(*p.BaseFGTS)
	}
	return rec
}
