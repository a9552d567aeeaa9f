// Package payslip parses the plain text of one Brazilian payslip
// (contracheque) page into a typed record.
package payslip

import "github.com/shopspring/decimal"

// Record is one page's worth of parsed payslip data. It is immutable
// once built and folded into the report by the pipeline.
type Record struct {
	// Period is the canonical pay-period token, e.g. "Mai/2024".
	Period string
	// Earnings maps the uppercase rubric label to its amount.
	Earnings map[string]decimal.Decimal
	// TaxBase is the FGTS calculation base for the period.
	TaxBase decimal.Decimal
}
