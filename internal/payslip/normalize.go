package payslip

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a pt-BR formatted amount ("1.234,56") to a
// decimal. The second return reports whether the input was confidently
// parseable; on false the caller keeps the zero value and records a
// warning instead of failing the page.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "-" || s == "0,00" {
		return decimal.Zero, true
	}
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
