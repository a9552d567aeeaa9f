package payslip

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// headerWindow is how many leading lines may carry the period header.
// Payslips put "Referência: <MÊS>/<ANO>" near the top; a page without it
// there is not a payslip page.
const headerWindow = 8

var (
	// The literal is case-insensitive and accent-tolerant, but the month
	// token itself must be uppercase (A–Z plus Ç, e.g. MARÇO).
	rePeriod     = regexp.MustCompile(`(?i:refer[eê]ncia)\s*:?\s*([A-ZÇ]+)\s*/\s*(\d{4})`)
	reTableStart = regexp.MustCompile(`(?i)^descri[cç][aã]o`)
	reTableEnd   = regexp.MustCompile(`(?i)^total\s+de\s+proventos`)
	reTaxBase    = regexp.MustCompile(`(?i)base\s+calc\.?\s*fgts\D*?(\d[\d.,]*)`)
	reColumns    = regexp.MustCompile(`\s{2,}`)
)

// tableState tags the earnings-table line scanner.
type tableState int

const (
	outsideTable tableState = iota
	insideTable
)

// Parse extracts one payslip record from the plain text of a page.
// It returns nil when no period header appears in the first lines, which
// is how non-payslip pages (covers, blanks) are recognized. Warnings
// report field-level issues; they never abort the page.
func Parse(text string) (*Record, []string) {
	lines := strings.Split(text, "\n")

	var period string
	limit := headerWindow
	if len(lines) < limit {
		limit = len(lines)
	}
	for _, ln := range lines[:limit] {
		if m := rePeriod.FindStringSubmatch(ln); m != nil {
			period = periodKey(m[1], m[2])
			break
		}
	}
	if period == "" {
		return nil, nil
	}

	rec := &Record{Period: period, Earnings: map[string]decimal.Decimal{}}
	var warnings []string

	// Scan for the earnings table: enter at the "Descrição" header line,
	// leave at the TOTAL DE PROVENTOS line.
	state := outsideTable
scan:
	for _, ln := range lines {
		t := strings.TrimSpace(ln)
		switch state {
		case outsideTable:
			if reTableStart.MatchString(t) {
				state = insideTable
			}
		case insideTable:
			if reTableEnd.MatchString(t) {
				break scan
			}
			parts := reColumns.Split(t, -1)
			if len(parts) < 2 {
				continue
			}
			label := strings.ToUpper(parts[0])
			raw := parts[len(parts)-1]
			amount, ok := ParseAmount(raw)
			if !ok {
				warnings = append(warnings, fmt.Sprintf("%s: valor ilegível em %s: %q", period, label, raw))
			}
			rec.Earnings[label] = amount
		}
	}

	// The FGTS base sits in the page footer; when the line repeats, the
	// one closest to the end of the page wins.
	found := false
	for i := len(lines) - 1; i >= 0; i-- {
		m := reTaxBase.FindStringSubmatch(lines[i])
		if m == nil {
			continue
		}
		base, ok := ParseAmount(m[1])
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s: Base FGTS ilegível: %q", period, m[1]))
		}
		rec.TaxBase = base
		found = true
		break
	}
	if !found {
		warnings = append(warnings, fmt.Sprintf("%s: Base FGTS não encontrada", period))
	}

	return rec, warnings
}
