package payslip

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/joseph-ayodele/payslip-extractor/constants"
)

// periodKey builds the canonical "Mai/2024" token from a matched month
// word and 4-digit year. The month is truncated to its first 3 runes and
// title-cased, so "MAIO", "maio" and "Maio" all yield "Mai".
func periodKey(month, year string) string {
	r := []rune(strings.ToLower(month))
	if len(r) > 3 {
		r = r[:3]
	}
	if len(r) > 0 {
		r[0] = unicode.ToUpper(r[0])
	}
	return string(r) + "/" + year
}

// PeriodDate resolves a period token to the first day of its month, the
// sort key for chronological row ordering. ok is false when the month
// abbreviation is not a known pt-BR month or the token is malformed.
func PeriodDate(key string) (time.Time, bool) {
	mon, year, found := strings.Cut(key, "/")
	if !found {
		return time.Time{}, false
	}
	m, ok := constants.Months[mon]
	if !ok {
		return time.Time{}, false
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC), true
}
