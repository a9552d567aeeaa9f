package constants

import "time"

// Months maps the canonical 3-letter pt-BR month token (title case, as it
// appears in a period key like "Mai/2024") to its calendar month.
var Months = map[string]time.Month{
	"Jan": time.January,
	"Fev": time.February,
	"Mar": time.March,
	"Abr": time.April,
	"Mai": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Ago": time.August,
	"Set": time.September,
	"Out": time.October,
	"Nov": time.November,
	"Dez": time.December,
}
