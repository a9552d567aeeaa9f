// Package report pivots parsed payslip records into the tabular output:
// one row per period, earnings columns alphabetical, rows chronological.
package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// PeriodColumn and TaxBaseColumn bracket the earnings columns.
const (
	PeriodColumn  = "Mês/Ano"
	TaxBaseColumn = "Base FGTS"
)

// Row is one period's worth of output. Amounts holds a value for every
// earnings column of the table, zero when that period never carried the
// rubric.
type Row struct {
	Period  string
	Amounts []decimal.Decimal
	TaxBase decimal.Decimal
}

// Table is the pivoted report.
type Table struct {
	// Labels are the earnings columns, sorted, sitting between
	// PeriodColumn and TaxBaseColumn in the final header.
	Labels []string
	Rows   []Row
}

// Columns returns the full header, period first, tax base last.
func (t Table) Columns() []string {
	cols := make([]string, 0, len(t.Labels)+2)
	cols = append(cols, PeriodColumn)
	cols = append(cols, t.Labels...)
	cols = append(cols, TaxBaseColumn)
	return cols
}

func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Build pivots the records. The column set is the sorted union of every
// label seen across all records; row order follows the calendar date of
// each period, with periods whose month token is unknown kept last in
// input order.
func Build(records []payslip.Record) Table {
	if len(records) == 0 {
		return Table{}
	}

	union := map[string]struct{}{}
	for _, r := range records {
		for label := range r.Earnings {
			union[label] = struct{}{}
		}
	}
	labels := make([]string, 0, len(union))
	for l := range union {
		labels = append(labels, l)
	}
	sort.Strings(labels)

	rows := make([]Row, 0, len(records))
	for _, r := range records {
		amounts := make([]decimal.Decimal, len(labels))
		for i, l := range labels {
			amounts[i] = r.Earnings[l] // zero decimal when absent
		}
		rows = append(rows, Row{Period: r.Period, Amounts: amounts, TaxBase: r.TaxBase})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		di, iok := payslip.PeriodDate(rows[i].Period)
		dj, jok := payslip.PeriodDate(rows[j].Period)
		if iok && jok {
			return di.Before(dj)
		}
		return iok && !jok
	})

	return Table{Labels: labels, Rows: rows}
}
