// Package export serializes a report table to a downloadable workbook.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/payslip-extractor/internal/report"
)

const Sheet = "Contracheques"

// XLSX renders the table as a single-sheet workbook: header row, one
// data row per period, period cells as text and amount cells numeric.
func XLSX(t report.Table, logger *slog.Logger) ([]byte, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	f := excelize.NewFile()
	if _, err := f.NewSheet(Sheet); err != nil {
		return nil, err
	}
	activeIndex, _ := f.GetSheetIndex(Sheet)
	f.SetActiveSheet(activeIndex)
	// NewFile seeds a default Sheet1; drop it so the workbook carries
	// only the report sheet.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for i, h := range t.Columns() {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(Sheet, cell, h)
	}

	for rowIdx, r := range t.Rows {
		row := rowIdx + 2
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(Sheet, cell, v)
		}

		write(1, r.Period)
		for i, amount := range r.Amounts {
			write(i+2, amount.InexactFloat64())
		}
		write(len(r.Amounts)+2, r.TaxBase.InexactFloat64())
	}

	// Widen the period column and the amount columns a bit
	_ = f.SetColWidth(Sheet, "A", "A", 12)
	if n := len(t.Columns()); n > 1 {
		last, err := excelize.ColumnNumberToName(n)
		if err == nil {
			_ = f.SetColWidth(Sheet, "B", last, 16)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	logger.Info("export.xlsx.ok",
		"rows", len(t.Rows),
		"cols", len(t.Columns()),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
