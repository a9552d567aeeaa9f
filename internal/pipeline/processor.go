// Package pipeline drives text acquisition and parsing across a page
// range and folds the results into one report.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/extract"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
	"github.com/joseph-ayodele/payslip-extractor/internal/report"
)

// Processor composes an ordered fallback list of page sources with the
// payslip parser. Sources[0] handles the document first; a later source
// is consulted when an earlier one errors out or parses to zero records
// across the whole range. That retry is document-level, never per page.
type Processor struct {
	Logger  *slog.Logger
	Sources []extract.PageSource

	// Records, when set, replaces the line parser with a generative
	// extractor fed by the acquired page text.
	Records extract.RecordSource
}

func NewProcessor(logger *slog.Logger, sources ...extract.PageSource) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, Sources: sources}
}

// Process aggregates pages pageStart..pageEnd (1-based, inclusive) of
// the document into a report table plus advisory messages. An empty
// table with a nil error means no payslip records in the range; a
// non-nil error means the document itself could not be read at all.
func (p *Processor) Process(ctx context.Context, path string, pageStart, pageEnd int) (report.Table, []string, error) {
	start := time.Now()

	var advisories []string
	var lastErr error

	for i, src := range p.Sources {
		pages, err := src.PageTexts(ctx, path, pageStart, pageEnd)
		if err != nil {
			lastErr = err
			advisories = append(advisories, fmt.Sprintf("extração via %s falhou: %v", src.Name(), err))
			p.Logger.Warn("pipeline.source.failed", "source", src.Name(), "error", err)
			continue
		}

		records, warnings := p.parseRange(ctx, pages, pageStart, pageEnd)
		if len(records) == 0 && i < len(p.Sources)-1 {
			advisories = append(advisories,
				fmt.Sprintf("%s não encontrou contracheques; tentando %s", src.Name(), p.Sources[i+1].Name()))
			p.Logger.Warn("pipeline.source.empty", "source", src.Name())
			continue
		}

		advisories = append(advisories, warnings...)
		table := report.Build(records)
		p.Logger.Info("pipeline.run.ok",
			"source", src.Name(),
			"rows", len(table.Rows),
			"warnings", len(warnings),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return table, advisories, nil
	}

	// Corrupt input is the only terminal failure; everything else ends
	// as a successful-but-empty run with the advisories explaining why.
	if lastErr != nil && errors.Is(lastErr, common.ErrCorruptDocument) {
		p.Logger.Error("pipeline.run.failed", "error", lastErr)
		return report.Table{}, advisories, lastErr
	}
	p.Logger.Info("pipeline.run.empty", "elapsed_ms", time.Since(start).Milliseconds())
	return report.Table{}, advisories, nil
}

// parseRange clamps the requested range to the acquired page count and
// parses each page, deduplicating periods first-occurrence-wins.
func (p *Processor) parseRange(ctx context.Context, pages []string, pageStart, pageEnd int) ([]payslip.Record, []string) {
	if pageStart < 1 {
		pageStart = 1
	}
	if pageEnd > len(pages) {
		pageEnd = len(pages)
	}

	var records []payslip.Record
	var warnings []string
	seen := map[string]struct{}{}

	for n := pageStart; n <= pageEnd; n++ {
		rec, warns := p.parsePage(ctx, n, pages[n-1])
		if rec == nil {
			warnings = append(warnings, warns...)
			continue // not a payslip page
		}
		if _, dup := seen[rec.Period]; dup {
			// payslips often repeat a period across two half-pages; the
			// whole duplicate page is dropped, its warnings included
			p.Logger.Debug("pipeline.page.duplicate_period", "page", n, "period", rec.Period)
			continue
		}
		seen[rec.Period] = struct{}{}
		records = append(records, *rec)
		warnings = append(warnings, warns...)
	}
	return records, warnings
}

func (p *Processor) parsePage(ctx context.Context, page int, text string) (*payslip.Record, []string) {
	if p.Records == nil {
		return payslip.Parse(text)
	}

	rec, err := p.Records.ExtractRecord(ctx, text)
	switch {
	case errors.Is(err, extract.ErrInvalidRecordOutput):
		p.Logger.Warn("pipeline.page.invalid_record", "page", page, "error", err)
		return nil, []string{fmt.Sprintf("Página %d: modelo não retornou JSON válido", page)}
	case err != nil:
		p.Logger.Warn("pipeline.page.record_source", "page", page, "error", err)
		return nil, []string{fmt.Sprintf("Página %d: extração estruturada falhou: %v", page, err)}
	}
	// nil record with nil error: the model read the page fine and found
	// no payslip on it, which is a silent skip like the line parser's
	return rec, nil
}
