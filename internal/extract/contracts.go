// Package extract defines the contracts between the text-acquisition
// strategies and the processing pipeline.
package extract

import (
	"context"
	"errors"

	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// ErrInvalidRecordOutput marks a record source reply that was not a
// usable record payload (e.g. a model answering with prose instead of
// JSON). The pipeline surfaces it as a page advisory, never a failure.
var ErrInvalidRecordOutput = errors.New("record source returned no valid record payload")

// PageSource yields the text of every page of a document, index 0
// holding page 1. pageStart and pageEnd carry the caller's requested
// range (1-based, inclusive, possibly out of bounds): the local path
// uses it to skip OCR for pages nobody asked for, the remote service
// ignores it because its endpoint processes the document in a single
// round trip. The returned slice always spans the whole document so the
// caller can clamp against the real page count.
type PageSource interface {
	// Name identifies the strategy in logs and advisories.
	Name() string
	PageTexts(ctx context.Context, path string, pageStart, pageEnd int) ([]string, error)
}

// RecordSource produces a structured payslip record straight from raw
// page text, bypassing the line parser. A nil record with a nil error
// means the source could not make sense of the page.
type RecordSource interface {
	Name() string
	ExtractRecord(ctx context.Context, pageText string) (*payslip.Record, error)
}
