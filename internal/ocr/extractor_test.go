package ocr

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
)

type stubDoc struct{ pages []string }

func (d stubDoc) NumPage() int { return len(d.pages) }

func (d stubDoc) PageText(n int) (string, error) { return d.pages[n-1], nil }

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// stubRunner fakes pdftoppm (by writing the expected png) and tesseract.
type stubRunner struct {
	ocrText string
	calls   [][]string
}

func (r *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	if strings.Contains(name, "pdftoppm") {
		prefix := args[len(args)-1]
		if err := os.WriteFile(prefix+"-1.png", []byte("png"), 0o644); err != nil {
			return nil, nil, err
		}
		return nil, nil, nil
	}
	return []byte(r.ocrText), nil, nil
}

func newStubExtractor(doc document, runner Runner) *Extractor {
	e := NewExtractor(Config{}, nil)
	e.runner = runner
	e.open = func(string) (io.Closer, document, error) { return nopCloser{}, doc, nil }
	return e
}

func TestPageTextsUsesTextLayer(t *testing.T) {
	runner := &stubRunner{ocrText: "unused"}
	e := newStubExtractor(stubDoc{pages: []string{"page one text", "page two text"}}, runner)

	pages, err := e.PageTexts(context.Background(), "doc.pdf", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"page one text", "page two text"}, pages)
	assert.Empty(t, runner.calls, "no OCR when the text layer is present")
}

func TestPageTextsFallsBackToOCR(t *testing.T) {
	runner := &stubRunner{ocrText: "Referência: MAIO/2024"}
	e := newStubExtractor(stubDoc{pages: []string{"has text", "   \n  "}}, runner)

	pages, err := e.PageTexts(context.Background(), "doc.pdf", 1, 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	assert.Equal(t, "has text", pages[0])
	assert.Equal(t, "Referência: MAIO/2024", pages[1])

	require.Len(t, runner.calls, 2) // pdftoppm then tesseract
	ppm := runner.calls[0]
	assert.Equal(t, "pdftoppm", ppm[0])
	assert.Contains(t, ppm, "-r")
	assert.Contains(t, ppm, "300")
	assert.Contains(t, ppm, "-f")
	assert.Contains(t, ppm, "2")
	tess := runner.calls[1]
	assert.Equal(t, "tesseract", tess[0])
	assert.Contains(t, tess, "-l")
	assert.Contains(t, tess, "por")
}

func TestPageTextsOCRsOnlyRequestedRange(t *testing.T) {
	runner := &stubRunner{ocrText: "Referência: MAIO/2024"}
	scanned := stubDoc{pages: []string{"", "", "", "", ""}}
	e := newStubExtractor(scanned, runner)

	pages, err := e.PageTexts(context.Background(), "doc.pdf", 1, 1)
	require.NoError(t, err)
	require.Len(t, pages, 5, "the slice still spans the whole document")
	assert.Equal(t, "Referência: MAIO/2024", pages[0])
	assert.Equal(t, []string{"", "", "", ""}, pages[1:])

	require.Len(t, runner.calls, 2, "one pdftoppm plus one tesseract run for a 1..1 request")
	assert.Equal(t, "pdftoppm", runner.calls[0][0])
	assert.Equal(t, "tesseract", runner.calls[1][0])
}

func TestPageTextsClampsRangeBeforeOCR(t *testing.T) {
	runner := &stubRunner{ocrText: "texto"}
	e := newStubExtractor(stubDoc{pages: []string{"", ""}}, runner)

	pages, err := e.PageTexts(context.Background(), "doc.pdf", -3, 99)
	require.NoError(t, err)
	assert.Equal(t, []string{"texto", "texto"}, pages)
	assert.Len(t, runner.calls, 4) // pdftoppm+tesseract per page
}

func TestOCRPageReadsEveryRenderedImage(t *testing.T) {
	runner := &multiImageRunner{}
	e := newStubExtractor(stubDoc{pages: []string{""}}, runner)

	pages, err := e.PageTexts(context.Background(), "doc.pdf", 1, 1)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "texto de page-1.png\ntexto de page-2.png", pages[0])
}

// multiImageRunner simulates a pdftoppm that emits two images for one
// page and a tesseract that echoes which image it was given.
type multiImageRunner struct{}

func (multiImageRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	if strings.Contains(name, "pdftoppm") {
		prefix := args[len(args)-1]
		for _, suffix := range []string{"-1.png", "-2.png"} {
			if err := os.WriteFile(prefix+suffix, []byte("png"), 0o644); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
	return []byte("texto de " + filepath.Base(args[0])), nil, nil
}

func TestPageTextsCorruptDocument(t *testing.T) {
	e := NewExtractor(Config{}, nil)
	e.open = func(string) (io.Closer, document, error) {
		return nil, nil, errors.New("bad xref")
	}

	_, err := e.PageTexts(context.Background(), "broken.pdf", 1, 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrCorruptDocument))
}
