// Package ocr acquires page text locally: the PDF text layer when the
// page has one, tesseract over a rendered page image when it does not.
package ocr

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Tesseract string // binary name or absolute path; if empty -> "tesseract"

	Lang        string // tesseract language, default "por"
	DPI         int    // rasterization DPI for scanned pages, default 300
	TessdataDir string
}

type Extractor struct {
	cfg    Config
	runner Runner
	open   func(path string) (io.Closer, document, error)
	logger *slog.Logger
}

// document is the slice of the pdf reader API the extractor uses; tests
// stub it to avoid needing real PDF fixtures.
type document interface {
	NumPage() int
	PageText(n int) (string, error)
}

type pdfDocument struct{ r *pdf.Reader }

func (d pdfDocument) NumPage() int { return d.r.NumPage() }

func (d pdfDocument) PageText(n int) (string, error) {
	p := d.r.Page(n)
	if p.V.IsNull() {
		return "", nil
	}
	return p.GetPlainText(nil)
}

func openPDF(path string) (io.Closer, document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, nil, err
	}
	return f, pdfDocument{r: r}, nil
}

func NewExtractor(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Lang == "" {
		cfg.Lang = "por"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, open: openPDF, logger: logger}
}

func (e *Extractor) Name() string { return "local" }

// PageTexts returns the text of every page of the document. The text
// layer is read for all pages, but rendering and OCR run only for pages
// inside pageStart..pageEnd (clamped to the document); a blank page
// outside the range stays empty without costing a rasterization. OCR
// that still yields nothing leaves the page entry empty rather than
// failing the document. Only an unopenable PDF is an error.
func (e *Extractor) PageTexts(ctx context.Context, path string, pageStart, pageEnd int) ([]string, error) {
	start := time.Now()

	f, doc, err := e.open(path)
	if err != nil {
		return nil, common.NewAppError("PDF_OPEN", err.Error(), common.ErrCorruptDocument)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			e.logger.Warn("ocr.close", "error", cerr)
		}
	}()

	if pageStart < 1 {
		pageStart = 1
	}
	if pageEnd > doc.NumPage() {
		pageEnd = doc.NumPage()
	}

	pages := make([]string, doc.NumPage())
	ocrPages := 0
	for i := 1; i <= doc.NumPage(); i++ {
		txt, err := doc.PageText(i)
		if err != nil {
			e.logger.Warn("ocr.page_text", "page", i, "error", err)
			txt = ""
		}
		if strings.TrimSpace(txt) == "" && i >= pageStart && i <= pageEnd {
			txt = e.ocrPage(ctx, path, i)
			ocrPages++
		}
		pages[i-1] = txt
	}

	e.logger.Info("ocr.pages.ok",
		"path", filepath.Base(path),
		"pages", len(pages),
		"ocr_pages", ocrPages,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return pages, nil
}

// ocrPage rasterizes a single page and runs tesseract over it. Failures
// yield empty text: an unreadable page is "no record", not a hard error.
func (e *Extractor) ocrPage(ctx context.Context, path string, page int) string {
	tmpDir, err := os.MkdirTemp("", "payslip-pp-*")
	if err != nil {
		e.logger.Warn("ocr.tmpdir", "error", err)
		return ""
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.logger.Warn("ocr.cleanup", "dir", tmpDir, "error", rerr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	pageArg := fmt.Sprintf("%d", page)
	// pdftoppm -r 300 -f N -l N -png <in.pdf> <tmp/page>
	if _, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm,
		"-r", fmt.Sprintf("%d", e.cfg.DPI), "-f", pageArg, "-l", pageArg, "-png", path, prefix); err != nil {
		e.logger.Warn("ocr.pdftoppm", "page", page, "error", err, "stderr", truncate(string(errb), 2<<10))
		return ""
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		e.logger.Warn("ocr.no_image", "page", page)
		return ""
	}

	// With -f N -l N pdftoppm should emit exactly one image, but OCR
	// every match in order rather than trusting that.
	var parts []string
	for _, img := range matches {
		// tesseract <img> stdout -l por
		args := []string{img, "stdout", "-l", e.cfg.Lang}
		if e.cfg.TessdataDir != "" {
			args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
		}
		out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
		if err != nil {
			e.logger.Warn("ocr.tesseract", "page", page, "image", filepath.Base(img), "error", err, "stderr", truncate(string(errb), 2<<10))
			continue
		}
		parts = append(parts, string(out))
	}
	return strings.Join(parts, "\n")
}
