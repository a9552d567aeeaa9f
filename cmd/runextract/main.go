// runextract dumps the per-page text the local acquisition path sees,
// which is handy when a payslip template refuses to parse.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	from := flag.Int("from", 1, "first page (1-based, inclusive)")
	to := flag.Int("to", 9999, "last page (inclusive, clamped to the document)")
	flag.Parse()

	if flag.NArg() != 1 {
		logger.Error("usage", "cmd", "runextract [-from N -to M] <file.pdf>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg := common.LoadConfig()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	e := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	start := time.Now()
	pages, err := e.PageTexts(ctx, path, *from, *to)
	if err != nil {
		logger.Error("text extraction failed", "error", err, "duration_ms", time.Since(start).Milliseconds())
		os.Exit(1)
	}

	for i, txt := range pages {
		fmt.Printf("----- página %d (%d bytes) -----\n%s\n", i+1, len(txt), txt)
	}
	logger.Info("text extraction OK",
		"pages", len(pages),
		"duration_ms", time.Since(start).Milliseconds(),
	)
}
