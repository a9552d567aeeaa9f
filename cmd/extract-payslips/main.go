package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/payslip-extractor/internal/adobe"
	"github.com/joseph-ayodele/payslip-extractor/internal/common"
	"github.com/joseph-ayodele/payslip-extractor/internal/export"
	"github.com/joseph-ayodele/payslip-extractor/internal/extract"
	"github.com/joseph-ayodele/payslip-extractor/internal/llm/openai"
	"github.com/joseph-ayodele/payslip-extractor/internal/ocr"
	"github.com/joseph-ayodele/payslip-extractor/internal/pipeline"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	_ = godotenv.Load()

	in := flag.String("in", "", "payslip PDF to process")
	out := flag.String("out", "contracheques.xlsx", "output workbook path")
	from := flag.Int("from", 1, "first page (1-based, inclusive)")
	to := flag.Int("to", 9999, "last page (inclusive, clamped to the document)")
	flag.Parse()

	if *in == "" {
		logger.Error("usage", "cmd", "extract-payslips -in file.pdf [-from N -to M -out file.xlsx]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("config invalid", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	local := ocr.NewExtractor(ocr.Config{
		Pdftoppm:    cfg.OCR.Pdftoppm,
		Tesseract:   cfg.OCR.Tesseract,
		Lang:        cfg.OCR.Lang,
		DPI:         cfg.OCR.DPI,
		TessdataDir: cfg.OCR.TessdataDir,
	}, logger)

	var sources []extract.PageSource
	switch cfg.Strategy {
	case common.StrategyRemote:
		sources = []extract.PageSource{newRemote(cfg, logger)}
	case common.StrategyAuto:
		if remote := newRemote(cfg, logger); remote.Configured() {
			sources = append(sources, remote)
		}
		sources = append(sources, local)
	default:
		sources = []extract.PageSource{local}
	}

	p := pipeline.NewProcessor(logger, sources...)
	if cfg.Strategy == common.StrategyLLM {
		p.Records = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	table, advisories, err := p.Process(ctx, *in, *from, *to)
	if err != nil {
		logger.Error("processing failed", "error", err)
		os.Exit(1)
	}
	for _, a := range advisories {
		fmt.Fprintln(os.Stderr, "aviso: "+a)
	}
	if table.Empty() {
		fmt.Fprintln(os.Stderr, "nenhum contracheque encontrado no intervalo informado")
		return
	}

	xlsx, err := export.XLSX(table, logger)
	if err != nil {
		logger.Error("workbook build failed", "error", err)
		os.Exit(1)
	}
	if err := os.WriteFile(*out, xlsx, 0o644); err != nil {
		logger.Error("write workbook", "path", *out, "error", err)
		os.Exit(1)
	}
	logger.Info("done", "rows", len(table.Rows), "out", *out)
}

func newRemote(cfg *common.Config, logger *slog.Logger) *adobe.Client {
	return adobe.NewClient(adobe.Config{
		BaseURL:      cfg.Adobe.BaseURL,
		ClientID:     cfg.Adobe.ClientID,
		ClientSecret: cfg.Adobe.ClientSecret,
		OrgID:        cfg.Adobe.OrgID,
		Timeout:      cfg.Adobe.Timeout,
	}, logger)
}
