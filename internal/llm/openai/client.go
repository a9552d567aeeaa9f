// Package openai talks to an OpenAI-compatible chat endpoint to extract
// a structured payslip record straight from page text.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/payslip-extractor/internal/extract"
	"github.com/joseph-ayodele/payslip-extractor/internal/llm"
	"github.com/joseph-ayodele/payslip-extractor/internal/payslip"
)

// Config for the OpenAI client.
type Config struct {
	APIKey      string        // if empty, falls back to env OPENAI_API_KEY
	BaseURL     string        // default https://api.openai.com/v1
	Model       string        // e.g., "gpt-4o-mini"
	Temperature float32       // 0..2
	Timeout     time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 45 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

func (c *Client) Name() string { return "llm" }

const systemPrompt = `Você é um assistente que extrai dados de contracheques brasileiros.
Retorne um JSON com:
{
  "mes_ano": "Mai/2024",
  "proventos": {"SALARIO": 1234.56, "OUTRO": 0.0},
  "base_fgts": 1234.56
}
Se não encontrar algo, use null.
Valores numéricos devem ser float com ponto decimal.`

// ExtractRecord asks the model for the structured record of one page.
// A page the model cannot read comes back as (nil, nil); only transport
// and decoding problems are errors.
func (c *Client) ExtractRecord(ctx context.Context, pageText string) (*payslip.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	if len(pageText) > llm.MaxInputChars {
		pageText = pageText[:llm.MaxInputChars]
	}

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(pageText),
	)

	body := map[string]any{
		"model":           c.cfg.Model,
		"temperature":     c.cfg.Temperature,
		"response_format": map[string]any{"type": "json_object"},
		"messages": []map[string]any{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": pageText},
		},
	}

	raw, err := c.post(ctx, strings.TrimRight(c.cfg.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}
	if len(cc.Choices) == 0 {
		return nil, fmt.Errorf("no choices in openai response")
	}
	content := []byte(strings.TrimSpace(cc.Choices[0].Message.Content))

	if err := llm.ValidateRecordJSON(content); err != nil {
		c.logger.Warn("llm.extract.invalid_json",
			"req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, fmt.Errorf("%w: %v", extract.ErrInvalidRecordOutput, err)
	}
	var payload llm.RecordPayload
	if err := json.Unmarshal(content, &payload); err != nil {
		c.logger.Warn("llm.extract.unmarshal_failed", "req_id", rid, "error", err)
		return nil, fmt.Errorf("%w: %v", extract.ErrInvalidRecordOutput, err)
	}

	rec := payload.ToRecord()
	if rec == nil {
		c.logger.Info("llm.extract.no_record", "req_id", rid)
		return nil, nil
	}
	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"period", rec.Period,
		"items", len(rec.Earnings),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(body io.ReadCloser) {
		if cerr := body.Close(); cerr != nil {
			c.logger.Warn("openai response body close error", "error", cerr)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
