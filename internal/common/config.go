package common

import (
	"os"
	"strconv"
	"time"
)

// Strategy selects how page text (or records) are acquired.
type Strategy string

const (
	// StrategyAuto tries the remote extraction service first when it is
	// configured, falling back to local extraction.
	StrategyAuto   Strategy = "auto"
	StrategyLocal  Strategy = "local"
	StrategyRemote Strategy = "remote"
	// StrategyLLM acquires page text locally but lets a generative model
	// produce the structured record instead of the line parser.
	StrategyLLM Strategy = "llm"
)

// Config holds all application configuration
type Config struct {
	Strategy Strategy
	OCR      OCRConfig
	Adobe    AdobeConfig
	LLM      LLMConfig
}

// OCRConfig holds local text-extraction configuration
type OCRConfig struct {
	Pdftoppm    string
	Tesseract   string
	Lang        string
	DPI         int
	TessdataDir string
}

// AdobeConfig holds remote extraction service configuration
type AdobeConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	OrgID        string
	Timeout      time.Duration
}

// LLMConfig holds generative extraction configuration
type LLMConfig struct {
	BaseURL     string
	Model       string
	APIKey      string
	Temperature float32
	Timeout     time.Duration
}

// LoadConfig loads configuration from environment variables. Credentials
// come only from the environment; a missing credential disables its
// strategy rather than failing the load.
func LoadConfig() *Config {
	return &Config{
		Strategy: Strategy(getEnv("EXTRACT_STRATEGY", string(StrategyAuto))),
		OCR: OCRConfig{
			Pdftoppm:    getEnv("PDFTOPPM_BIN", "pdftoppm"),
			Tesseract:   getEnv("TESSERACT_BIN", "tesseract"),
			Lang:        getEnv("TESSERACT_LANG", "por"),
			DPI:         getEnvAsInt("OCR_DPI", 300),
			TessdataDir: getEnv("TESSDATA_PREFIX", ""),
		},
		Adobe: AdobeConfig{
			BaseURL:      getEnv("ADOBE_BASE_URL", ""),
			ClientID:     getEnv("ADOBE_CLIENT_ID", ""),
			ClientSecret: getEnv("ADOBE_CLIENT_SECRET", ""),
			OrgID:        getEnv("ADOBE_ORG_ID", ""),
			Timeout:      getEnvAsDuration("ADOBE_TIMEOUT", 90*time.Second),
		},
		LLM: LLMConfig{
			BaseURL:     getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			Model:       getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			APIKey:      getEnv("OPENAI_API_KEY", ""),
			Temperature: getEnvAsFloat32("OPENAI_TEMPERATURE", 0.0),
			Timeout:     getEnvAsDuration("OPENAI_TIMEOUT", 45*time.Second),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks that the selected strategy has the credentials it needs.
func (c *Config) Validate() error {
	switch c.Strategy {
	case StrategyAuto, StrategyLocal:
	case StrategyRemote:
		if c.Adobe.ClientID == "" || c.Adobe.ClientSecret == "" {
			return NewAppError("CONFIG_ERROR", "ADOBE_CLIENT_ID and ADOBE_CLIENT_SECRET are required for the remote strategy", ErrInvalidInput)
		}
	case StrategyLLM:
		if c.LLM.APIKey == "" {
			return NewAppError("CONFIG_ERROR", "OPENAI_API_KEY is required for the llm strategy", ErrInvalidInput)
		}
	default:
		return NewAppError("CONFIG_ERROR", "unknown EXTRACT_STRATEGY: "+string(c.Strategy), ErrInvalidInput)
	}
	return nil
}
