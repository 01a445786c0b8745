package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Draft persistence. DataDir is the default file-backed store; when
	// DraftStoreURL is set the collection lives on a remote KV service
	// instead.
	DataDir          string
	DraftStoreURL    string
	DraftStoreAPIKey string

	// Auth. Empty disables the bearer-token check; the service is a
	// local single-user tool by default.
	APIKey string

	// Assistant (Gemini).
	GoogleAPIKey string
	GeminiModel  string

	// Session lifecycle.
	SessionTTL time.Duration

	// Upload limits for the details import endpoint.
	MaxUploadBytes int64

	// PDF import
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		DataDir:          envOr("DATA_DIR", "data"),
		DraftStoreURL:    os.Getenv("DRAFTSTORE_URL"),
		DraftStoreAPIKey: os.Getenv("DRAFTSTORE_API_KEY"),

		APIKey: os.Getenv("LEXDRAFT_API_KEY"),

		GoogleAPIKey: os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-1.5-flash-latest"),

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}

	return cfg
}

func (c Config) Validate() error {
	if c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required")
	}
	if c.DataDir == "" && c.DraftStoreURL == "" {
		return fmt.Errorf("one of DATA_DIR or DRAFTSTORE_URL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
