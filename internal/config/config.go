package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Store backends.
const (
	BackendMemory    = "memory"
	BackendSQLite    = "sqlite"
	BackendPathstore = "pathstore"
)

type Config struct {
	Port string

	// Auth
	NotepenAPIKey string

	// Persistence
	StoreBackend    string
	SQLiteDir       string
	PathstoreURL    string
	PathstoreAPIKey string

	// Import worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Lifetimes
	JobTTL     time.Duration
	SessionTTL time.Duration

	// Editor timings
	FadeDelay      time.Duration
	ScrollThrottle time.Duration
	LinkInputDelay time.Duration

	ExportBasename string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		NotepenAPIKey: os.Getenv("NOTEPEN_API_KEY"),

		StoreBackend:    envOr("STORE_BACKEND", BackendMemory),
		SQLiteDir:       envOr("SQLITE_DIR", "./data"),
		PathstoreURL:    envOr("PATHSTORE_URL", "http://localhost:8080"),
		PathstoreAPIKey: os.Getenv("PATHSTORE_API_KEY"),

		WorkerCount:  envInt("WORKER_COUNT", 2),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL:     envDuration("JOB_TTL", 1*time.Hour),
		SessionTTL: envDuration("SESSION_TTL", 30*time.Minute),

		FadeDelay:      envDuration("FADE_DELAY", 260*time.Millisecond),
		ScrollThrottle: envDuration("SCROLL_THROTTLE", 250*time.Millisecond),
		LinkInputDelay: envDuration("LINK_INPUT_DELAY", 100*time.Millisecond),

		ExportBasename: envOr("EXPORT_BASENAME", "notepen"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 30 * time.Minute
	}
	if cfg.FadeDelay <= 0 {
		cfg.FadeDelay = 260 * time.Millisecond
	}
	if cfg.ScrollThrottle <= 0 {
		cfg.ScrollThrottle = 250 * time.Millisecond
	}
	if cfg.LinkInputDelay <= 0 {
		cfg.LinkInputDelay = 100 * time.Millisecond
	}

	return cfg
}

func (c Config) Validate() error {
	if c.NotepenAPIKey == "" {
		return fmt.Errorf("NOTEPEN_API_KEY is required")
	}
	switch c.StoreBackend {
	case BackendMemory:
	case BackendSQLite:
		if c.SQLiteDir == "" {
			return fmt.Errorf("SQLITE_DIR is required for the sqlite backend")
		}
	case BackendPathstore:
		if c.PathstoreAPIKey == "" {
			return fmt.Errorf("PATHSTORE_API_KEY is required for the pathstore backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
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
