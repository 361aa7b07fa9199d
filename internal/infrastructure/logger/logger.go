package logger

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type Config struct {
	Level  slog.Level
	Format string // json|text
}

// FromEnv reads LOG_LEVEL and LOG_FORMAT. APP_ENV=production forces JSON.
func FromEnv(level, format string) Config {
	cfg := Config{Level: slog.LevelInfo, Format: "text"}

	switch strings.ToLower(level) {
	case "debug":
		cfg.Level = slog.LevelDebug
	case "warn":
		cfg.Level = slog.LevelWarn
	case "error":
		cfg.Level = slog.LevelError
	}

	if format != "" {
		cfg.Format = format
	}
	if os.Getenv("APP_ENV") == "production" {
		cfg.Format = "json"
	}
	return cfg
}

func New(cfg Config) *slog.Logger {
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: cfg.Level,
		}))
	}
	return slog.New(tint.NewHandler(os.Stdout, &tint.Options{
		Level:      cfg.Level,
		TimeFormat: time.Kitchen,
	}))
}

// Discard returns a logger that drops everything; used by tests.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
