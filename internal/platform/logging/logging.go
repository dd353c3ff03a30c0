package logging

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"peershare-backend/internal/platform/config"
)

// New builds the process logger from config. JSON to stdout at info level
// when fields are empty.
func New(cfg config.LoggingConfig, app config.AppConfig) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && cfg.Level != "" {
		level = parsed
	}

	var out = zerolog.New(os.Stdout)
	if strings.EqualFold(strings.TrimSpace(cfg.Format), "console") {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return out.
		Level(level).
		With().
		Timestamp().
		Str("app", app.Name).
		Str("env", app.Environment).
		Str("version", app.Version).
		Logger()
}
