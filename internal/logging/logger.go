package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/nekogravitycat/rental-backend/internal/config"
)

// New builds the application logger. Unknown levels fall back to info and
// unknown outputs to stdout.
func New(cfg config.LogConfig, env string) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.Level))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	var output io.Writer = os.Stdout
	if strings.EqualFold(strings.TrimSpace(cfg.Output), "stderr") {
		output = os.Stderr
	}

	return newWithWriter(output, cfg.Format, level, env)
}

func newWithWriter(w io.Writer, format string, level zerolog.Level, env string) zerolog.Logger {
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("app", "rental-backend").
		Str("env", env).
		Logger()
}
