package obs

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LoggerOptions tunes NewLogger. The zero value logs at info level to stdout.
type LoggerOptions struct {
	Level  string
	Writer io.Writer
	// Sinks receive every record in addition to the console handler.
	Sinks []slog.Handler
}

// NewLogger configures slog logger with colorful dev output and JSON for production-like envs.
func NewLogger(env string, opts LoggerOptions) *slog.Logger {
	level := ParseLevel(opts.Level)
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}
	var handler slog.Handler
	if env == "dev" || env == "local" {
		handler = tint.NewHandler(writer, &tint.Options{
			Level:      level,
			TimeFormat: time.RFC3339,
			AddSource:  true,
		})
	} else {
		handler = slog.NewJSONHandler(writer, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
	if len(opts.Sinks) > 0 {
		handler = NewMultiHandler(append([]slog.Handler{handler}, opts.Sinks...)...)
	}
	return slog.New(handler)
}

// ParseLevel maps debug/info/warn/error to slog levels, defaulting to info.
func ParseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
