package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/brumelab/brume-core/internal/infrastructure/config"
)

// serviceName is stamped on every log entry.
const serviceName = "brume"

// Logger wraps slog.Logger. Safe for concurrent use.
type Logger struct {
	*slog.Logger
}

// New builds the service logger from the logging section of config.yaml:
// JSON or text format, level filtering, stdout or stderr, with service and
// version stamped on every entry.
//
// Parameters:
//   - cfg: Logging configuration
//   - version: Build version for the default fields
//
// Returns:
//   - *Logger: Configured logger
func New(cfg config.LoggingConfig, version string) *Logger {
	var w io.Writer = os.Stdout
	if strings.ToLower(cfg.Output) == "stderr" {
		w = os.Stderr
	}
	return newWithWriter(cfg, version, w)
}

// newWithWriter separates handler construction from destination selection
// so tests can capture output.
func newWithWriter(cfg config.LoggingConfig, version string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	handler = handler.WithAttrs([]slog.Attr{
		slog.String("service", serviceName),
		slog.String("version", version),
	})

	return &Logger{Logger: slog.New(handler)}
}

// parseLevel maps a config string onto a slog level. Unrecognised values
// fall back to info.
func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// With returns a child logger carrying extra default attributes.
//
// Example:
//
//	pipelineLog := log.With("component", "pipeline")
//	pipelineLog.Info("merge accepted") // carries component=pipeline
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// Default is the bootstrap logger for startup before config loads: JSON to
// stdout at info level.
func Default() *Logger {
	return New(config.LoggingConfig{
		Level:  "info",
		Format: "json",
		Output: "stdout",
	}, "dev")
}
