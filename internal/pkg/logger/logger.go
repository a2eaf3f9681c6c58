package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

type Config struct {
	Level         slog.Level
	LogFile       string
	LogToStderr   bool
	AlsoLogStderr bool
	Format        string // "json" or "text"
}

// SetupLogger creates a configured slog logger
func SetupLogger(cfg Config) (*slog.Logger, error) {
	var writers []io.Writer

	if cfg.LogFile != "" {
		// Ensure directory exists
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}

		file, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, err
		}
		writers = append(writers, file)
	}

	if cfg.LogToStderr || cfg.AlsoLogStderr {
		writers = append(writers, os.Stderr)
	}

	writer := io.MultiWriter(writers...)

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: true,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(writer, opts)
	} else {
		handler = slog.NewTextHandler(writer, opts)
	}

	return slog.New(handler), nil
}

// ParseLevel converts a string to slog.Level
func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithRequest returns a logger annotated with a request id
func WithRequest(logger *slog.Logger, requestID string) *slog.Logger {
	return logger.With("request_id", requestID)
}

// WithUser returns a logger annotated with a user id
func WithUser(logger *slog.Logger, userID string) *slog.Logger {
	return logger.With("user_id", userID)
}
