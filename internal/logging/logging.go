// Package logging provides structured logging setup and HTTP request logging
// for the comment board.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// New builds a logger writing to w. Dev mode uses human-readable text at
// debug level; otherwise JSON at info level.
func New(w io.Writer, devMode bool) *slog.Logger {
	if devMode {
		return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Setup initializes the default slog logger on stdout and returns it.
func Setup(devMode bool) *slog.Logger {
	logger := New(os.Stdout, devMode)
	slog.SetDefault(logger)
	return logger
}
