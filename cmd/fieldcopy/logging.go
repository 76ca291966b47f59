package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Log level mapping
var logLevelMap = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// initLogging creates the CLI logger. Records always go to a JSON log file
// in the XDG cache directory; with verbose they are mirrored to stderr.
// The returned closer releases the log file.
func initLogging(logLevel string, verbose bool, stderr io.Writer) (*slog.Logger, io.Closer, error) {
	// Parse log level
	level, ok := logLevelMap[strings.ToLower(logLevel)]
	if !ok {
		level = slog.LevelInfo
	}

	// Get XDG cache directory
	logDir := getXDGCacheDir()
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	// Create log file
	logPath := filepath.Join(logDir, "fieldcopy.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Create file handler with JSON format for structured logging
	var handler slog.Handler = slog.NewJSONHandler(logFile, &slog.HandlerOptions{
		Level:     level,
		AddSource: true,
	})

	// If verbose is set, also log to stderr
	if verbose {
		stderrHandler := slog.NewTextHandler(stderr, &slog.HandlerOptions{
			Level: level,
		})
		handler = &multiHandler{
			handlers: []slog.Handler{handler, stderrHandler},
		}
	}

	logger := slog.New(handler)
	logger.Debug("logging initialized",
		"level", level.String(),
		"log_file", logPath,
		"verbose", verbose)

	return logger, logFile, nil
}

// getXDGCacheDir returns the XDG cache directory for fieldcopy
func getXDGCacheDir() string {
	// First check XDG_CACHE_HOME
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return filepath.Join(xdgCache, "fieldcopy")
	}

	// Fall back to default based on OS
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Last resort - use temp directory
		return filepath.Join(os.TempDir(), "fieldcopy")
	}

	if runtime.GOOS == "darwin" {
		// macOS uses ~/Library/Caches
		return filepath.Join(homeDir, "Library", "Caches", "fieldcopy")
	}

	// Linux and others use ~/.cache
	return filepath.Join(homeDir, ".cache", "fieldcopy")
}

// multiHandler implements slog.Handler to write to multiple handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (h *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, record.Level) {
			continue
		}
		if err := handler.Handle(ctx, record.Clone()); err != nil {
			return err
		}
	}
	return nil
}

func (h *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (h *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		newHandlers[i] = handler.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}
