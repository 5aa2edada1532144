// Package logging provides log management utilities
package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger manages the log file, level, and provides rotation
type Logger struct {
	file     *os.File
	path     string
	levelVar *slog.LevelVar
}

// NewSlogLogger creates a slog.Logger that writes to stdout and, when
// logPath is set, to that file as well. The parent directory is created if
// needed. Initial level is INFO. Use SetLevel() to change after loading config.
// Standard log package output goes to the same destinations.
func NewSlogLogger(logPath string) (*slog.Logger, *Logger, error) {
	return newLogger(os.Stdout, logPath)
}

func newLogger(console io.Writer, logPath string) (*slog.Logger, *Logger, error) {
	l := &Logger{path: logPath, levelVar: new(slog.LevelVar)}
	l.levelVar.Set(slog.LevelInfo)

	out := console
	if logPath != "" {
		if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
			return nil, nil, err
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		l.file = file
		out = io.MultiWriter(console, file)
	}

	// tgbotapi logs through the standard logger
	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime)

	handler := slog.NewTextHandler(
		out,
		&slog.HandlerOptions{
			Level:     l.levelVar,
			AddSource: true,
		},
	)

	return slog.New(handler), l, nil
}

// Path returns the log file path, or "" when logging to stdout only.
func (l *Logger) Path() string {
	return l.path
}

// SetLevel changes the log level dynamically.
// Valid levels: debug, info, warn, error (case-insensitive).
// Invalid or empty values default to info with a warning.
func (l *Logger) SetLevel(level string) {
	parsedLevel, valid := parseLevel(level)
	if !valid && level != "" {
		slog.Warn("Unknown log_level, using info", "value", level)
	}
	l.levelVar.Set(parsedLevel)
}

// Level returns the current level.
func (l *Logger) Level() slog.Level {
	return l.levelVar.Level()
}

func parseLevel(level string) (slog.Level, bool) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// Close closes the log file
func (l *Logger) Close() error {
	if l.file != nil {
		return l.file.Close()
	}
	return nil
}
