// Package log is the CLI's structured logger: slog with a tint handler.
package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// Level represents the minimum log level
type Level slog.Level

// Available log levels
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// Logger is the subset of slog used by the CLI.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// StructuredLogger implements Logger on top of slog.
type StructuredLogger struct {
	logger *slog.Logger
}

// New returns a logger writing to stderr. Colour is enabled only when
// stderr is a terminal.
func New(level Level) *StructuredLogger {
	return NewWriter(os.Stderr, level, !isatty.IsTerminal(os.Stderr.Fd()))
}

// NewWriter returns a logger writing to w.
func NewWriter(w io.Writer, level Level, noColor bool) *StructuredLogger {
	h := tint.NewHandler(w, &tint.Options{
		NoColor:    noColor,
		TimeFormat: time.Kitchen,
		Level:      slog.Level(level),
	})
	return &StructuredLogger{logger: slog.New(h)}
}

func (l *StructuredLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *StructuredLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *StructuredLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *StructuredLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *StructuredLogger) With(args ...any) Logger {
	return &StructuredLogger{logger: l.logger.With(args...)}
}

// LevelFromString converts a level name; unknown names map to LevelInfo.
func LevelFromString(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}
