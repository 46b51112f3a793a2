package log

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu       sync.RWMutex
	levelVar = new(slog.LevelVar) // zero value is INFO
	logger   = newLogger(os.Stderr, "text")
)

func newLogger(w io.Writer, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: levelVar,
	}
	if strings.EqualFold(format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Configure replaces the global output and format ("text" or "json").
func Configure(w io.Writer, format string, level Level) {
	if w == nil {
		w = os.Stderr
	}
	mu.Lock()
	logger = newLogger(w, format)
	mu.Unlock()
	SetLevel(level)
}

func SetLevel(l Level) {
	levelVar.Set(toSlog(l))
}

// ParseLevel maps user input (case-insensitive) onto a Level, defaulting to INFO.
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug
	case "WARN", "WARNING":
		return LevelWarn
	case "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

func toSlog(l Level) slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Debug(msg string, kv ...any) {
	current().Debug(msg, kv...)
}

func Info(msg string, kv ...any) {
	current().Info(msg, kv...)
}

func Warn(msg string, err error, kv ...any) {
	current().Warn(msg, withErr(err, kv)...)
}

func Error(msg string, err error, kv ...any) {
	current().Error(msg, withErr(err, kv)...)
}

// With returns a child logger carrying the given attributes, e.g. a component name.
func With(kv ...any) *slog.Logger {
	return current().With(kv...)
}

func withErr(err error, kv []any) []any {
	if err == nil {
		return kv
	}
	return append([]any{"err", err}, kv...)
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}
