// Package logger internal/infrastructure/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"
)

// Level is the severity written in the "level" key of each entry
type Level string

// Supported levels, from most to least verbose
const (
	DebugLevel Level = "DEBUG"
	InfoLevel  Level = "INFO"
	WarnLevel  Level = "WARN"
	ErrorLevel Level = "ERROR"
	FatalLevel Level = "FATAL"
)

// slogFatal sits above slog.LevelError so FATAL entries always pass the level filter
const slogFatal = slog.Level(12)

// slogLevel maps a Level onto the slog scale
func (l Level) slogLevel() slog.Level {
	switch l {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	case FatalLevel:
		return slogFatal
	default:
		return slog.LevelInfo
	}
}

// ParseLevel converts a string ("debug", "info", "warn", "error", "fatal") to a Level.
// Unknown strings default to InfoLevel.
func ParseLevel(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Logger is the structured logger used across the ETL and the report server.
// Fatal logs and then exits the process with status 1.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// JSONLogger writes one JSON object per entry through a slog JSON handler.
// Context fields attached with WithField(s) are repeated on every entry.
type JSONLogger struct {
	handler slog.Handler
	fields  map[string]interface{}
	exit    func(code int)
}

// NewJSONLogger returns a logger writing entries at or above level to output (stdout when nil)
func NewJSONLogger(output io.Writer, level Level) *JSONLogger {
	if output == nil {
		output = os.Stdout
	}

	handler := slog.NewJSONHandler(output, &slog.HandlerOptions{
		Level:       level.slogLevel(),
		AddSource:   true,
		ReplaceAttr: replaceAttr,
	})

	return &JSONLogger{
		handler: handler,
		fields:  make(map[string]interface{}),
		exit:    os.Exit,
	}
}

// replaceAttr renames the slog built-in keys to the ones our log consumers expect
func replaceAttr(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 {
		return a
	}

	switch a.Key {
	case slog.TimeKey:
		a.Key = "timestamp"
		a.Value = slog.StringValue(a.Value.Time().UTC().Format(time.RFC3339Nano))
	case slog.MessageKey:
		a.Key = "message"
	case slog.LevelKey:
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= slogFatal {
			a.Value = slog.StringValue(string(FatalLevel))
		}
	case slog.SourceKey:
		src, ok := a.Value.Any().(*slog.Source)
		if !ok || src == nil {
			return slog.Attr{}
		}
		file := src.File
		if strings.Contains(file, "/internal/") {
			file = filepath.Join("internal", strings.SplitAfter(file, "/internal/")[1])
		}
		return slog.String("file", fmt.Sprintf("%s:%d", file, src.Line))
	}

	return a
}

// WithField is WithFields with a single key
func (l *JSONLogger) WithField(key string, value interface{}) Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithFields returns a child logger carrying fields; the receiver is unchanged
func (l *JSONLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}

	return &JSONLogger{
		handler: l.handler,
		fields:  l.merge(fields),
		exit:    l.exit,
	}
}

func (l *JSONLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(DebugLevel, msg, fields)
}

func (l *JSONLogger) Info(msg string, fields map[string]interface{}) {
	l.log(InfoLevel, msg, fields)
}

func (l *JSONLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(WarnLevel, msg, fields)
}

func (l *JSONLogger) Error(msg string, fields map[string]interface{}) {
	l.log(ErrorLevel, msg, fields)
}

// Fatal writes the entry and exits with status 1
func (l *JSONLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(FatalLevel, msg, fields)
	l.exit(1)
}

// log builds the slog record with the caller of the exported method as source
func (l *JSONLogger) log(level Level, msg string, fields map[string]interface{}) {
	ctx := context.Background()
	lvl := level.slogLevel()
	if !l.handler.Enabled(ctx, lvl) {
		return
	}

	// Skip runtime.Callers, log and the exported level method
	var pcs [1]uintptr
	runtime.Callers(3, pcs[:])

	record := slog.NewRecord(time.Now(), lvl, msg, pcs[0])
	record.AddAttrs(attrs(l.merge(fields))...)

	if err := l.handler.Handle(ctx, record); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %s\n", err)
	}
}

// merge overlays per-entry fields on the context fields
func (l *JSONLogger) merge(fields map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return l.fields
	}
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return merged
}

// attrs converts fields into slog attributes sorted by key
func attrs(fields map[string]interface{}) []slog.Attr {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]slog.Attr, 0, len(keys))
	for _, k := range keys {
		out = append(out, slog.Any(k, fields[k]))
	}
	return out
}

var defaultLogger Logger = NewJSONLogger(os.Stdout, InfoLevel)

// GetDefaultLogger returns the process-wide logger used when a component is built without one
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger replaces the process-wide logger; nil is ignored
func SetDefaultLogger(log Logger) {
	if log != nil {
		defaultLogger = log
	}
}
