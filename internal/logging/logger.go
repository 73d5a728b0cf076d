// Package logging is the structured logger of the anewcommit CLI.
// Records go to stderr as slog text, or as JSON with source positions in
// debug mode, so stdout stays reserved for command output.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	defaultLogger *slog.Logger
	loggerMu      sync.RWMutex

	// Debug is set when the logger was initialized at debug level.
	Debug bool
)

func init() {
	defaultLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	JSON      bool
	Output    io.Writer // nil means stderr
	AddSource bool
}

// DefaultConfig logs info and above as text.
func DefaultConfig() Config {
	return Config{Level: slog.LevelInfo, Output: os.Stderr}
}

// DebugConfig is used by --debug.
func DebugConfig() Config {
	return Config{
		Level:     slog.LevelDebug,
		JSON:      true,
		Output:    os.Stderr,
		AddSource: true,
	}
}

// Init replaces the global logger.
func Init(cfg Config) {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	loggerMu.Lock()
	defer loggerMu.Unlock()
	defaultLogger = slog.New(handler)
	Debug = cfg.Level <= slog.LevelDebug
}

// InitDebug initializes the logger with DebugConfig.
func InitDebug() {
	Init(DebugConfig())
}

// Logger returns the current logger instance.
func Logger() *slog.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return defaultLogger
}

// With returns a logger with additional attributes.
func With(args ...any) *slog.Logger {
	return Logger().With(args...)
}

// ForProject returns a logger that tags every record with the project file.
func ForProject(path string) *slog.Logger {
	return Logger().With(KeyProject, path)
}

// Info logs at INFO level.
func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

// DebugLog logs at DEBUG level.
func DebugLog(msg string, args ...any) {
	Logger().Debug(msg, args...)
}

// Warn logs at WARN level.
func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

// Error logs at ERROR level.
func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

// The *Context variants add the request id carried by ctx.

// InfoContext logs at INFO level.
func InfoContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).InfoContext(ctx, msg, args...)
}

// DebugContext logs at DEBUG level.
func DebugContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).DebugContext(ctx, msg, args...)
}

// WarnContext logs at WARN level.
func WarnContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).WarnContext(ctx, msg, args...)
}

// ErrorContext logs at ERROR level.
func ErrorContext(ctx context.Context, msg string, args ...any) {
	LoggerFromContext(ctx).ErrorContext(ctx, msg, args...)
}

// Record attribute keys.
const (
	KeyRequestID = "request_id"
	KeyOperation = "op"
	KeyError     = "error"
	KeyProject   = "project"
	KeyActionID  = "action_id"
	KeyKind      = "kind"
	KeyIndex     = "index"
	KeySubsteps  = "substeps"
	KeyStatus    = "status"
	KeyCount     = "count"
)

// LogOperation logs a project operation at debug level.
// Usage: LogOperation("save", KeyProject, path)
func LogOperation(op string, args ...any) {
	allArgs := append([]any{KeyOperation, op}, args...)
	Logger().Debug("operation", allArgs...)
}

// LogMutation logs an edit, undo or redo of the action list: how many
// substeps ran, the resulting list length and the indices touched.
func LogMutation(op string, substeps, count int, indices []int) {
	if !Logger().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	LogOperation(op, KeySubsteps, substeps, KeyCount, count, KeyIndex, indices)
}
