// Package logging provides structured logging utilities used across the CLI and scheduler.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel represents different log levels.
type LogLevel int

const (
	// LevelDebug is verbose diagnostic logging.
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ToSlogLevel converts our LogLevel to slog.Level
func (l LogLevel) ToSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	case LevelCritical:
		return slog.LevelError + 4 // Higher than error
	default:
		return slog.LevelInfo
	}
}

// Config holds logging configuration
type Config struct {
	Level         LogLevel
	Format        string // "text" or "json"
	Output        io.Writer
	IncludeSource bool
	Quiet         bool
	Verbose       bool
	EnableMetrics bool
}

// DefaultConfig returns the default logging configuration
func DefaultConfig() *Config {
	return &Config{
		Level:         LevelInfo,
		Format:        "text",
		Output:        os.Stderr,
		IncludeSource: false,
		Quiet:         false,
		Verbose:       false,
		EnableMetrics: true,
	}
}

// Logger provides structured logging with advanced features
type Logger struct {
	slog   *slog.Logger
	config *Config
	ctx    context.Context
}

// New creates a new logger with the given configuration
func New(config *Config) *Logger {
	if config == nil {
		config = DefaultConfig()
	}

	// Adjust level based on verbose/quiet flags
	level := config.Level
	if config.Quiet {
		level = LevelError
	} else if config.Verbose {
		level = LevelDebug
	}

	// Create slog handler based on format
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level:     level.ToSlogLevel(),
		AddSource: config.IncludeSource,
	}

	switch config.Format {
	case "json":
		handler = slog.NewJSONHandler(config.Output, opts)
	default:
		handler = slog.NewTextHandler(config.Output, opts)
	}

	slogLogger := slog.New(handler)

	return &Logger{
		slog:   slogLogger,
		config: config,
		ctx:    context.Background(),
	}
}

// WithContext returns a logger with the given context
func (l *Logger) WithContext(ctx context.Context) *Logger {
	return &Logger{
		slog:   l.slog,
		config: l.config,
		ctx:    ctx,
	}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	if l.config.Quiet {
		return
	}
	l.slog.DebugContext(l.ctx, msg, args...)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	if l.config.Quiet {
		return
	}
	l.slog.InfoContext(l.ctx, msg, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	l.slog.WarnContext(l.ctx, msg, args...)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	l.slog.ErrorContext(l.ctx, msg, args...)
}

// Critical logs a critical error message
func (l *Logger) Critical(msg string, args ...any) {
	allArgs := append([]any{"severity", "critical"}, args...)
	l.slog.ErrorContext(l.ctx, msg, allArgs...)
}

// WithFields returns a logger with additional fields attached to every
// subsequent entry.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}

	return &Logger{
		slog:   l.slog.With(args...),
		config: l.config,
		ctx:    l.ctx,
	}
}

// Operation represents a long-running operation for logging
type Operation struct {
	ID        string
	Type      string
	StartTime time.Time
	logger    *Logger
}

// StartOperation begins tracking a long-running operation (e.g. a single
// level's candidate search, or a full schedule run).
func (l *Logger) StartOperation(id, opType string) *Operation {
	op := &Operation{
		ID:        id,
		Type:      opType,
		StartTime: time.Now(),
		logger:    l.WithFields(map[string]any{"operation_id": id, "operation_type": opType}),
	}

	op.logger.Info("operation started")
	return op
}

// Progress logs operation progress
func (op *Operation) Progress(message string, percent float64) {
	op.logger.Info("operation progress",
		"message", message,
		"percent", fmt.Sprintf("%.1f%%", percent),
		"elapsed", time.Since(op.StartTime).String())
}

// Complete marks the operation as completed
func (op *Operation) Complete(message string) {
	duration := time.Since(op.StartTime)
	op.logger.Info("operation completed",
		"message", message,
		"duration", duration.String())
}

// Fail marks the operation as failed
func (op *Operation) Fail(err error, message string) {
	duration := time.Since(op.StartTime)
	op.logger.Error("operation failed",
		"message", message,
		"error", err.Error(),
		"duration", duration.String())
}

// LogMetric logs a scheduling metric: a level's best score, a timeline's
// total time/cost, or a worker pool's utilization.
func (l *Logger) LogMetric(name string, value float64, unit string, tags map[string]string) {
	if !l.config.EnableMetrics {
		return
	}

	fields := map[string]any{
		"metric_name":  name,
		"metric_value": value,
		"metric_unit":  unit,
		"timestamp":    time.Now().Format(time.RFC3339),
	}

	for k, v := range tags {
		fields[fmt.Sprintf("tag_%s", k)] = v
	}

	l.WithFields(fields).Info("scheduling metric")
}

// Global logger instance
var defaultLogger *Logger

// SetDefault sets the default global logger
func SetDefault(logger *Logger) {
	defaultLogger = logger
}

// Default returns the default global logger.
func Default() *Logger {
	if defaultLogger == nil {
		defaultLogger = New(DefaultConfig())
	}
	return defaultLogger
}

// Global convenience functions.
func Debug(msg string, args ...any)    { Default().Debug(msg, args...) }
func Info(msg string, args ...any)     { Default().Info(msg, args...) }
func Warn(msg string, args ...any)     { Default().Warn(msg, args...) }
func Error(msg string, args ...any)    { Default().Error(msg, args...) }
func Critical(msg string, args ...any) { Default().Critical(msg, args...) }
