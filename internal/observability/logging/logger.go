// Package logging provides OpenTelemetry backed structured logging for cpscan.
// Logging is silent unless a level is requested, so report output on stdout
// never mixes with diagnostics.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/resource"
	"gopkg.in/natefinch/lumberjack.v2"

	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
)

// LogLevel represents the available log levels.
type LogLevel string

const (
	// LevelSilent disables all logging (default)
	LevelSilent LogLevel = "silent"
	// LevelDebug enables debug and all higher level logs
	LevelDebug LogLevel = "debug"
	// LevelInfo enables info and all higher level logs
	LevelInfo LogLevel = "info"
	// LevelWarn enables warn and error logs only
	LevelWarn LogLevel = "warn"
	// LevelError enables error logs only
	LevelError LogLevel = "error"
)

// LogFormat represents the available log output formats.
type LogFormat string

const (
	// FormatJSON outputs structured JSON logs
	FormatJSON LogFormat = "json"
	// FormatText outputs human-readable key=value logs
	FormatText LogFormat = "text"
)

// Logger is the structured logging interface used across cpscan.
type Logger interface {
	Debug(ctx context.Context, msg string, keysAndValues ...any)
	Info(ctx context.Context, msg string, keysAndValues ...any)
	Warn(ctx context.Context, msg string, keysAndValues ...any)
	Error(ctx context.Context, msg string, keysAndValues ...any)
	// With returns a logger that adds the given pairs to every record
	With(keysAndValues ...any) Logger
	// WithContext returns a logger bound to ctx
	WithContext(ctx context.Context) Logger
	// IsEnabled reports whether a record at level would be emitted
	IsEnabled(level LogLevel) bool
}

// Config holds the logging configuration.
type Config struct {
	Level          LogLevel
	Format         LogFormat
	Output         io.Writer
	ServiceName    string
	ServiceVersion string
}

// DefaultConfig returns a silent configuration writing to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:          LevelSilent,
		Format:         FormatJSON,
		Output:         os.Stderr,
		ServiceName:    "cpscan",
		ServiceVersion: "unknown",
	}
}

// ParseLevel converts a user supplied level name. Matching is case-insensitive.
func ParseLevel(name string) (LogLevel, error) {
	switch LogLevel(strings.ToLower(strings.TrimSpace(name))) {
	case "", LevelSilent:
		return LevelSilent, nil
	case LevelDebug:
		return LevelDebug, nil
	case LevelInfo:
		return LevelInfo, nil
	case LevelWarn, "warning":
		return LevelWarn, nil
	case LevelError:
		return LevelError, nil
	}
	return LevelSilent, fmt.Errorf("invalid log level %q: must be one of silent, debug, info, warn, error", name)
}

// ParseFormat converts a user supplied format name.
func ParseFormat(name string) (LogFormat, error) {
	switch LogFormat(strings.ToLower(strings.TrimSpace(name))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatText:
		return FormatText, nil
	}
	return FormatJSON, fmt.Errorf("invalid log format %q: must be json or text", name)
}

// OpenLogFile returns a size-rotated writer for path.
func OpenLogFile(path string) io.WriteCloser {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
}

type otelLogger struct {
	slogger *slog.Logger
	level   LogLevel
	ctx     context.Context
}

// NewLogger creates a logger for config. A nil config or silent level yields a
// logger that discards everything.
func NewLogger(config *Config) (Logger, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Level == LevelSilent {
		return newNoOpLogger(), nil
	}
	if config.Output == nil {
		config.Output = os.Stderr
	}

	if err := setupOTELLogProvider(config); err != nil {
		return nil, fmt.Errorf("failed to set up log provider: %w", err)
	}

	opts := &slog.HandlerOptions{Level: slogLevel(config.Level)}
	var handler slog.Handler
	if config.Format == FormatText {
		handler = slog.NewTextHandler(config.Output, opts)
	} else {
		handler = slog.NewJSONHandler(config.Output, opts)
	}

	slogger := slog.New(handler).With(
		"service.name", config.ServiceName,
		"service.version", config.ServiceVersion,
	)

	return &otelLogger{
		slogger: slogger,
		level:   config.Level,
		ctx:     context.Background(),
	}, nil
}

func setupOTELLogProvider(config *Config) error {
	exporter, err := stdoutlog.New(stdoutlog.WithWriter(config.Output))
	if err != nil {
		return err
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", config.ServiceName),
		attribute.String("service.version", config.ServiceVersion),
	)
	provider := sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(provider)
	return nil
}

func slogLevel(level LogLevel) slog.Level {
	switch level {
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

func (l *otelLogger) Debug(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, LevelDebug, msg, keysAndValues)
}

func (l *otelLogger) Info(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, LevelInfo, msg, keysAndValues)
}

func (l *otelLogger) Warn(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, LevelWarn, msg, keysAndValues)
}

func (l *otelLogger) Error(ctx context.Context, msg string, keysAndValues ...any) {
	l.log(ctx, LevelError, msg, keysAndValues)
}

// log enriches the record with scan metadata found on ctx, falling back to
// the bound context when ctx is nil.
func (l *otelLogger) log(ctx context.Context, level LogLevel, msg string, keysAndValues []any) {
	if !l.IsEnabled(level) {
		return
	}
	if ctx == nil {
		ctx = l.ctx
	}
	args := append(ctxutil.ExtractContextFields(ctx), keysAndValues...)
	l.slogger.Log(ctx, slogLevel(level), msg, args...)
}

func (l *otelLogger) With(keysAndValues ...any) Logger {
	return &otelLogger{slogger: l.slogger.With(keysAndValues...), level: l.level, ctx: l.ctx}
}

func (l *otelLogger) WithContext(ctx context.Context) Logger {
	return &otelLogger{slogger: l.slogger, level: l.level, ctx: ctx}
}

func (l *otelLogger) IsEnabled(level LogLevel) bool {
	return rank(level) >= rank(l.level)
}

// rank orders levels for comparison; silent sorts above everything.
func rank(level LogLevel) int {
	switch level {
	case LevelDebug:
		return 0
	case LevelInfo:
		return 1
	case LevelWarn:
		return 2
	case LevelError:
		return 3
	default:
		return 999
	}
}

type noOpLogger struct{}

func newNoOpLogger() Logger { return noOpLogger{} }

func (noOpLogger) Debug(context.Context, string, ...any) {}
func (noOpLogger) Info(context.Context, string, ...any)  {}
func (noOpLogger) Warn(context.Context, string, ...any)  {}
func (noOpLogger) Error(context.Context, string, ...any) {}
func (n noOpLogger) With(...any) Logger                  { return n }
func (n noOpLogger) WithContext(context.Context) Logger  { return n }
func (noOpLogger) IsEnabled(LogLevel) bool               { return false }
