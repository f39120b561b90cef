// Package ui provides user-facing output for the cpscan CLI, kept separate
// from diagnostic logging.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/cpscan/cpscan/internal/observability/logging"
)

// OutputLevel determines what type of output should be shown to users.
type OutputLevel int

const (
	// OutputSilent shows errors only
	OutputSilent OutputLevel = iota
	// OutputNormal shows standard operation results
	OutputNormal
	// OutputVerbose adds progress information
	OutputVerbose
)

// UserOutput handles all user-facing output.
type UserOutput interface {
	Info(ctx context.Context, msg string, args ...any)
	Success(ctx context.Context, msg string, args ...any)
	Warning(ctx context.Context, msg string, args ...any)
	// Error is shown at every level
	Error(ctx context.Context, msg string, args ...any)
	// Result prints msg verbatim, without a prefix, to the result writer
	Result(ctx context.Context, msg string, args ...any)
	Progress(ctx context.Context, msg string, args ...any)
	SetLevel(level OutputLevel)
	IsLevelEnabled(level OutputLevel) bool
	// Writer is where reports are rendered
	Writer() io.Writer
	Theme() Theme
}

// Config holds the user output configuration.
type Config struct {
	Level        OutputLevel
	Writer       io.Writer
	ErrorWriter  io.Writer
	EnableColors bool
}

// DefaultConfig writes results to stdout and diagnostics to stderr.
func DefaultConfig() *Config {
	return &Config{
		Level:        OutputNormal,
		Writer:       os.Stdout,
		ErrorWriter:  os.Stderr,
		EnableColors: true,
	}
}

type userOutput struct {
	config *Config
	theme  Theme
	logger logging.Logger
}

// NewUserOutput creates a user output handler. Messages are also logged at
// debug level through logger.
func NewUserOutput(config *Config, logger logging.Logger) UserOutput {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	return &userOutput{config: config, theme: NewTheme(config.EnableColors), logger: logger}
}

func (u *userOutput) Info(ctx context.Context, msg string, args ...any) {
	u.print(ctx, OutputNormal, u.config.Writer, u.theme.Info, "INFO:", msg, args)
}

func (u *userOutput) Success(ctx context.Context, msg string, args ...any) {
	u.print(ctx, OutputNormal, u.config.Writer, u.theme.Success, "OK:", msg, args)
}

func (u *userOutput) Warning(ctx context.Context, msg string, args ...any) {
	u.print(ctx, OutputNormal, u.config.ErrorWriter, u.theme.Warning, "WARNING:", msg, args)
}

func (u *userOutput) Error(ctx context.Context, msg string, args ...any) {
	u.print(ctx, OutputSilent, u.config.ErrorWriter, u.theme.Error, "ERROR:", msg, args)
}

func (u *userOutput) Result(ctx context.Context, msg string, args ...any) {
	if !u.IsLevelEnabled(OutputNormal) {
		return
	}
	formatted := fmt.Sprintf(msg, args...)
	u.logger.Debug(ctx, "user result displayed", "message", formatted)
	_, _ = fmt.Fprintln(u.config.Writer, formatted)
}

func (u *userOutput) Progress(ctx context.Context, msg string, args ...any) {
	if !u.IsLevelEnabled(OutputVerbose) {
		return
	}
	formatted := fmt.Sprintf(msg, args...)
	u.logger.Debug(ctx, "user progress displayed", "message", formatted)
	_, _ = fmt.Fprintln(u.config.ErrorWriter, u.theme.Paint(u.theme.Dim, formatted))
}

func (u *userOutput) print(ctx context.Context, level OutputLevel, w io.Writer, style lipgloss.Style, prefix, msg string, args []any) {
	if !u.IsLevelEnabled(level) {
		return
	}
	formatted := fmt.Sprintf(msg, args...)
	u.logger.Debug(ctx, "user message displayed", "prefix", prefix, "message", formatted)
	_, _ = fmt.Fprintf(w, "%s %s\n", u.theme.Paint(style, prefix), formatted)
}

func (u *userOutput) SetLevel(level OutputLevel) {
	u.config.Level = level
}

func (u *userOutput) IsLevelEnabled(level OutputLevel) bool {
	return level <= u.config.Level
}

func (u *userOutput) Writer() io.Writer {
	return u.config.Writer
}

func (u *userOutput) Theme() Theme {
	return u.theme
}
