// Package app wires the cpscan services together and owns the root command.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/ui"
)

// Dependencies holds the services shared by every command.
type Dependencies struct {
	Logger logging.Logger
	UI     ui.UserOutput

	mu      sync.Mutex
	config  *Config
	closers []io.Closer
}

// Config describes how to build Dependencies.
type Config struct {
	LogLevel  logging.LogLevel
	LogFormat logging.LogFormat
	LogOutput io.Writer
	// LogFile, when set, sends logs to a size-rotated file instead of LogOutput
	LogFile string

	UILevel        ui.OutputLevel
	UIWriter       io.Writer
	UIErrorWriter  io.Writer
	UIEnableColors bool

	ServiceName    string
	ServiceVersion string
}

// DefaultConfig returns a silent logger and normal user output on the standard
// streams.
func DefaultConfig() *Config {
	return &Config{
		LogLevel:       logging.LevelSilent,
		LogFormat:      logging.FormatJSON,
		LogOutput:      os.Stderr,
		UILevel:        ui.OutputNormal,
		UIWriter:       os.Stdout,
		UIErrorWriter:  os.Stderr,
		UIEnableColors: true,
		ServiceName:    "cpscan",
		ServiceVersion: "unknown",
	}
}

// NewDependencies builds the logger and user output described by config and
// installs the logger globally. Dependencies built this way follow the root
// command's persistent flags.
func NewDependencies(config *Config) (*Dependencies, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	d := &Dependencies{}
	if err := d.build(config); err != nil {
		return nil, err
	}
	return d, nil
}

// NewTestDependencies returns mock services. They are never rebuilt from flags.
func NewTestDependencies() *Dependencies {
	return &Dependencies{
		Logger: logging.NewMockLogger(),
		UI:     ui.NewMockUserOutput(),
	}
}

func (d *Dependencies) build(config *Config) error {
	logOutput := config.LogOutput
	var closers []io.Closer
	if config.LogFile != "" {
		file := logging.OpenLogFile(config.LogFile)
		logOutput = file
		closers = append(closers, file)
	}

	logger, err := logging.NewLogger(&logging.Config{
		Level:          config.LogLevel,
		Format:         config.LogFormat,
		Output:         logOutput,
		ServiceName:    config.ServiceName,
		ServiceVersion: config.ServiceVersion,
	})
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logging.SetGlobalLogger(logger)

	out := ui.NewUserOutput(&ui.Config{
		Level:        config.UILevel,
		Writer:       config.UIWriter,
		ErrorWriter:  config.UIErrorWriter,
		EnableColors: config.UIEnableColors,
	}, logger)

	d.mu.Lock()
	old := d.closers
	d.Logger, d.UI, d.config, d.closers = logger, out, config, closers
	d.mu.Unlock()

	return closeAll(old)
}

// Reconfigure rebuilds the services with changes applied to the current
// config. It is a no-op for dependencies that were not built from a Config.
func (d *Dependencies) Reconfigure(changes func(c *Config)) error {
	d.mu.Lock()
	current := d.config
	d.mu.Unlock()
	if current == nil {
		return nil
	}

	next := *current
	changes(&next)
	return d.build(&next)
}

// GetLogger returns the current logger.
func (d *Dependencies) GetLogger() logging.Logger {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Logger
}

// GetUI returns the current user output.
func (d *Dependencies) GetUI() ui.UserOutput {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.UI
}

// Validate ensures all dependencies are set.
func (d *Dependencies) Validate() error {
	if d.Logger == nil {
		return fmt.Errorf("logger dependency is nil")
	}
	if d.UI == nil {
		return fmt.Errorf("UI dependency is nil")
	}
	return nil
}

// Close releases the log file, if any.
func (d *Dependencies) Close(_ context.Context) error {
	d.mu.Lock()
	closers := d.closers
	d.closers = nil
	d.mu.Unlock()
	return closeAll(closers)
}

func closeAll(closers []io.Closer) error {
	var errs []error
	for _, c := range closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
