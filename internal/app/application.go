package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cpscan/cpscan/internal/app/commands"
	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/ui"
)

// Build information, set from main.
var (
	buildVersion = "dev"
	buildTime    = "unknown"
	buildCommit  = "unknown"
)

// SetBuildInfo records the values injected at link time.
func SetBuildInfo(version, time, commit string) {
	buildVersion, buildTime, buildCommit = version, time, commit
}

// Application represents the main application with its dependencies.
type Application struct {
	deps    *Dependencies
	rootCmd *cobra.Command
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a new Application with the given dependencies.
func New(deps *Dependencies) (*Application, error) {
	if deps == nil {
		return nil, fmt.Errorf("dependencies cannot be nil")
	}
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	app := &Application{
		deps:   deps,
		ctx:    ctx,
		cancel: cancel,
	}
	app.rootCmd = app.createRootCommand()
	return app, nil
}

// Run executes the command line in args. SIGINT and SIGTERM cancel the run
// context, which stops a scan before its next file.
func (a *Application) Run(args []string) error {
	stop := a.handleSignals()
	defer stop()

	a.rootCmd.SetArgs(args)
	if err := a.rootCmd.ExecuteContext(a.ctx); err != nil {
		return fmt.Errorf("command execution failed: %w", err)
	}
	return nil
}

// Shutdown cancels the run context and releases resources.
func (a *Application) Shutdown() error {
	a.cancel()
	return a.deps.Close(a.ctx)
}

// GetDependencies returns the application dependencies.
func (a *Application) GetDependencies() *Dependencies {
	return a.deps
}

// GetRootCommand returns the root cobra command.
func (a *Application) GetRootCommand() *cobra.Command {
	return a.rootCmd
}

func (a *Application) handleSignals() (stop func()) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		select {
		case sig := <-sigChan:
			a.deps.GetLogger().Info(a.ctx, "received shutdown signal", "signal", sig.String())
			a.cancel()
		case <-done:
		}
	}()

	return func() {
		signal.Stop(sigChan)
		close(done)
	}
}

func (a *Application) createRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cpscan",
		Short: "Find copy-pasted blocks of source code",
		Long: `cpscan scans a source tree and reports the longest runs of lines that were
already seen elsewhere in the tree, a quick way to spot copy-and-paste code.

Matching is exact after trimming whitespace on each line. Blank lines and
comments are never part of a reported block.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           a.getBuildVersion(),
		PersistentPreRunE: a.configure,
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file path (default .cpscan.yaml, then $XDG_CONFIG_HOME/cpscan/config.yaml)")
	flags.String("profile", "default", "configuration profile")
	flags.String("log-level", "silent", "log level (silent, debug, info, warn, error)")
	flags.String("log-format", "json", "log format (json, text)")
	flags.String("log-file", "", "write logs to a rotated file instead of stderr")
	flags.BoolP("quiet", "q", false, "only print errors and the report")
	flags.BoolP("verbose", "v", false, "print progress messages")
	flags.Bool("no-color", false, "disable colored output")

	cmd.AddCommand(commands.NewScanHandler(a.deps).CreateCommand())
	cmd.AddCommand(commands.NewInitHandler(a.deps).CreateCommand())
	cmd.AddCommand(commands.NewValidateHandler(a.deps).CreateCommand())
	cmd.AddCommand(a.createVersionCommand())

	return cmd
}

// configure applies the persistent flags to the dependencies before any
// subcommand runs.
func (a *Application) configure(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	levelName, _ := flags.GetString("log-level")
	formatName, _ := flags.GetString("log-format")
	logFile, _ := flags.GetString("log-file")
	quiet, _ := flags.GetBool("quiet")
	verbose, _ := flags.GetBool("verbose")
	noColor, _ := flags.GetBool("no-color")

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(formatName)
	if err != nil {
		return err
	}
	if quiet && verbose {
		return fmt.Errorf("--quiet and --verbose cannot be used together")
	}

	err = a.deps.Reconfigure(func(c *Config) {
		c.LogLevel = level
		c.LogFormat = format
		c.LogFile = logFile
		c.ServiceVersion = buildVersion
		if noColor {
			c.UIEnableColors = false
		}
		switch {
		case quiet:
			c.UILevel = ui.OutputSilent
		case verbose:
			c.UILevel = ui.OutputVerbose
		}
	})
	if err != nil {
		return fmt.Errorf("failed to configure output: %w", err)
	}
	return nil
}

func (a *Application) getBuildVersion() string {
	return buildVersion
}

func (a *Application) createVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.deps.GetUI().Result(cmd.Context(), "cpscan %s (commit %s, built %s)", buildVersion, buildCommit, buildTime)
			a.deps.GetLogger().Info(cmd.Context(), "version command executed", "version", buildVersion)
			return nil
		},
	}
}
