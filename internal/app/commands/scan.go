package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cpscan/cpscan/internal/config"
	"github.com/cpscan/cpscan/internal/core/detector"
	"github.com/cpscan/cpscan/internal/core/index"
	"github.com/cpscan/cpscan/internal/core/processor"
	"github.com/cpscan/cpscan/internal/infra/filtering"
	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
	"github.com/cpscan/cpscan/internal/types"
	"github.com/cpscan/cpscan/internal/ui"
)

// ScanOptions holds the flag values of the scan command.
type ScanOptions struct {
	MinLineCount    int
	MinCharCount    int
	IgnoreFolders   string
	ListSourceFiles bool
	ListTopResult   int
	Exclude         []string
	Format          string
	Stats           bool
	Index           string
	TwoPass         bool
}

// ErrInvalidProfile is returned when the effective scan settings fail validation.
var ErrInvalidProfile = errors.New("invalid scan settings")

// ScanHandler handles the scan command.
type ScanHandler struct {
	services Provider
}

// NewScanHandler creates a new scan command handler.
func NewScanHandler(services Provider) *ScanHandler {
	return &ScanHandler{services: services}
}

// CreateCommand creates the scan cobra command.
func (h *ScanHandler) CreateCommand() *cobra.Command {
	opts := &ScanOptions{}
	defaults := config.DefaultProfile()

	cmd := &cobra.Command{
		Use:   "scan <root> <source-type>",
		Short: "Report repeated blocks of source lines",
		Long: `Scan every source file of the given type under root and report the longest
runs of lines that already appeared elsewhere in the scan.

Lines are compared after trimming surrounding whitespace. Blank lines and lines
inside comments break a run. A run is reported when it spans at least
--min-line-count lines and --min-char-count characters.

Files are read in one pass by default, so the first copy of a block only
seeds the index and just the later copies are reported. Use --two-pass to
report every copy, the first one included.

An interrupted scan still reports the blocks found in the files it finished.

Supported source types: java, cpp, c, rust, javascript, python, go.

Examples:
  cpscan scan . java
  cpscan scan src rust --min-line-count 10 --list-top-result 5
  cpscan scan . go --ignore-folders vendor,testdata --format table
  cpscan scan . python --format json --two-pass`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return h.Execute(cmd.Context(), cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.IntVar(&opts.MinLineCount, "min-line-count", defaults.MinLineCount, "minimum number of lines in a reported block")
	flags.IntVar(&opts.MinCharCount, "min-char-count", defaults.MinCharCount, "minimum number of characters in a reported block")
	flags.StringVar(&opts.IgnoreFolders, "ignore-folders", "thirdparty,test,node_modules", "comma separated folder name patterns to skip")
	flags.BoolVar(&opts.ListSourceFiles, "list-source-files", false, "print every discovered source file")
	flags.IntVar(&opts.ListTopResult, "list-top-result", defaults.ListTopResult, "number of blocks to report")
	flags.StringSliceVar(&opts.Exclude, "exclude", nil, "exclude files matching a glob (repeatable)")
	flags.StringVar(&opts.Format, "format", defaults.OutputFormat, "output format (text, table, json, yaml)")
	flags.BoolVar(&opts.Stats, "stats", false, "print processing statistics")
	flags.StringVar(&opts.Index, "index", defaults.IndexKind, "line index implementation (trie, table)")
	flags.BoolVar(&opts.TwoPass, "two-pass", false, "index every file before matching so all copies are reported")

	return cmd
}

// Execute runs the scan.
func (h *ScanHandler) Execute(parentCtx context.Context, cmd *cobra.Command, args []string, opts *ScanOptions) error {
	start := time.Now()
	logger := h.services.GetLogger()
	out := h.services.GetUI()

	ctx := parentCtx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ctxutil.WithComponent(ctxutil.WithOperation(ctx, "scan"), "cli")

	root := args[0]
	sourceType, err := types.ParseSourceType(args[1])
	if err != nil {
		return err
	}
	ctx = ctxutil.WithSourceType(ctx, sourceType.String())

	profile, err := h.resolveProfile(ctx, cmd, opts)
	if err != nil {
		return err
	}

	format, err := ui.ParseFormat(profile.OutputFormat)
	if err != nil {
		return err
	}
	theme := out.Theme()
	if !profile.ColoredOutput {
		theme = ui.PlainTheme()
	}
	renderer := ui.NewReportRenderer(out.Writer(), format, theme)

	counter, err := index.New(index.Kind(profile.IndexKind))
	if err != nil {
		return err
	}

	logger.Info(ctx, "starting scan", "root", root, "profile", profile)

	discovery, err := filtering.DiscoverFiles(root, sourceType, filtering.DiscoveryOptions{
		ExcludePatterns: opts.Exclude,
		Logger:          logger,
	}, profile)
	if err != nil {
		logger.Error(ctx, "file discovery failed", "error", err.Error())
		out.Error(ctx, "%v", err)
	}
	for _, pe := range discovery.PatternErrors {
		out.Warning(ctx, "ignoring %v", pe)
	}
	for _, we := range discovery.WalkErrors {
		out.Warning(ctx, "skipping %v", we)
	}

	if profile.ListSourceFiles {
		if err := renderer.RenderFileList(discovery.Files); err != nil {
			return fmt.Errorf("failed to print source files: %w", err)
		}
	}
	if err := renderer.RenderFound(len(discovery.Files), sourceType); err != nil {
		return fmt.Errorf("failed to print file count: %w", err)
	}

	out.Progress(ctx, "scanning %d files with the %s index (two-pass: %t)", len(discovery.Files), profile.IndexKind, profile.TwoPass)
	det := detector.New(counter, config.ToThresholds(profile))
	thresholds := det.Thresholds()
	logger.Debug(ctx, "detector ready",
		"min_lines", thresholds.MinLines,
		"min_chars", thresholds.MinChars,
		"index", profile.IndexKind)
	proc := processor.New(det, processor.WithLogger(logger), processor.WithTwoPass(profile.TwoPass))

	results, interrupted := proc.ProcessFiles(ctx, discovery.Files)
	if interrupted != nil {
		logger.Warn(ctx, "scan interrupted", "files_done", len(results), "files_found", len(discovery.Files))
		out.Warning(ctx, "scan interrupted after %d of %d files, reporting partial results", len(results), len(discovery.Files))
	}
	for _, result := range results {
		if result.Failed() {
			out.Warning(ctx, "skipping %s: %v", result.FilePath, result.Error)
		}
	}

	summary := processor.Summarize(processor.Summary{
		SourceType:    sourceType,
		FilesFound:    len(discovery.Files),
		DistinctLines: det.DistinctLines(),
		TopN:          profile.ListTopResult,
		Duration:      time.Since(start),
	}, results)
	if profile.ListSourceFiles && renderer.Document() {
		summary.SourceFiles = discovery.Files
	}

	logger.Debug(ctx, "rendering report", "format", string(renderer.Format()), "spans", len(summary.Spans))
	if err := renderer.RenderSummary(summary); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	if profile.ShowStats {
		if err := renderer.RenderStats(summary); err != nil {
			return fmt.Errorf("failed to render statistics: %w", err)
		}
	}

	logger.Info(ctx, "scan completed",
		"files", summary.FilesScanned,
		"failed", summary.FilesFailed,
		"spans", summary.TotalSpans,
		"duration_ms", summary.Duration.Milliseconds())
	if interrupted != nil {
		return fmt.Errorf("scan interrupted: %w", interrupted)
	}
	return nil
}

// resolveProfile loads the configured profile and applies every flag the
// user set explicitly.
func (h *ScanHandler) resolveProfile(ctx context.Context, cmd *cobra.Command, opts *ScanOptions) (config.Profile, error) {
	logger := h.services.GetLogger()
	configPath, profileName := rootConfigFlags(cmd)

	profile, usedPath, err := config.Resolve(configPath, profileName)
	if err != nil {
		return config.Profile{}, fmt.Errorf("failed to load config: %w", err)
	}
	if usedPath != "" {
		logger.Debug(ctx, "configuration loaded", "config_file", usedPath, "profile", profileName)
	}

	flags := cmd.Flags()
	if flags.Changed("min-line-count") {
		profile.MinLineCount = opts.MinLineCount
	}
	if flags.Changed("min-char-count") {
		profile.MinCharCount = opts.MinCharCount
	}
	if flags.Changed("ignore-folders") {
		profile.IgnoreFolders = config.SplitList(opts.IgnoreFolders)
	}
	if flags.Changed("list-source-files") {
		profile.ListSourceFiles = opts.ListSourceFiles
	}
	if flags.Changed("list-top-result") {
		profile.ListTopResult = opts.ListTopResult
	}
	if flags.Changed("format") {
		profile.OutputFormat = opts.Format
	}
	if flags.Changed("stats") {
		profile.ShowStats = opts.Stats
	}
	if flags.Changed("index") {
		profile.IndexKind = opts.Index
	}
	if flags.Changed("two-pass") {
		profile.TwoPass = opts.TwoPass
	}
	if noColor, err := cmd.Flags().GetBool("no-color"); err == nil && noColor {
		profile.ColoredOutput = false
	}

	validator := config.NewConfigValidator()
	validator.ValidateProfile("effective", profile)
	if result := validator.Result(); result.HasErrors() {
		return config.Profile{}, fmt.Errorf("%w: %s", ErrInvalidProfile, strings.Join(result.ErrorMessages(), "; "))
	}
	return profile, nil
}

// rootConfigFlags reads --config and --profile when the root defines them.
func rootConfigFlags(cmd *cobra.Command) (configPath, profileName string) {
	configPath, _ = cmd.Flags().GetString("config")
	profileName, _ = cmd.Flags().GetString("profile")
	return configPath, profileName
}
