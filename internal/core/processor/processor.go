// Package processor drives the detector across a list of discovered files and
// folds the per-file results into a ranked summary.
package processor

import (
	"context"
	"time"

	"github.com/cpscan/cpscan/internal/core/detector"
	"github.com/cpscan/cpscan/internal/core/ranker"
	ctxutil "github.com/cpscan/cpscan/internal/observability/context"
	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/types"
)

// Processor scans files in order against one shared detector.
type Processor struct {
	detector *detector.Detector
	logger   logging.Logger
	twoPass  bool
}

// Option configures a Processor.
type Option func(*Processor)

// WithLogger sets the logger used for per-file diagnostics.
func WithLogger(logger logging.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithTwoPass makes the processor index every file before matching any, so
// every copy of a repeated block is reported rather than only the later ones.
func WithTwoPass(enabled bool) Option {
	return func(p *Processor) {
		p.twoPass = enabled
	}
}

// New creates a processor around d.
func New(d *detector.Detector, opts ...Option) *Processor {
	p := &Processor{
		detector: d,
		logger:   logging.GetGlobalLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// TwoPass reports whether two-pass matching is enabled.
func (p *Processor) TwoPass() bool {
	return p.twoPass
}

// ProcessFile scans a single file in one pass. Errors are recorded on the
// result; the file contributes no spans when it fails.
func (p *Processor) ProcessFile(ctx context.Context, filePath string) types.ProcessResult {
	start := time.Now()
	ctx = ctxutil.WithFilePath(ctx, filePath)

	spans, stats, err := p.detector.ScanFile(filePath)
	result := types.ProcessResult{
		FilePath: filePath,
		Spans:    spans,
		Stats:    stats,
		Duration: time.Since(start),
		Error:    err,
	}
	p.logResult(ctx, result)
	return result
}

// ProcessFiles scans paths in the given order. Processing stops early when
// ctx is cancelled; the results gathered so far are returned with ctx.Err().
func (p *Processor) ProcessFiles(ctx context.Context, filePaths []string) ([]types.ProcessResult, error) {
	if p.twoPass {
		return p.processTwoPass(ctx, filePaths)
	}

	ctx = ctxutil.WithPass(ctx, "scan")
	results := make([]types.ProcessResult, 0, len(filePaths))
	for _, filePath := range filePaths {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, p.ProcessFile(ctx, filePath))
	}
	return results, nil
}

// processTwoPass indexes every file first and then matches each file that
// indexed cleanly against the complete index.
func (p *Processor) processTwoPass(ctx context.Context, filePaths []string) ([]types.ProcessResult, error) {
	results := make([]types.ProcessResult, len(filePaths))

	indexCtx := ctxutil.WithPass(ctx, "index")
	for i, filePath := range filePaths {
		if err := ctx.Err(); err != nil {
			return results[:i], err
		}
		start := time.Now()
		stats, err := p.detector.IndexFile(filePath)
		results[i] = types.ProcessResult{
			FilePath: filePath,
			Stats:    stats,
			Duration: time.Since(start),
			Error:    err,
		}
		if err != nil {
			p.logResult(ctxutil.WithFilePath(indexCtx, filePath), results[i])
		}
	}

	matchCtx := ctxutil.WithPass(ctx, "match")
	for i := range results {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		if results[i].Failed() {
			continue
		}
		start := time.Now()
		spans, stats, err := p.detector.MatchFile(results[i].FilePath)
		results[i].Spans = spans
		results[i].Stats = stats
		results[i].Duration += time.Since(start)
		results[i].Error = err
		p.logResult(ctxutil.WithFilePath(matchCtx, results[i].FilePath), results[i])
	}
	return results, nil
}

func (p *Processor) logResult(ctx context.Context, result types.ProcessResult) {
	if result.Failed() {
		p.logger.Warn(ctx, "skipping unreadable file", "error", result.Error.Error())
		return
	}
	p.logger.Debug(ctx, "file scanned",
		"lines", result.Stats.Lines,
		"spans", len(result.Spans),
		"duration_ms", result.Duration.Milliseconds())
}

// Summary collects the inputs of Summarize.
type Summary struct {
	SourceType    types.SourceType
	FilesFound    int
	DistinctLines int
	TopN          int
	Duration      time.Duration
}

// Summarize totals results and ranks every span found, longest first, keeping
// at most s.TopN.
func Summarize(s Summary, results []types.ProcessResult) types.ScanSummary {
	summary := types.ScanSummary{
		SourceType:    s.SourceType,
		FilesFound:    s.FilesFound,
		DistinctLines: s.DistinctLines,
		TopN:          s.TopN,
		Duration:      s.Duration,
	}

	var all []types.DuplicateSpan
	for _, result := range results {
		if result.Failed() {
			summary.FilesFailed++
			continue
		}
		summary.FilesScanned++
		summary.TotalLines += result.Stats.Lines
		summary.TotalBytes += result.Stats.Bytes
		all = append(all, result.Spans...)
	}

	summary.TotalSpans = len(all)
	summary.Spans = ranker.Rank(all, s.TopN)
	return summary
}
