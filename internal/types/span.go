package types

import (
	"fmt"
	"time"
)

// DuplicateSpan is a maximal run of duplicate lines in one file that met
// both reporting thresholds. Lines are 1-based and Start <= End.
type DuplicateSpan struct {
	FilePath string `json:"file_path" yaml:"file_path"`
	Start    int    `json:"start" yaml:"start"`
	End      int    `json:"end" yaml:"end"`
}

// Len returns the number of physical lines covered by the span.
func (s DuplicateSpan) Len() int {
	return s.End - s.Start + 1
}

// String renders the span as "<filepath>: line <start>~<end>".
func (s DuplicateSpan) String() string {
	return fmt.Sprintf("%s: line %d~%d", s.FilePath, s.Start, s.End)
}

// Thresholds are the minimums a run must meet before it is reported.
type Thresholds struct {
	// MinLines is the minimum number of lines in a run.
	MinLines int `json:"min_lines" yaml:"min_lines"`
	// MinChars is the minimum sum of trimmed line lengths in a run.
	MinChars int `json:"min_chars" yaml:"min_chars"`
}

// DefaultThresholds returns the stock thresholds (6 lines, 80 characters).
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinLines: 6,
		MinChars: 80,
	}
}

// FileStats describes how much of a file the detector consumed.
type FileStats struct {
	Lines int   `json:"lines" yaml:"lines"`
	Bytes int64 `json:"bytes" yaml:"bytes"`
}

// ProcessResult is the outcome of scanning a single file.
type ProcessResult struct {
	FilePath string          `json:"file_path" yaml:"file_path"`
	Spans    []DuplicateSpan `json:"spans,omitempty" yaml:"spans,omitempty"`
	Stats    FileStats       `json:"stats" yaml:"stats"`
	Duration time.Duration   `json:"duration" yaml:"duration"`
	Error    error           `json:"-" yaml:"-"`
}

// Failed reports whether the file could not be scanned.
func (r ProcessResult) Failed() bool {
	return r.Error != nil
}

// ScanSummary is the ranked outcome of a whole run.
type ScanSummary struct {
	SourceType    SourceType      `json:"source_type" yaml:"source_type"`
	FilesFound    int             `json:"files_found" yaml:"files_found"`
	FilesScanned  int             `json:"files_scanned" yaml:"files_scanned"`
	FilesFailed   int             `json:"files_failed" yaml:"files_failed"`
	TotalLines    int             `json:"total_lines" yaml:"total_lines"`
	TotalBytes    int64           `json:"total_bytes" yaml:"total_bytes"`
	DistinctLines int             `json:"distinct_lines" yaml:"distinct_lines"`
	TotalSpans    int             `json:"total_spans" yaml:"total_spans"`
	TopN          int             `json:"top_n" yaml:"top_n"`
	Spans         []DuplicateSpan `json:"spans" yaml:"spans"`
	Duration      time.Duration   `json:"duration" yaml:"duration"`
	// SourceFiles is filled only when the file list was requested.
	SourceFiles []string `json:"source_files,omitempty" yaml:"source_files,omitempty"`
}
