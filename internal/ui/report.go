package ui

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/cpscan/cpscan/internal/types"
)

// Format selects how a scan report is rendered.
type Format string

const (
	FormatText  Format = "text"
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ErrUnsupportedFormat is returned for unknown report formats.
var ErrUnsupportedFormat = errors.New("unsupported output format")

// ParseFormat converts a format name. An empty name means text.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatTable, FormatJSON, FormatYAML:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q (supported: text, table, json, yaml)", ErrUnsupportedFormat, name)
}

// ReportRenderer writes scan progress and results in one format. Text and
// table formats print as the scan goes; json and yaml emit a single document
// from RenderSummary.
type ReportRenderer struct {
	w      io.Writer
	format Format
	theme  Theme
}

// NewReportRenderer creates a renderer writing to w.
func NewReportRenderer(w io.Writer, format Format, theme Theme) *ReportRenderer {
	return &ReportRenderer{w: w, format: format, theme: theme}
}

// Format returns the renderer's format.
func (r *ReportRenderer) Format() Format {
	return r.format
}

// Document reports whether the format is a single structured document.
func (r *ReportRenderer) Document() bool {
	return r.format == FormatJSON || r.format == FormatYAML
}

// RenderFileList prints one discovered path per line.
func (r *ReportRenderer) RenderFileList(files []string) error {
	if r.Document() {
		return nil
	}
	for _, f := range files {
		if _, err := fmt.Fprintln(r.w, f); err != nil {
			return err
		}
	}
	return nil
}

// RenderFound prints the discovered file count.
func (r *ReportRenderer) RenderFound(n int, sourceType types.SourceType) error {
	if r.Document() {
		return nil
	}
	_, err := fmt.Fprintf(r.w, "found %d source files of %s\n", n, sourceType)
	return err
}

// RenderSummary prints the ranked spans.
func (r *ReportRenderer) RenderSummary(s types.ScanSummary) error {
	switch r.format {
	case FormatTable:
		return r.renderTable(s)
	case FormatJSON:
		enc := json.NewEncoder(r.w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(r.w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	default:
		return r.renderText(s)
	}
}

func (r *ReportRenderer) renderText(s types.ScanSummary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "top %s result:\n", r.theme.Paint(r.theme.Count, strconv.Itoa(s.TopN)))
	for _, span := range s.Spans {
		fmt.Fprintf(&b, "%s: line %s~%s\n",
			r.theme.Paint(r.theme.Path, span.FilePath),
			r.theme.Paint(r.theme.LineNum, strconv.Itoa(span.Start)),
			r.theme.Paint(r.theme.LineNum, strconv.Itoa(span.End)))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *ReportRenderer) renderTable(s types.ScanSummary) error {
	if _, err := fmt.Fprintf(r.w, "top %d result:\n", s.TopN); err != nil {
		return err
	}

	table := tablewriter.NewWriter(r.w)
	table.SetHeader([]string{"#", "File", "Start", "End", "Lines"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
	})

	for i, span := range s.Spans {
		table.Append([]string{
			strconv.Itoa(i + 1),
			span.FilePath,
			strconv.Itoa(span.Start),
			strconv.Itoa(span.End),
			strconv.Itoa(span.Len()),
		})
	}
	table.SetFooter([]string{"", fmt.Sprintf("%d of %d spans", len(s.Spans), s.TotalSpans), "", "", ""})
	table.Render()
	return nil
}

// RenderStats prints processing statistics. Structured formats already carry
// them in the summary document.
func (r *ReportRenderer) RenderStats(s types.ScanSummary) error {
	if r.Document() {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "scanned %s of %s files (%s, %s lines) in %s\n",
		humanize.Comma(int64(s.FilesScanned)),
		humanize.Comma(int64(s.FilesFound)),
		humanize.Bytes(uint64(s.TotalBytes)),
		humanize.Comma(int64(s.TotalLines)),
		s.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "distinct lines: %s, spans: %s, failed files: %d\n",
		humanize.Comma(int64(s.DistinctLines)),
		humanize.Comma(int64(s.TotalSpans)),
		s.FilesFailed)
	if secs := s.Duration.Seconds(); secs > 0 {
		fmt.Fprintf(&b, "throughput: %s files/s, %s/s\n",
			humanize.CommafWithDigits(float64(s.FilesScanned)/secs, 1),
			humanize.Bytes(uint64(float64(s.TotalBytes)/secs)))
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}
