package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/cpscan/cpscan/internal/types"
)

func sampleSummary() types.ScanSummary {
	return types.ScanSummary{
		SourceType:    types.SourceJava,
		FilesFound:    3,
		FilesScanned:  3,
		TotalLines:    1234,
		TotalBytes:    2048,
		DistinctLines: 900,
		TotalSpans:    3,
		TopN:          2,
		Spans: []types.DuplicateSpan{
			{FilePath: "src/B.java", Start: 10, End: 29},
			{FilePath: "src/A.java", Start: 1, End: 8},
		},
		Duration: 2 * time.Second,
	}
}

func render(t *testing.T, format Format, fn func(r *ReportRenderer) error) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, fn(NewReportRenderer(&buf, format, PlainTheme())))
	return buf.String()
}

func TestParseFormat(t *testing.T) {
	for input, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "table": FormatTable, " json ": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseFormat("csv")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
}

func TestRenderText(t *testing.T) {
	out := render(t, FormatText, func(r *ReportRenderer) error {
		if err := r.RenderFound(3, types.SourceJava); err != nil {
			return err
		}
		return r.RenderSummary(sampleSummary())
	})

	assert.Equal(t,
		"found 3 source files of java\n"+
			"top 2 result:\n"+
			"src/B.java: line 10~29\n"+
			"src/A.java: line 1~8\n",
		out)
}

func TestRenderText_NoSpans(t *testing.T) {
	s := sampleSummary()
	s.Spans = []types.DuplicateSpan{}
	s.TopN = 30

	out := render(t, FormatText, func(r *ReportRenderer) error { return r.RenderSummary(s) })
	assert.Equal(t, "top 30 result:\n", out)
}

func TestRenderFileList(t *testing.T) {
	out := render(t, FormatText, func(r *ReportRenderer) error {
		return r.RenderFileList([]string{"a.java", "b/c.java"})
	})
	assert.Equal(t, "a.java\nb/c.java\n", out)

	out = render(t, FormatJSON, func(r *ReportRenderer) error {
		return r.RenderFileList([]string{"a.java"})
	})
	assert.Empty(t, out)
}

func TestRenderTable(t *testing.T) {
	out := render(t, FormatTable, func(r *ReportRenderer) error { return r.RenderSummary(sampleSummary()) })

	assert.True(t, strings.HasPrefix(out, "top 2 result:\n"))
	assert.Contains(t, out, "FILE")
	assert.Contains(t, out, "src/B.java")
	assert.Contains(t, out, "20")
	assert.Contains(t, out, "2 OF 3 SPANS")
}

func TestRenderJSON(t *testing.T) {
	r := NewReportRenderer(&bytes.Buffer{}, FormatJSON, PlainTheme())
	assert.True(t, r.Document())
	assert.Equal(t, FormatJSON, r.Format())
	assert.False(t, NewReportRenderer(&bytes.Buffer{}, FormatTable, PlainTheme()).Document())

	out := render(t, FormatJSON, func(r *ReportRenderer) error {
		if err := r.RenderFound(3, types.SourceJava); err != nil {
			return err
		}
		return r.RenderSummary(sampleSummary())
	})

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "java", doc["source_type"])
	assert.Equal(t, float64(3), doc["total_spans"])
	spans := doc["spans"].([]any)
	require.Len(t, spans, 2)
	assert.Equal(t, "src/B.java", spans[0].(map[string]any)["file_path"])
}

func TestRenderYAML(t *testing.T) {
	out := render(t, FormatYAML, func(r *ReportRenderer) error { return r.RenderSummary(sampleSummary()) })

	var doc struct {
		SourceType string                `yaml:"source_type"`
		Spans      []types.DuplicateSpan `yaml:"spans"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "java", doc.SourceType)
	assert.Equal(t, sampleSummary().Spans, doc.Spans)
}

func TestRenderStats(t *testing.T) {
	out := render(t, FormatText, func(r *ReportRenderer) error { return r.RenderStats(sampleSummary()) })

	assert.Contains(t, out, "scanned 3 of 3 files (2.0 kB, 1,234 lines) in 2s")
	assert.Contains(t, out, "distinct lines: 900, spans: 3, failed files: 0")
	assert.Contains(t, out, "throughput: 1.5 files/s")

	out = render(t, FormatYAML, func(r *ReportRenderer) error { return r.RenderStats(sampleSummary()) })
	assert.Empty(t, out)
}
