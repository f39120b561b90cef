package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/types"
	"github.com/cpscan/cpscan/internal/ui"
)

// block returns n distinct 12 character lines.
func block(prefix string, n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("%s_%03d(x);", prefix, i)
	}
	return strings.Join(lines, "\n") + "\n"
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, body := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	}
	return root
}

// isolate keeps config discovery away from the developer's files.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	chdir(t, t.TempDir())
}

func runScan(t *testing.T, args ...string) (*ui.MockUserOutput, *logging.MockLogger, error) {
	t.Helper()
	out := ui.NewMockUserOutput()
	logger := logging.NewMockLogger()
	cmd := NewScanHandler(StaticProvider(logger, out)).CreateCommand()
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out, logger, err
}

func TestScan_TextReport(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"a/One.java": block("call", 8),
		"b/Two.java": block("call", 8),
	})

	out, logger, err := runScan(t, root, "java")
	require.NoError(t, err)

	assert.Equal(t,
		"found 2 source files of java\n"+
			"top 30 result:\n"+
			filepath.Join(root, "b", "Two.java")+": line 1~8\n",
		out.Buffer.String())
	assert.True(t, logger.HasLogWithMessage("scan completed"))
}

func TestScan_TwoPassReportsBothCopies(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"a/One.java": block("call", 8),
		"b/Two.java": block("call", 8),
	})

	out, _, err := runScan(t, root, "java", "--two-pass")
	require.NoError(t, err)

	assert.Contains(t, out.Buffer.String(), filepath.Join(root, "a", "One.java")+": line 1~8\n")
	assert.Contains(t, out.Buffer.String(), filepath.Join(root, "b", "Two.java")+": line 1~8\n")
}

func TestScan_FlagsOverrideDefaults(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"One.rs":          block("call", 5),
		"Two.rs":          block("call", 5),
		"vendor/Three.rs": block("call", 5),
		"test/Four.rs":    block("call", 5),
	})

	out, _, err := runScan(t, root, "RUST",
		"--min-line-count", "4",
		"--min-char-count", "10",
		"--ignore-folders", "vendor",
		"--list-source-files",
		"--list-top-result", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out.Buffer.String()), "\n")
	assert.Equal(t, []string{
		filepath.Join(root, "One.rs"),
		filepath.Join(root, "Two.rs"),
		filepath.Join(root, "test", "Four.rs"),
		"found 3 source files of rust",
		"top 1 result:",
		filepath.Join(root, "Two.rs") + ": line 1~5",
	}, lines)
}

func TestScan_ShortBlockIsNotReported(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{"A.java": block("x", 5) + block("x", 5)})

	out, _, err := runScan(t, root, "java")
	require.NoError(t, err)
	assert.Equal(t, "found 1 source files of java\ntop 30 result:\n", out.Buffer.String())
}

func TestScan_JSON(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"a.py": block("call", 8),
		"b.py": block("call", 8),
	})

	out, _, err := runScan(t, root, "python", "--format", "json", "--list-source-files", "--stats")
	require.NoError(t, err)

	var summary types.ScanSummary
	require.NoError(t, json.Unmarshal(out.Buffer.Bytes(), &summary))
	assert.Equal(t, types.SourcePython, summary.SourceType)
	assert.Equal(t, 2, summary.FilesScanned)
	assert.Equal(t, 16, summary.TotalLines)
	assert.Len(t, summary.SourceFiles, 2)
	require.Len(t, summary.Spans, 1)
	assert.Equal(t, filepath.Join(root, "b.py"), summary.Spans[0].FilePath)
}

func TestScan_MissingRootIsReportedNotFatal(t *testing.T) {
	isolate(t)
	missing := filepath.Join(t.TempDir(), "absent")

	out, _, err := runScan(t, missing, "java")
	require.NoError(t, err)

	assert.Equal(t, "found 0 source files of java\ntop 30 result:\n", out.Buffer.String())
	assert.Len(t, out.GetMessagesByLevel("ERROR"), 1)
}

func TestScan_MalformedIgnorePatternWarns(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{"A.java": block("x", 3)})

	out, _, err := runScan(t, root, "java", "--ignore-folders", "[bad,test")
	require.NoError(t, err)

	assert.True(t, out.HasMessageContaining(`malformed pattern "[bad"`))
	assert.Contains(t, out.Buffer.String(), "found 1 source files of java")
}

func TestScan_ConfigProfile(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"a.go": block("call", 3),
		"b.go": block("call", 3),
	})
	require.NoError(t, os.WriteFile(".cpscan.yaml", []byte(`
profiles:
  default:
    min_line_count: 3
    min_char_count: 30
    list_top_result: 5
`), 0644))

	out, _, err := runScan(t, root, "go")
	require.NoError(t, err)
	assert.Contains(t, out.Buffer.String(), "top 5 result:\n"+filepath.Join(root, "b.go")+": line 1~3\n")
}

func TestScan_Errors(t *testing.T) {
	isolate(t)
	root := t.TempDir()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"unknown source type", []string{root, "cobol"}, "unsupported source type"},
		{"unknown format", []string{root, "java", "--format", "csv"}, "invalid output format"},
		{"unknown index", []string{root, "java", "--index", "btree"}, "unknown index kind"},
		{"negative threshold", []string{root, "java", "--min-line-count", "-1"}, "cannot be negative"},
		{"missing args", []string{root}, "accepts 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := runScan(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScan_UnreadableFileIsSkipped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	isolate(t)
	root := writeTree(t, map[string]string{
		"a.c": block("call", 8),
		"b.c": block("call", 8),
		"c.c": block("call", 8),
	})
	require.NoError(t, os.Chmod(filepath.Join(root, "a.c"), 0))

	out, _, err := runScan(t, root, "c")
	require.NoError(t, err)

	assert.True(t, out.HasMessageContaining("skipping "+filepath.Join(root, "a.c")))
	assert.Contains(t, out.Buffer.String(), filepath.Join(root, "c.c")+": line 1~8\n")
}

func TestScan_Cancelled(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{"a.java": block("call", 8)})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := ui.NewMockUserOutput()
	cmd := NewScanHandler(StaticProvider(logging.NewMockLogger(), out)).CreateCommand()
	cmd.SetArgs([]string{root, "java"})
	err := cmd.ExecuteContext(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "found 1 source files of java\ntop 30 result:\n", out.Buffer.String())
	assert.True(t, out.HasMessageContaining("scan interrupted after 0 of 1 files"))
}

// stopAfter reports cancellation once Err has been asked more than n times.
type stopAfter struct {
	context.Context
	n int
}

func (c *stopAfter) Err() error {
	if c.n == 0 {
		return context.Canceled
	}
	c.n--
	return nil
}

func TestScan_InterruptedReportsFinishedFiles(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{
		"a.java": block("call", 8),
		"b.java": block("call", 8),
		"c.java": block("call", 8),
	})

	out := ui.NewMockUserOutput()
	cmd := NewScanHandler(StaticProvider(logging.NewMockLogger(), out)).CreateCommand()
	cmd.SetArgs([]string{root, "java"})
	err := cmd.ExecuteContext(&stopAfter{Context: context.Background(), n: 2})

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Contains(t, err.Error(), "scan interrupted")
	assert.Equal(t,
		"found 3 source files of java\ntop 30 result:\n"+filepath.Join(root, "b.java")+": line 1~8\n",
		out.Buffer.String())
	assert.True(t, out.HasMessageContaining("scan interrupted after 2 of 3 files"))
}

func TestScan_LogsThresholdsAndFormat(t *testing.T) {
	isolate(t)
	root := writeTree(t, map[string]string{"a.java": block("call", 8)})

	_, logger, err := runScan(t, root, "java", "--min-line-count", "4", "--format", "table")
	require.NoError(t, err)

	require.True(t, logger.HasLogWithMessage("detector ready"))
	for _, entry := range logger.GetLogs() {
		switch entry.Message {
		case "detector ready":
			assert.Subset(t, entry.KeysAndValues, []any{"min_lines", 4, "min_chars", 80})
		case "rendering report":
			assert.Subset(t, entry.KeysAndValues, []any{"format", "table"})
		}
	}
}
