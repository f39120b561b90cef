package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/ui"
)

func runValidate(t *testing.T, body string) (*ui.MockUserOutput, error) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	out := ui.NewMockUserOutput()
	cmd := NewValidateHandler(StaticProvider(logging.NewMockLogger(), out)).CreateCommand()
	cmd.SetArgs([]string{path})
	return out, cmd.ExecuteContext(context.Background())
}

func TestValidate_Valid(t *testing.T) {
	out, err := runValidate(t, "profiles:\n  default:\n    min_line_count: 8\n")
	require.NoError(t, err)
	assert.True(t, out.HasMessageContaining("is valid"))
}

func TestValidate_WarningsOnly(t *testing.T) {
	out, err := runValidate(t, "profiles:\n  default:\n    list_top_result: 0\n")
	require.NoError(t, err)

	warnings := out.GetMessagesByLevel("WARNING")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Text(), "no spans will be listed")
	assert.True(t, out.HasMessageContaining("1 warnings"))
}

func TestValidate_Errors(t *testing.T) {
	out, err := runValidate(t, "profiles:\n  default:\n    min_char_count: -1\n    output_format: csv\n")
	require.ErrorIs(t, err, ErrInvalidConfig)

	assert.Len(t, out.GetMessagesByLevel("ERROR"), 2)
	assert.True(t, out.HasMessageContaining("Suggestion:"))
}
