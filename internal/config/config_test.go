package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpscan/cpscan/internal/types"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cpscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	profile, ok := config.Profiles[DefaultProfileName]
	require.True(t, ok)
	assert.Equal(t, 6, profile.MinLineCount)
	assert.Equal(t, 80, profile.MinCharCount)
	assert.Equal(t, 30, profile.ListTopResult)
	assert.Equal(t, []string{"thirdparty", "test", "node_modules"}, profile.IgnoreFolders)
	assert.Equal(t, "text", profile.OutputFormat)
	assert.Equal(t, "trie", profile.IndexKind)
	assert.False(t, profile.TwoPass)
	assert.Equal(t, types.DefaultThresholds(), ToThresholds(profile))
}

func TestLoadConfig(t *testing.T) {
	t.Run("unset keys fall back to defaults", func(t *testing.T) {
		path := writeConfig(t, `
profiles:
  default:
    min_line_count: 10
    ignore_folders: [vendor, "gen*"]
  ci:
    output_format: json
    two_pass: true
`)
		result := LoadConfig(path)
		require.True(t, result.IsOk(), "%v", result.Error())
		config := result.Unwrap()
		require.Len(t, config.Profiles, 2)

		def := config.Profiles["default"]
		assert.Equal(t, 10, def.MinLineCount)
		assert.Equal(t, 80, def.MinCharCount)
		assert.Equal(t, []string{"vendor", "gen*"}, def.IgnoreFolders)

		ci := config.Profiles["ci"]
		assert.Equal(t, "json", ci.OutputFormat)
		assert.True(t, ci.TwoPass)
		assert.Equal(t, 6, ci.MinLineCount)
	})

	t.Run("comma string lists are split", func(t *testing.T) {
		path := writeConfig(t, `
profiles:
  default:
    ignore_folders: "a, b ,c"
`)
		config := LoadConfig(path).Unwrap()
		assert.Equal(t, []string{"a", "b", "c"}, config.Profiles["default"].IgnoreFolders)
	})

	t.Run("missing file", func(t *testing.T) {
		result := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.True(t, result.IsErr())
	})

	t.Run("no profiles", func(t *testing.T) {
		result := LoadConfig(writeConfig(t, "other: 1\n"))
		require.True(t, result.IsErr())
		assert.Contains(t, result.Error().Error(), "defines no profiles")
	})
}

func TestGetProfile(t *testing.T) {
	config := DefaultConfig()

	assert.True(t, GetProfile(config, "").IsOk())
	assert.True(t, GetProfile(config, "default").IsOk())

	missing := GetProfile(config, "nightly")
	require.True(t, missing.IsErr())
	assert.Contains(t, missing.Error().Error(), "profile not found: nightly")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("CPSCAN_MIN_LINE_COUNT", "9")
	t.Setenv("CPSCAN_IGNORE_FOLDERS", "gen,build")
	t.Setenv("CPSCAN_TWO_PASS", "true")

	profile := ApplyEnv(DefaultProfile())

	assert.Equal(t, 9, profile.MinLineCount)
	assert.Equal(t, []string{"gen", "build"}, profile.IgnoreFolders)
	assert.True(t, profile.TwoPass)
	assert.Equal(t, 80, profile.MinCharCount)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"thirdparty", "test", "node_modules"}, SplitList("thirdparty,test,node_modules"))
	assert.Equal(t, []string{"a", "b"}, SplitList(" a ,", "", "b"))
	assert.Equal(t, []string{}, SplitList())
}

func TestWriteConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpscan.yaml")
	original := DefaultConfig()

	require.NoError(t, WriteConfig(path, original, false))

	loaded := LoadConfig(path)
	require.True(t, loaded.IsOk(), "%v", loaded.Error())
	assert.Equal(t, original.Profiles["default"], loaded.Unwrap().Profiles["default"])
}

func TestWriteConfig_RefusesOverwrite(t *testing.T) {
	path := writeConfig(t, "profiles: {}\n")

	err := WriteConfig(path, DefaultConfig(), false)
	assert.ErrorContains(t, err, "already exists")

	require.NoError(t, WriteConfig(path, DefaultConfig(), true))
}
