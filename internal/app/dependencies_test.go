package app

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cpscan/cpscan/internal/observability/logging"
	"github.com/cpscan/cpscan/internal/ui"
)

func bufferConfig() (*Config, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	config := DefaultConfig()
	config.UIWriter = &out
	config.UIErrorWriter = &errOut
	config.LogOutput = &errOut
	config.UIEnableColors = false
	return config, &out, &errOut
}

func TestNewDependencies(t *testing.T) {
	t.Cleanup(func() { logging.SetGlobalLogger(nil) })

	t.Run("builds services from config", func(t *testing.T) {
		config, _, _ := bufferConfig()
		deps, err := NewDependencies(config)
		require.NoError(t, err)

		assert.NoError(t, deps.Validate())
		assert.False(t, deps.GetLogger().IsEnabled(logging.LevelError))
		assert.Equal(t, deps.Logger, logging.GetGlobalLogger())
	})

	t.Run("rejects nil config", func(t *testing.T) {
		deps, err := NewDependencies(nil)
		assert.Nil(t, deps)
		assert.ErrorContains(t, err, "config cannot be nil")
	})
}

func TestDependencies_Reconfigure(t *testing.T) {
	t.Cleanup(func() { logging.SetGlobalLogger(nil) })

	config, _, errOut := bufferConfig()
	deps, err := NewDependencies(config)
	require.NoError(t, err)

	require.NoError(t, deps.Reconfigure(func(c *Config) {
		c.LogLevel = logging.LevelInfo
		c.UILevel = ui.OutputSilent
	}))

	deps.GetLogger().Info(context.Background(), "now visible")
	assert.Contains(t, errOut.String(), "now visible")
	assert.False(t, deps.GetUI().IsLevelEnabled(ui.OutputNormal))
}

func TestDependencies_ReconfigureIgnoresInjectedServices(t *testing.T) {
	deps := NewTestDependencies()
	logger := deps.Logger

	require.NoError(t, deps.Reconfigure(func(c *Config) { c.LogLevel = logging.LevelDebug }))
	assert.Same(t, logger, deps.GetLogger())
}

func TestDependencies_LogFile(t *testing.T) {
	t.Cleanup(func() { logging.SetGlobalLogger(nil) })

	path := filepath.Join(t.TempDir(), "cpscan.log")
	config, _, _ := bufferConfig()
	config.LogLevel = logging.LevelInfo
	config.LogFile = path

	deps, err := NewDependencies(config)
	require.NoError(t, err)
	deps.GetLogger().Info(context.Background(), "to file")
	require.NoError(t, deps.Close(context.Background()))

	assert.FileExists(t, path)
}

func TestDependencies_Validate(t *testing.T) {
	assert.NoError(t, NewTestDependencies().Validate())
	assert.ErrorContains(t, (&Dependencies{UI: ui.NewMockUserOutput()}).Validate(), "logger")
	assert.ErrorContains(t, (&Dependencies{Logger: logging.NewMockLogger()}).Validate(), "UI")
}
