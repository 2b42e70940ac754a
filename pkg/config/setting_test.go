package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testYAML = `
log_level: DEBUG
llm:
  model: gpt-4o
  api_key: ${TEST_QM_API_KEY}
storage:
  type: local
  config:
    storage_dir: ./data
    download_timeout: 30
flows:
  summarize:
    type: summary
    config:
      chunk_size: 500
`

func TestFromYAMLExpandsEnvAndDispatches(t *testing.T) {
	os.Setenv("TEST_QM_API_KEY", "secret-123")
	defer os.Unsetenv("TEST_QM_API_KEY")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testYAML), 0o644))

	setting, err := FromYAML(path, false)
	require.NoError(t, err)

	assert.Equal(t, LogLevelDebug, setting.LogLevel)
	assert.Equal(t, "gpt-4o", setting.LLM.Model)
	assert.Equal(t, "secret-123", setting.LLM.APIKey)
	assert.Equal(t, "./data", setting.Storage.StorageDir)
	assert.Equal(t, 30, setting.Storage.DownloadTimeout)

	require.Contains(t, setting.Flows, "summarize")
	summary, ok := setting.Flows["summarize"].(*SummaryFlowConfig)
	require.True(t, ok)
	assert.Equal(t, 500, summary.ChunkSize)
	assert.True(t, summary.UseChunking)
	assert.Contains(t, summary.LLMBlocks, "cheap_summarizer")
}

func TestFromYAMLUnknownFlowType(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	bad := `
flows:
  odd:
    type: not_registered
    config: {}
`
	require.NoError(t, os.WriteFile(path, []byte(bad), 0o644))

	_, err := FromYAML(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not_registered")
}

func TestSaveToYAMLStripsAPIKey(t *testing.T) {
	setting := &Setting{
		LogLevel: LogLevelInfo,
		LLM:      LLMConfig{Model: "gpt-4o", APIKey: "should-not-appear"},
		Storage:  LocalStorageConfig{StorageDir: "./data"},
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")
	require.NoError(t, setting.SaveToYAML(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "should-not-appear")
	assert.Contains(t, string(data), "gpt-4o")
}

func TestLogLevelSlogMapping(t *testing.T) {
	assert.True(t, LogLevelCritical.IsCritical())
	assert.Equal(t, LogLevelCritical.SlogLevel(), LogLevelError.SlogLevel())
}
