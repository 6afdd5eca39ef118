package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/playlens/internal/actionrender"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	for _, k := range []string{
		"PLAYLENS_DB", "PLAYLENS_LOG_LEVEL", "PLAYLENS_RECORDING_PROBABILITY",
		"PLAYLENS_LLM_PROVIDER", "PLAYLENS_ANTHROPIC_API_KEY", "PLAYLENS_OPENAI_API_KEY",
		"PLAYLENS_GEMINI_API_KEY", "PLAYLENS_OPENROUTER_API_KEY",
		"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	p := writeConfig(t, `
db: /tmp/pl.db
playthrough:
  recording_probability: 1
  thresholds:
    num_incorrect_answers: 5
render:
  min_block_size: 6
llm:
  provider: openai
  openai:
    api_key: sk-file
  retry:
    initial_wait: 250ms
`)
	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/pl.db", cfg.DB)
	assert.Equal(t, 1.0, cfg.Playthrough.RecordingProbability)
	assert.Equal(t, 5, cfg.Playthrough.Thresholds.NumIncorrectAnswers)
	// untouched siblings keep their defaults
	assert.Equal(t, 3, cfg.Playthrough.Thresholds.NumRepeatedCycles)
	assert.Equal(t, 45, cfg.Playthrough.Thresholds.EarlyQuitSecs)
	assert.Equal(t, 6, cfg.Render.MinBlockSize)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-file", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, 250*time.Millisecond, cfg.LLM.Retry.InitialWait)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	p := writeConfig(t, "db: /from/file.db\nlog_level: warn\n")
	t.Setenv("PLAYLENS_DB", "/from/env.db")
	t.Setenv("PLAYLENS_RECORDING_PROBABILITY", "0.5")
	t.Setenv("PLAYLENS_LLM_PROVIDER", "gemini")
	t.Setenv("PLAYLENS_GEMINI_API_KEY", "g")

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "/from/env.db", cfg.DB)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, 0.5, cfg.Playthrough.RecordingProbability)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "g", cfg.LLM.Gemini.APIKey)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]string{
		"probability": "playthrough:\n  recording_probability: 2\n",
		"block size":  "render:\n  min_block_size: -1\n",
		"thresholds":  "playthrough:\n  thresholds:\n    num_repeated_cycles: 0\n",
		"yaml":        "db: [unterminated\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ZeroBlockSizeMeansDefault(t *testing.T) {
	isolate(t)
	cfg, err := Load(writeConfig(t, "render:\n  min_block_size: 0\n"))
	require.NoError(t, err)
	assert.Equal(t, actionrender.MinBlockSize, cfg.Render.MinBlockSize)
}

func TestLoad_BadEnvProbability(t *testing.T) {
	isolate(t)
	t.Setenv("PLAYLENS_RECORDING_PROBABILITY", "often")
	_, err := Load("")
	assert.Error(t, err)
}
