package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Grader.Provider)
}

func TestLoadConfigDecodesSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[grader]
provider = "anthropic"
max-tokens = 2048

[library]
export-dir = "/tmp/exports"
default-category = "经济贸易"

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Grader.Provider)
	assert.Equal(t, "anthropic", *cfg.Grader.Provider)
	require.NotNil(t, cfg.Grader.MaxTokens)
	assert.Equal(t, 2048, *cfg.Grader.MaxTokens)
	require.NotNil(t, cfg.Library.DefaultCategory)
	assert.Equal(t, "经济贸易", *cfg.Library.DefaultCategory)
	require.NotNil(t, cfg.Log.Level)
	assert.Equal(t, "debug", *cfg.Log.Level)
}

func TestLoadConfigEmptyPath(t *testing.T) {
	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestResolveDefaults(t *testing.T) {
	s, err := Resolve(FileConfig{}, EnvConfig{GeminiAPIKey: "key"})
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, s.Provider)
	assert.Equal(t, DefaultGeminiModel, s.Model)
	assert.Equal(t, "key", s.APIKey)
	assert.Equal(t, "历史文化", s.DefaultCategory)
	assert.Equal(t, DefaultMaxTokens, s.MaxTokens)
}

func TestResolveLegacyAPIKey(t *testing.T) {
	s, err := Resolve(FileConfig{}, EnvConfig{APIKey: "legacy"})
	require.NoError(t, err)
	assert.Equal(t, "legacy", s.APIKey)
}

func TestResolveEnvOverridesFile(t *testing.T) {
	provider := "gemini"
	model := "gemini-from-file"
	file := FileConfig{Grader: GraderConfig{Provider: &provider, Model: &model}}
	env := EnvConfig{Provider: "anthropic", AnthropicAPIKey: "ak", Model: "claude-from-env"}

	s, err := Resolve(file, env)
	require.NoError(t, err)
	assert.Equal(t, ProviderAnthropic, s.Provider)
	assert.Equal(t, "claude-from-env", s.Model)
	assert.Equal(t, "ak", s.APIKey)
}

func TestResolveRejectsBadValues(t *testing.T) {
	unknown := "openai"
	_, err := Resolve(FileConfig{Grader: GraderConfig{Provider: &unknown}}, EnvConfig{})
	require.Error(t, err)

	zero := 0
	_, err = Resolve(FileConfig{Grader: GraderConfig{MaxTokens: &zero}}, EnvConfig{})
	require.Error(t, err)

	category := "体育"
	_, err = Resolve(FileConfig{Library: LibraryConfig{DefaultCategory: &category}}, EnvConfig{})
	require.Error(t, err)

	level := "trace"
	_, err = Resolve(FileConfig{Log: LogConfig{Level: &level}}, EnvConfig{})
	require.Error(t, err)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "g-key")
	t.Setenv("CETGRADE_PROVIDER", "gemini")
	env, err := LoadEnv()
	require.NoError(t, err)
	assert.Equal(t, "g-key", env.GeminiAPIKey)
	assert.Equal(t, "gemini", env.Provider)
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("XDG_DATA_HOME", dir)
	t.Setenv("XDG_STATE_HOME", dir)
	assert.Equal(t, filepath.Join(dir, "cetgrade", "config.toml"), DefaultConfigPath())
	assert.Equal(t, filepath.Join(dir, "cetgrade", "cetgrade.db"), DefaultDBPath())
	assert.Equal(t, filepath.Join(dir, "cetgrade", "cetgrade.log"), DefaultLogPath())
}
