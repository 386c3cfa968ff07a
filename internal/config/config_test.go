package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	path := filepath.Join(t.TempDir(), "missing.yaml")

	store, err := Load(path)
	require.NoError(t, err)
	cfg := store.Config()

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, []string{"ifr://localhost"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "openai", cfg.Providers.Selected)
	assert.Equal(t, 512, cfg.Providers.OpenAI.MaxTokens)
	assert.InDelta(t, 0.1, cfg.Providers.Gemini.Temperature, 1e-6)
	require.Len(t, cfg.Providers.OpenAI.Messages, 1)
	assert.Equal(t, PromptPlaceholder, cfg.Providers.OpenAI.Messages[0].Content)
	assert.True(t, cfg.Settings.TranslationEnabled)
	assert.True(t, cfg.Settings.TTSEnabled)
	assert.True(t, cfg.Settings.AnalysisEnabled)
	assert.False(t, cfg.Settings.GrammarCheckEnabled)
	assert.Equal(t, 10000, cfg.Cache.MaxEntries)
	assert.Equal(t, 10000, cfg.Cache.MaxTextLength)
	assert.Equal(t, "http://localhost:8765", cfg.Anki.ConnectURL)
	assert.Len(t, cfg.Anki.Fields, 4)
	assert.Equal(t, path, store.Path())
}

func TestLoad_FileOverrides(t *testing.T) {
	path := writeConfig(t, `
providers:
  selected: gemini
  gemini:
    api_key: g-key
    temperature: 0.5
settings:
  tts_enabled: false
cache:
  max_entries: 3
  max_text_length: 50
`)

	store, err := Load(path)
	require.NoError(t, err)
	cfg := store.Config()

	assert.Equal(t, "gemini", cfg.Providers.Selected)
	assert.Equal(t, "g-key", cfg.Providers.Gemini.APIKey)
	assert.InDelta(t, 0.5, cfg.Providers.Gemini.Temperature, 1e-6)
	assert.False(t, cfg.Settings.TTSEnabled)
	assert.Equal(t, 3, cfg.Cache.MaxEntries)
	assert.Equal(t, 50, cfg.Cache.MaxTextLength)
}

func TestLoad_EnvFallbackKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")
	store, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "env-key", store.Config().Providers.OpenAI.APIKey)
	assert.Equal(t, "env-key", store.Config().AudioAPIKey())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad log level", "log:\n  level: loud\n"},
		{"zero cache", "cache:\n  max_entries: 0\n"},
		{"bad anki url", "anki:\n  connect_url: not a url\n"},
		{"bad role", "providers:\n  openai:\n    messages:\n      - role: robot\n        content: x\n"},
		{"malformed yaml", "server: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)

			var cfgErr *Error
			assert.True(t, errors.As(err, &cfgErr), "expected *config.Error, got %T", err)
		})
	}
}

func TestStore_Update(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	store, err := Load(path)
	require.NoError(t, err)

	updated, err := store.Update(func(cfg *Config) {
		cfg.Settings.GrammarCheckEnabled = true
		cfg.Providers.OpenAI.Model = "gpt-4o"
	})
	require.NoError(t, err)
	assert.True(t, updated.Settings.GrammarCheckEnabled)
	assert.Same(t, updated, store.Config())

	// The file must round-trip through a fresh load.
	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.True(t, reloaded.Config().Settings.GrammarCheckEnabled)
	assert.Equal(t, "gpt-4o", reloaded.Config().Providers.OpenAI.Model)
}

func TestStore_UpdateRejectsInvalid(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	before := store.Config()

	_, err = store.Update(func(cfg *Config) {
		cfg.Providers.Selected = ""
	})
	require.Error(t, err)
	assert.Same(t, before, store.Config())
	assert.Equal(t, "openai", store.Config().Providers.Selected)
}

func TestConfig_Clone(t *testing.T) {
	store, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	orig := store.Config()

	clone := orig.Clone()
	clone.Anki.Fields[FieldText] = "Changed"
	clone.Server.AllowedOrigins[0] = "http://example.com"

	assert.Equal(t, "Text", orig.Anki.Fields[FieldText])
	assert.Equal(t, "ifr://localhost", orig.Server.AllowedOrigins[0])
}
