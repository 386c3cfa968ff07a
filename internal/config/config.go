package config

import (
	"os"
	"path/filepath"
	"time"
)

// PromptPlaceholder is replaced by the generated prompt in OpenAI message templates.
const PromptPlaceholder = "##PROMPT##"

// Anki field mapping keys. Values in AnkiConfig.Fields are the note type's field names.
const (
	FieldText               = "_text"
	FieldTranslation        = "_translation"
	FieldContext            = "_context"
	FieldContextTranslation = "_context_translation"
)

// Config is the typed view of the configuration file.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Providers ProvidersConfig `mapstructure:"providers"`
	Settings  Settings        `mapstructure:"settings"`
	Audio     AudioConfig     `mapstructure:"audio"`
	Anki      AnkiConfig      `mapstructure:"anki"`
	HTML      HTMLConfig      `mapstructure:"html"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Host           string   `mapstructure:"host" validate:"required"`
	Port           int      `mapstructure:"port" validate:"min=1,max=65535"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type ProvidersConfig struct {
	Selected       string       `mapstructure:"selected" validate:"required"`
	TimeoutSeconds int          `mapstructure:"timeout_seconds" validate:"min=1"`
	RetryAttempts  uint         `mapstructure:"retry_attempts"`
	OpenAI         OpenAIConfig `mapstructure:"openai"`
	Gemini         GeminiConfig `mapstructure:"gemini"`
}

// Timeout is the per-call deadline applied by the dispatcher.
func (p ProvidersConfig) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds) * time.Second
}

type OpenAIConfig struct {
	APIKey    string    `mapstructure:"api_key"`
	BaseURL   string    `mapstructure:"base_url" validate:"omitempty,url"`
	Model     string    `mapstructure:"model" validate:"required"`
	Stream    bool      `mapstructure:"stream"`
	MaxTokens int       `mapstructure:"max_tokens" validate:"min=1"`
	Messages  []Message `mapstructure:"messages" validate:"dive"`
}

// Message is one chat message template; Content may contain PromptPlaceholder.
type Message struct {
	Role    string `mapstructure:"role" validate:"required,oneof=system user assistant"`
	Content string `mapstructure:"content"`
}

type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model" validate:"required"`
	Temperature float32 `mapstructure:"temperature" validate:"min=0,max=2"`
}

// Settings are the feature toggles exposed through the settings endpoints.
type Settings struct {
	TranslationEnabled  bool `mapstructure:"translation_enabled"`
	TTSEnabled          bool `mapstructure:"tts_enabled"`
	AnalysisEnabled     bool `mapstructure:"analysis_enabled"`
	GrammarCheckEnabled bool `mapstructure:"grammar_check_enabled"`
}

type AudioConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	BaseURL     string  `mapstructure:"base_url" validate:"omitempty,url"`
	Model       string  `mapstructure:"model" validate:"required"`
	Voice       string  `mapstructure:"voice" validate:"required"`
	Speed       float64 `mapstructure:"speed" validate:"min=0.25,max=4"`
	OutputDir   string  `mapstructure:"output_dir" validate:"required"`
	Autoplay    bool    `mapstructure:"autoplay"`
	EnableCache bool    `mapstructure:"enable_cache"`
	CacheDir    string  `mapstructure:"cache_dir"`
}

type AnkiConfig struct {
	ConnectURL string            `mapstructure:"connect_url" validate:"required,url"`
	APIKey     string            `mapstructure:"api_key"`
	DeckName   string            `mapstructure:"deck_name" validate:"required"`
	ModelName  string            `mapstructure:"model_name" validate:"required"`
	Fields     map[string]string `mapstructure:"fields" validate:"required,dive,required"`
	StateDB    string            `mapstructure:"state_db"`
}

type HTMLConfig struct {
	ShowTranslation bool `mapstructure:"show_translation"`
	ShowTimingInfo  bool `mapstructure:"show_timing_info"`
}

// CacheConfig bounds the result cache. MaxTextLength is the rune count at or
// above which a result is served but not stored.
type CacheConfig struct {
	MaxEntries    int `mapstructure:"max_entries" validate:"min=1"`
	MaxTextLength int `mapstructure:"max_text_length" validate:"min=1"`
}

type LogConfig struct {
	Level      string `mapstructure:"level" validate:"oneof=debug info warn error"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb" validate:"min=0"`
	MaxBackups int    `mapstructure:"max_backups" validate:"min=0"`
	MaxAgeDays int    `mapstructure:"max_age_days" validate:"min=0"`
}

// AudioAPIKey falls back to the OpenAI provider key when no dedicated TTS key is set.
func (c *Config) AudioAPIKey() string {
	if c.Audio.APIKey != "" {
		return c.Audio.APIKey
	}
	return c.Providers.OpenAI.APIKey
}

// Clone returns a deep copy so callers can mutate it without touching the live config.
func (c *Config) Clone() *Config {
	out := *c
	out.Server.AllowedOrigins = append([]string(nil), c.Server.AllowedOrigins...)
	out.Providers.OpenAI.Messages = append([]Message(nil), c.Providers.OpenAI.Messages...)
	out.Anki.Fields = make(map[string]string, len(c.Anki.Fields))
	for k, v := range c.Anki.Fields {
		out.Anki.Fields[k] = v
	}
	return &out
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "dictlookup")
	}
	return filepath.Join(home, ".local", "state", "dictlookup")
}
