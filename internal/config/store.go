package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// DefaultFileName is searched for in $HOME and the working directory.
const DefaultFileName = ".dictlookup.yaml"

// Store owns the viper instance and the current validated Config.
type Store struct {
	mu         sync.RWMutex
	v          *viper.Viper
	validator  *validator.Validate
	translator ut.Translator
	path       string
	current    *Config
}

// Load reads the configuration from path, or from DefaultFileName in $HOME or
// the working directory when path is empty. A missing file is not an error.
func Load(path string) (*Store, error) {
	validate, trans, err := newValidator()
	if err != nil {
		return nil, &Error{Op: "init", Err: err}
	}

	v := viper.New()
	v.SetConfigType("yaml")
	writePath := path
	if path != "" {
		v.SetConfigFile(path)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
			writePath = filepath.Join(home, DefaultFileName)
		} else {
			writePath = DefaultFileName
		}
		v.AddConfigPath(".")
		v.SetConfigName(strings.TrimSuffix(DefaultFileName, ".yaml"))
	}

	setDefaults(v)

	v.SetEnvPrefix("DICTLOOKUP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("providers.openai.api_key", "DICTLOOKUP_PROVIDERS_OPENAI_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, &Error{Op: "bind env", Err: err}
	}
	if err := v.BindEnv("providers.gemini.api_key", "DICTLOOKUP_PROVIDERS_GEMINI_API_KEY", "GEMINI_API_KEY"); err != nil {
		return nil, &Error{Op: "bind env", Err: err}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(path != "" && errors.Is(err, os.ErrNotExist)) {
			return nil, &Error{Op: "read", Err: fmt.Errorf("configuration file found but could not be read: %w", err)}
		}
	} else {
		writePath = v.ConfigFileUsed()
	}

	s := &Store{
		v:          v,
		validator:  validate,
		translator: trans,
		path:       writePath,
	}

	cfg, err := s.unmarshal()
	if err != nil {
		return nil, err
	}
	s.current = cfg
	return s, nil
}

func setDefaults(v *viper.Viper) {
	stateDir := defaultStateDir()

	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.allowed_origins", []string{"ifr://localhost"})

	v.SetDefault("providers.selected", "openai")
	v.SetDefault("providers.timeout_seconds", 60)
	v.SetDefault("providers.retry_attempts", 1)
	v.SetDefault("providers.openai.model", "gpt-4o-mini")
	v.SetDefault("providers.openai.stream", false)
	v.SetDefault("providers.openai.max_tokens", 512)
	v.SetDefault("providers.openai.messages", []map[string]any{
		{"role": "user", "content": PromptPlaceholder},
	})
	v.SetDefault("providers.gemini.model", "gemini-2.0-flash")
	v.SetDefault("providers.gemini.temperature", 0.1)

	v.SetDefault("settings.translation_enabled", true)
	v.SetDefault("settings.tts_enabled", true)
	v.SetDefault("settings.analysis_enabled", true)
	v.SetDefault("settings.grammar_check_enabled", false)

	v.SetDefault("audio.model", "tts-1")
	v.SetDefault("audio.voice", "alloy")
	v.SetDefault("audio.speed", 1.0)
	v.SetDefault("audio.output_dir", filepath.Join(os.TempDir(), "dictlookup-audio"))
	v.SetDefault("audio.autoplay", false)
	v.SetDefault("audio.enable_cache", false)
	v.SetDefault("audio.cache_dir", filepath.Join(stateDir, "audio-cache"))

	v.SetDefault("anki.connect_url", "http://localhost:8765")
	v.SetDefault("anki.deck_name", "GoldenDict")
	v.SetDefault("anki.model_name", "GoldenDict Basic")
	v.SetDefault("anki.fields", map[string]string{
		FieldText:               "Text",
		FieldTranslation:        "Translation",
		FieldContext:            "Context",
		FieldContextTranslation: "ContextTranslation",
	})
	v.SetDefault("anki.state_db", filepath.Join(stateDir, "anki.db"))

	v.SetDefault("html.show_translation", true)
	v.SetDefault("html.show_timing_info", true)

	v.SetDefault("cache.max_entries", 10000)
	v.SetDefault("cache.max_text_length", 10000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

func (s *Store) unmarshal() (*Config, error) {
	var cfg Config
	if err := s.v.Unmarshal(&cfg); err != nil {
		return nil, &Error{Op: "unmarshal", Err: fmt.Errorf("invalid configuration format: %w", err)}
	}
	if err := s.validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Config returns the current configuration. The returned value must not be modified.
func (s *Store) Config() *Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Path is the file Update writes to.
func (s *Store) Path() string {
	return s.path
}

// Update applies fn to a copy of the current configuration, validates the
// result, persists the mutable keys and makes it current. On any error the
// current configuration is left untouched.
func (s *Store) Update(fn func(cfg *Config)) (*Config, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.Clone()
	fn(next)
	if err := s.validate(next); err != nil {
		return nil, err
	}

	s.setMutable(next)
	if err := s.write(); err != nil {
		// Keep viper in step with the unchanged current config.
		s.setMutable(s.current)
		return nil, err
	}

	s.current = next
	return next, nil
}

// Validate checks cfg against the same rules Load and Update apply.
func (s *Store) Validate(cfg *Config) error {
	return s.validate(cfg)
}

// setMutable copies the keys the settings endpoint may change into viper.
func (s *Store) setMutable(cfg *Config) {
	v := s.v
	v.Set("settings.translation_enabled", cfg.Settings.TranslationEnabled)
	v.Set("settings.tts_enabled", cfg.Settings.TTSEnabled)
	v.Set("settings.analysis_enabled", cfg.Settings.AnalysisEnabled)
	v.Set("settings.grammar_check_enabled", cfg.Settings.GrammarCheckEnabled)
	v.Set("audio.autoplay", cfg.Audio.Autoplay)
	v.Set("providers.selected", cfg.Providers.Selected)
	v.Set("providers.openai.api_key", cfg.Providers.OpenAI.APIKey)
	v.Set("providers.openai.base_url", cfg.Providers.OpenAI.BaseURL)
	v.Set("providers.openai.model", cfg.Providers.OpenAI.Model)
	v.Set("providers.gemini.api_key", cfg.Providers.Gemini.APIKey)
	v.Set("providers.gemini.model", cfg.Providers.Gemini.Model)
}

func (s *Store) write() error {
	if dir := filepath.Dir(s.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &Error{Op: "write", Err: fmt.Errorf("failed to create config directory: %w", err)}
		}
	}
	if err := s.v.WriteConfigAs(s.path); err != nil {
		return &Error{Op: "write", Err: err}
	}
	return nil
}
