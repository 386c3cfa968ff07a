package audio

import (
	"context"
	"fmt"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider  string // Provider name: "openai"
	OutputDir string // Directory for synthesized files

	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice   string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed   float64 // 0.25 to 4.0

	EnableCache bool
	CacheDir    string
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:    "openai",
		OutputDir:   "./",
		OpenAIModel: "tts-1",
		OpenAIVoice: "alloy",
		OpenAISpeed: 1.0,
	}
}

// ConfigFrom maps the application configuration onto provider settings.
func ConfigFrom(cfg *config.Config) *Config {
	return &Config{
		Provider:      "openai",
		OutputDir:     cfg.Audio.OutputDir,
		OpenAIKey:     cfg.AudioAPIKey(),
		OpenAIBaseURL: cfg.Audio.BaseURL,
		OpenAIModel:   cfg.Audio.Model,
		OpenAIVoice:   cfg.Audio.Voice,
		OpenAISpeed:   cfg.Audio.Speed,
		EnableCache:   cfg.Audio.EnableCache,
		CacheDir:      cfg.Audio.CacheDir,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	switch config.Provider {
	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		p, err := NewOpenAIProvider(config)
		if err != nil {
			return nil, err
		}
		return p, nil

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}
