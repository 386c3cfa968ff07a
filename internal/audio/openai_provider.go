package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAudio is returned when the speech endpoint answers with an empty body.
var ErrNoAudio = errors.New("no audio data received from OpenAI")

// OpenAIProvider speaks text through the OpenAI speech endpoint, or any
// server implementing it.
type OpenAIProvider struct {
	client *openai.Client
	config *Config
	cache  *speechCache // nil when caching is off
}

// NewOpenAIProvider creates the provider. Caching needs both EnableCache and
// a CacheDir.
func NewOpenAIProvider(config *Config) (*OpenAIProvider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientCfg := openai.DefaultConfig(config.OpenAIKey)
	if config.OpenAIBaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(config.OpenAIBaseURL, "/")
	}
	p := &OpenAIProvider{
		client: openai.NewClientWithConfig(clientCfg),
		config: config,
	}

	if config.EnableCache && config.CacheDir != "" {
		cache, err := newSpeechCache(config.CacheDir)
		if err != nil {
			return nil, err
		}
		p.cache = cache
	}
	return p, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable reports a missing key
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}

// GenerateAudio writes the spoken text to outputFile. The format follows
// the file extension.
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if p.cache != nil && p.cache.restore(text, p.config, outputFile) {
		return nil
	}

	speech, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          strings.TrimSpace(text),
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: responseFormat(outputFile),
	})
	if err != nil {
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer speech.Close()

	if err := writeSpeech(speech, outputFile); err != nil {
		return err
	}

	if p.cache != nil {
		// A failed cache write only costs a later API call.
		_ = p.cache.save(text, p.config, outputFile)
	}
	return nil
}

func writeSpeech(r io.Reader, outputFile string) error {
	if err := os.MkdirAll(filepath.Dir(outputFile), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	n, err := io.Copy(out, r)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if n == 0 {
		return ErrNoAudio
	}
	return nil
}

// ClearCache removes all cached audio files
func (p *OpenAIProvider) ClearCache() error {
	if p.cache == nil {
		return nil
	}
	return p.cache.clear()
}

var formats = map[string]openai.SpeechResponseFormat{
	".wav":  openai.SpeechResponseFormatWav,
	".opus": openai.SpeechResponseFormatOpus,
	".aac":  openai.SpeechResponseFormatAac,
	".flac": openai.SpeechResponseFormatFlac,
}

func responseFormat(outputFile string) openai.SpeechResponseFormat {
	if f, ok := formats[strings.ToLower(filepath.Ext(outputFile))]; ok {
		return f
	}
	return openai.SpeechResponseFormatMp3
}
