package provider

import (
	"context"
	"errors"

	"google.golang.org/genai"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// GeminiName is the registry name of the Google Gemini backend.
const GeminiName = "gemini"

// GeminiProvider calls the Gemini API through the google genai SDK.
type GeminiProvider struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiProvider creates the backend
func NewGeminiProvider(ctx context.Context, cfg config.GeminiConfig) (*GeminiProvider, error) {
	return newGeminiProvider(ctx, cfg, "")
}

// newGeminiProvider allows pointing the client at a local test server.
func newGeminiProvider(ctx context.Context, cfg config.GeminiConfig, baseURL string) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, &config.Error{Op: "gemini provider", Err: errors.New("Gemini API key is required")}
	}

	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, &Error{Provider: GeminiName, Err: err}
	}

	return &GeminiProvider{
		client:      client,
		model:       cfg.Model,
		temperature: cfg.Temperature,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return GeminiName
}

// GenerateContent runs a single-turn generation with the configured temperature
func (p *GeminiProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := p.client.Models.GenerateContent(ctx, p.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(p.temperature),
	})
	if err != nil {
		return "", &Error{Provider: GeminiName, Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &Error{Provider: GeminiName, Err: errors.New("empty response")}
	}
	return text, nil
}

// ParseResponse extracts the first embedded JSON object
func (p *GeminiProvider) ParseResponse(raw string) (map[string]any, error) {
	return ParseResponse(raw)
}
