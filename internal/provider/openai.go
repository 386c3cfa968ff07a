package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// OpenAIName is the registry name of the OpenAI-compatible backend.
const OpenAIName = "openai"

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
type OpenAIProvider struct {
	client    *openai.Client
	model     string
	maxTokens int
	stream    bool
	messages  []config.Message
}

// NewOpenAIProvider creates the backend. An API key is required unless a
// custom base URL (a local or self-hosted endpoint) is configured.
func NewOpenAIProvider(cfg config.OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" && cfg.BaseURL == "" {
		return nil, &config.Error{Op: "openai provider", Err: errors.New("OpenAI API key is required")}
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	messages := cfg.Messages
	if len(messages) == 0 {
		messages = []config.Message{{Role: openai.ChatMessageRoleUser, Content: config.PromptPlaceholder}}
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return &OpenAIProvider{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
		stream:    cfg.Stream,
		messages:  messages,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return OpenAIName
}

// GenerateContent sends the prompt through the message template
func (p *OpenAIProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:     p.model,
		Messages:  p.buildMessages(prompt),
		MaxTokens: p.maxTokens,
	}

	if p.stream {
		return p.generateStream(ctx, req)
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", &Error{Provider: OpenAIName, Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &Error{Provider: OpenAIName, Err: errors.New("no choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *OpenAIProvider) generateStream(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	stream, err := p.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", &Error{Provider: OpenAIName, Err: err}
	}
	defer stream.Close()

	var b strings.Builder
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", &Error{Provider: OpenAIName, Err: fmt.Errorf("stream: %w", err)}
		}
		if len(chunk.Choices) > 0 {
			b.WriteString(chunk.Choices[0].Delta.Content)
		}
	}
	return b.String(), nil
}

func (p *OpenAIProvider) buildMessages(prompt string) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(p.messages))
	for _, m := range p.messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: strings.ReplaceAll(m.Content, config.PromptPlaceholder, prompt),
		})
	}
	return out
}

// ParseResponse decodes the reply as a whole, then falls back to extracting
// the first embedded object.
func (p *OpenAIProvider) ParseResponse(raw string) (map[string]any, error) {
	return parseWholeFirst(raw)
}
