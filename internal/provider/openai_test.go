package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/dictlookup/internal/config"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Stream    bool   `json:"stream"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func newChatServer(t *testing.T, handler func(w http.ResponseWriter, req chatRequest)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		handler(w, req)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestOpenAIProvider_GenerateContent(t *testing.T) {
	var got chatRequest
	srv := newChatServer(t, func(w http.ResponseWriter, req chatRequest) {
		got = req
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"Translation\":\"I like apples\"}"},"finish_reason":"stop"}]}`)
	})

	p, err := NewOpenAIProvider(config.OpenAIConfig{
		APIKey:  "sk-test",
		BaseURL: srv.URL,
		Model:   "gpt-4o-mini",
		Messages: []config.Message{
			{Role: "system", Content: "You are a dictionary."},
			{Role: "user", Content: "Task: " + config.PromptPlaceholder},
		},
	})
	require.NoError(t, err)

	raw, err := p.GenerateContent(context.Background(), "translate 我喜欢苹果")
	require.NoError(t, err)
	assert.Equal(t, `{"Translation":"I like apples"}`, raw)

	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.Equal(t, 512, got.MaxTokens)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "Task: translate 我喜欢苹果", got.Messages[1].Content)

	parsed, err := p.ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "I like apples", parsed["Translation"])
}

func TestOpenAIProvider_Stream(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, req chatRequest) {
		assert.True(t, req.Stream)
		w.Header().Set("Content-Type", "text/event-stream")
		for _, part := range []string{`{\"Transl`, `ation\":`, `\"hi\"}`} {
			fmt.Fprintf(w, "data: {\"id\":\"1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"%s\"}}]}\n\n", part)
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	p, err := NewOpenAIProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "m", Stream: true})
	require.NoError(t, err)

	raw, err := p.GenerateContent(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, `{"Translation":"hi"}`, raw)
}

func TestOpenAIProvider_UpstreamError(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, req chatRequest) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"boom","type":"server_error"}}`)
	})

	p, err := NewOpenAIProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = p.GenerateContent(context.Background(), "hello")
	require.Error(t, err)

	var provErr *Error
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, OpenAIName, provErr.Provider)
	assert.True(t, isRetryableError(err))
}

func TestOpenAIProvider_NoChoices(t *testing.T) {
	srv := newChatServer(t, func(w http.ResponseWriter, req chatRequest) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"1","choices":[]}`)
	})

	p, err := NewOpenAIProvider(config.OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL, Model: "m"})
	require.NoError(t, err)

	_, err = p.GenerateContent(context.Background(), "hello")
	assert.Error(t, err)
}

func TestNewOpenAIProvider_Defaults(t *testing.T) {
	p, err := NewOpenAIProvider(config.OpenAIConfig{BaseURL: "http://localhost:11434/v1/", Model: "llama3"})
	require.NoError(t, err)

	assert.Equal(t, 512, p.maxTokens)
	require.Len(t, p.messages, 1)
	assert.Equal(t, config.PromptPlaceholder, p.messages[0].Content)
}

func TestOpenAIProvider_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	p, err := NewOpenAIProvider(config.OpenAIConfig{APIKey: apiKey, Model: "gpt-4o-mini", MaxTokens: 512})
	require.NoError(t, err)

	raw, err := p.GenerateContent(context.Background(), `Reply with the JSON object {"Translation": "ok"} and nothing else.`)
	require.NoError(t, err)

	parsed, err := p.ParseResponse(raw)
	require.NoError(t, err)
	t.Logf("Parsed reply: %v", parsed)
}
