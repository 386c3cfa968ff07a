package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codeberg.org/snonux/dictlookup/internal/config"
)

func TestGeminiProvider_GenerateContent(t *testing.T) {
	var body map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/gemini-2.0-flash:generateContent") {
			http.NotFound(w, r)
			return
		}
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		reply := "```json\n{\"Words\": [{\"word\": \"ledger\", \"definition\": \"accounts book\"},]}\n```"
		resp := map[string]any{
			"candidates": []any{
				map[string]any{
					"content": map[string]any{
						"role":  "model",
						"parts": []any{map[string]any{"text": reply}},
					},
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	p, err := newGeminiProvider(context.Background(), config.GeminiConfig{
		APIKey:      "g-test",
		Model:       "gemini-2.0-flash",
		Temperature: 0.1,
	}, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, GeminiName, p.Name())

	raw, err := p.GenerateContent(context.Background(), "analyze")
	require.NoError(t, err)

	genCfg, ok := body["generationConfig"].(map[string]any)
	require.True(t, ok, "request body lacks generationConfig: %v", body)
	assert.InDelta(t, 0.1, genCfg["temperature"], 1e-6)

	parsed, err := p.ParseResponse(raw)
	require.NoError(t, err)
	words := parsed["Words"].([]any)
	assert.Equal(t, "ledger", words[0].(map[string]any)["word"])
}

func TestGeminiProvider_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, `{"error":{"code":503,"message":"overloaded","status":"UNAVAILABLE"}}`)
	}))
	defer srv.Close()

	p, err := newGeminiProvider(context.Background(), config.GeminiConfig{APIKey: "g-test", Model: "gemini-2.0-flash"}, srv.URL)
	require.NoError(t, err)

	_, err = p.GenerateContent(context.Background(), "analyze")
	require.Error(t, err)

	var provErr *Error
	require.True(t, errors.As(err, &provErr))
	assert.Equal(t, GeminiName, provErr.Provider)
}

func TestNewGeminiProvider_MissingKey(t *testing.T) {
	_, err := NewGeminiProvider(context.Background(), config.GeminiConfig{Model: "gemini-2.0-flash"})
	require.Error(t, err)

	var cfgErr *config.Error
	assert.True(t, errors.As(err, &cfgErr))
}
