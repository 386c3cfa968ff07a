package models

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelsServer(t *testing.T, ids ...string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/models" {
			http.NotFound(w, r)
			return
		}
		data := make([]map[string]any, 0, len(ids))
		for _, id := range ids {
			data = append(data, map[string]any{"id": id, "object": "model", "owned_by": "system"})
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"object": "list", "data": data})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestList_NoAPIKey(t *testing.T) {
	_, err := NewLister("", "").List(context.Background())
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestList_Categorizes(t *testing.T) {
	srv := newModelsServer(t, "tts-1-hd", "gpt-4o-mini", "whisper-1", "gpt-4o", "gpt-4o-mini-tts", "dall-e-3")

	catalog, err := NewLister("", srv.URL).List(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, catalog.Chat)
	assert.Equal(t, []string{"gpt-4o-mini-tts", "tts-1-hd"}, catalog.Speech)
	assert.Equal(t, []string{"dall-e-3", "whisper-1"}, catalog.Other)
}

func TestList_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	_, err := NewLister("sk-test", srv.URL).List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list models")
}

func TestCatalog_Print(t *testing.T) {
	var buf bytes.Buffer
	c := &Catalog{Chat: []string{"gpt-4o"}, Other: []string{"dall-e-3", "whisper-1"}}
	require.NoError(t, c.Print(&buf))

	out := buf.String()
	assert.Contains(t, out, "Chat models (providers.openai.model):\n  gpt-4o\n")
	assert.Contains(t, out, "Text-to-Speech models (audio.model):\n  none found\n")
	assert.Contains(t, out, "... and 2 other models")
}

func TestList_Integration(t *testing.T) {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		t.Skip("Skipping integration test: OPENAI_API_KEY not set")
	}

	catalog, err := NewLister(apiKey, "").List(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, catalog.Chat)
}
