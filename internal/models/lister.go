package models

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrNoAPIKey is returned when neither a key nor a custom endpoint is configured.
var ErrNoAPIKey = errors.New("OpenAI API key not found. Set OPENAI_API_KEY or providers.openai.api_key in .dictlookup.yaml")

// Catalog groups model IDs by what they are useful for. Each list is sorted.
type Catalog struct {
	Chat   []string
	Speech []string
	Other  []string
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey  string
	baseURL string
	client  *openai.Client
}

// NewLister creates a model lister. A non-empty baseURL points it at an
// OpenAI-compatible server, which may not need a key.
func NewLister(apiKey, baseURL string) *Lister {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Lister{
		apiKey:  apiKey,
		baseURL: baseURL,
		client:  openai.NewClientWithConfig(cfg),
	}
}

// List fetches and categorizes the available models.
func (l *Lister) List(ctx context.Context) (*Catalog, error) {
	if l.apiKey == "" && l.baseURL == "" {
		return nil, ErrNoAPIKey
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	c := &Catalog{}
	for _, model := range models.Models {
		id := model.ID
		switch {
		case strings.Contains(id, "tts") || strings.Contains(id, "audio"):
			c.Speech = append(c.Speech, id)
		case strings.Contains(id, "gpt") || strings.Contains(id, "chat"):
			c.Chat = append(c.Chat, id)
		default:
			c.Other = append(c.Other, id)
		}
	}
	sort.Strings(c.Chat)
	sort.Strings(c.Speech)
	sort.Strings(c.Other)
	return c, nil
}

// Print writes the catalog in a human readable layout. Uncategorized models
// are only counted.
func (c *Catalog) Print(w io.Writer) error {
	var b strings.Builder
	b.WriteString("Available OpenAI Models:\n")

	section := func(title string, ids []string) {
		fmt.Fprintf(&b, "\n%s:\n", title)
		if len(ids) == 0 {
			b.WriteString("  none found\n")
			return
		}
		for _, id := range ids {
			fmt.Fprintf(&b, "  %s\n", id)
		}
	}
	section("Chat models (providers.openai.model)", c.Chat)
	section("Text-to-Speech models (audio.model)", c.Speech)

	if len(c.Other) > 0 {
		fmt.Fprintf(&b, "\n... and %d other models\n", len(c.Other))
	}

	_, err := io.WriteString(w, b.String())
	return err
}
