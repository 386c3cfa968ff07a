package provider

import (
	"context"
	"sort"
	"strings"
	"sync"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// Provider is one language-model backend.
type Provider interface {
	// Name returns the registry name of the backend
	Name() string

	// GenerateContent sends prompt to the model and returns its raw reply
	GenerateContent(ctx context.Context, prompt string) (string, error)

	// ParseResponse decodes the JSON object embedded in a raw reply
	ParseResponse(raw string) (map[string]any, error)
}

// Factory builds a backend from the full configuration.
type Factory func(cfg *config.Config) (Provider, error)

// Registry maps provider names to factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry returns a registry with the openai and gemini backends registered.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register(OpenAIName, func(cfg *config.Config) (Provider, error) {
		p, err := NewOpenAIProvider(cfg.Providers.OpenAI)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	r.Register(GeminiName, func(cfg *config.Config) (Provider, error) {
		p, err := NewGeminiProvider(context.Background(), cfg.Providers.Gemini)
		if err != nil {
			return nil, err
		}
		return p, nil
	})
	return r
}

// Register adds or replaces the factory for name.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalize(name)] = factory
}

// Names lists the registered backends in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the backend named by cfg.Providers.Selected.
func (r *Registry) New(cfg *config.Config) (Provider, error) {
	name := normalize(cfg.Providers.Selected)
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnsupportedError{Name: cfg.Providers.Selected}
	}
	return factory(cfg)
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
