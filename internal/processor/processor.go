package processor

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/cache"
	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/pipeline"
	"codeberg.org/snonux/dictlookup/internal/prompt"
	"codeberg.org/snonux/dictlookup/internal/render"
)

// GrammarPrefix marks a request as a grammar check.
const GrammarPrefix = "~"

// Fetcher runs the calls of one lookup.
type Fetcher interface {
	Fetch(ctx context.Context, text string, f pipeline.Features) pipeline.Results
}

// Processor handles the main lookup logic
type Processor struct {
	fetcher  Fetcher
	renderer *render.Renderer
	cache    *cache.Cache
	settings config.Settings
	logger   *zap.Logger
}

// NewProcessor creates a processor. settings is captured by value.
func NewProcessor(fetcher Fetcher, renderer *render.Renderer, results *cache.Cache, settings config.Settings, logger *zap.Logger) *Processor {
	return &Processor{
		fetcher:  fetcher,
		renderer: renderer,
		cache:    results,
		settings: settings,
		logger:   logger,
	}
}

// LookupFeatures maps settings onto a regular lookup. Grammar check is
// never part of it.
func LookupFeatures(s config.Settings) pipeline.Features {
	return pipeline.Features{
		Translation: s.TranslationEnabled,
		TTS:         s.TTSEnabled,
		Analysis:    s.AnalysisEnabled,
	}
}

// RefreshFeatures maps settings onto a refresh, which honours the grammar
// check setting too.
func RefreshFeatures(s config.Settings) pipeline.Features {
	f := LookupFeatures(s)
	f.GrammarCheck = s.GrammarCheckEnabled
	return f
}

// Worth reports whether text should be looked up at all. English needs at
// least two words; single words are left to the dictionaries.
func Worth(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}
	if prompt.DetectLanguage(text) == prompt.English {
		return prompt.WordCount(text) >= 2
	}
	return true
}

// Lookup serves a popup request. A leading GrammarPrefix turns it into a
// grammar check. An empty page means there was nothing to look up.
func (p *Processor) Lookup(ctx context.Context, text string) (string, error) {
	if rest, ok := strings.CutPrefix(text, GrammarPrefix); ok {
		return p.GrammarCheck(ctx, strings.TrimLeft(rest, " \t"))
	}

	if !Worth(text) {
		p.logger.Debug("lookup skipped", zap.String("text", text))
		return "", nil
	}
	return p.Process(ctx, text, LookupFeatures(p.settings), false)
}

// Refresh recomputes the page for text and replaces the cached copy.
func (p *Processor) Refresh(ctx context.Context, text string) (string, error) {
	return p.Process(ctx, text, RefreshFeatures(p.settings), true)
}

// Process returns the lookup page for text and f through the cache.
func (p *Processor) Process(ctx context.Context, text string, f pipeline.Features, forceRefresh bool) (string, error) {
	return p.cache.GetOrCompute(ctx, text, f, forceRefresh, func(ctx context.Context) (string, error) {
		p.logger.Info("cache miss",
			zap.String("key", cache.Key(text, f)),
			zap.Bool("refresh", forceRefresh))
		return p.Render(ctx, text, f)
	})
}

// Render fetches and renders a lookup page without consulting the cache.
func (p *Processor) Render(ctx context.Context, text string, f pipeline.Features) (string, error) {
	results := p.fetcher.Fetch(ctx, text, f)
	return p.renderer.Lookup(render.LookupView{
		Text:          text,
		Merged:        pipeline.Merge(results, f),
		Results:       results,
		GrammarActive: f.GrammarCheck,
	})
}

// GrammarCheck renders the grammar page for text. It is never cached.
func (p *Processor) GrammarCheck(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}
	results := p.fetcher.Fetch(ctx, text, pipeline.GrammarOnly())
	return p.renderer.GrammarCheck(text, results.GrammarCheck)
}
