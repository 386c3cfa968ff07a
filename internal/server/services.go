package server

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/anki"
	"codeberg.org/snonux/dictlookup/internal/audio"
	"codeberg.org/snonux/dictlookup/internal/cache"
	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/pipeline"
	"codeberg.org/snonux/dictlookup/internal/processor"
	"codeberg.org/snonux/dictlookup/internal/provider"
	"codeberg.org/snonux/dictlookup/internal/render"
	"codeberg.org/snonux/dictlookup/internal/translation"
)

// NoteAdder creates flashcards.
type NoteAdder interface {
	AddNote(ctx context.Context, word, definition, sentence, sentenceTranslation string) (int64, error)
}

// Services is one immutable set of collaborators built from one Config.
type Services struct {
	Config    *config.Config
	Processor *processor.Processor
	Notes     NoteAdder
	Cache     *cache.Cache
	AudioDir  string
}

// Builder creates a service set for cfg.
type Builder func(ctx context.Context, cfg *config.Config) (*Services, error)

// Deps are the long-lived collaborators shared by every service set.
type Deps struct {
	Registry *provider.Registry
	Store    anki.Store
	Logger   *zap.Logger
}

// Builder returns a Builder that wires real services.
func (d Deps) Builder() Builder {
	return func(ctx context.Context, cfg *config.Config) (*Services, error) {
		return NewServices(ctx, cfg, d)
	}
}

// NewServices wires providers, the dispatcher, the renderer and a fresh
// result cache for cfg. Speech synthesis is left out when it is disabled or
// cannot be configured.
func NewServices(ctx context.Context, cfg *config.Config, deps Deps) (*Services, error) {
	logger := deps.Logger

	p, err := deps.Registry.New(cfg)
	if err != nil {
		return nil, err
	}
	analyzer := translation.NewService(provider.NewResilient(p, cfg.Providers.RetryAttempts, logger), logger)

	var synth pipeline.Synthesizer
	if cfg.Settings.TTSEnabled {
		s, err := newSynthesizer(cfg)
		if err != nil {
			logger.Warn("speech synthesis disabled", zap.Error(err))
		} else {
			synth = s
		}
	}

	renderer, err := render.New(cfg)
	if err != nil {
		return nil, err
	}
	results, err := cache.New(cfg.Cache.MaxEntries, cfg.Cache.MaxTextLength)
	if err != nil {
		return nil, err
	}

	dispatcher := pipeline.NewDispatcher(analyzer, synth, cfg.Providers.Timeout(), logger)
	logger.Info("services ready",
		zap.String("provider", p.Name()),
		zap.Bool("audio", synth != nil))

	return &Services{
		Config:    cfg,
		Processor: processor.NewProcessor(dispatcher, renderer, results, cfg.Settings, logger),
		Notes:     anki.NewConnector(cfg.Anki, deps.Store, logger),
		Cache:     results,
		AudioDir:  cfg.Audio.OutputDir,
	}, nil
}

func newSynthesizer(cfg *config.Config) (*audio.Synthesizer, error) {
	p, err := audio.NewProvider(audio.ConfigFrom(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create audio provider: %w", err)
	}
	return audio.NewSynthesizer(p, cfg.Audio.OutputDir)
}
