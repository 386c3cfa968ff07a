package server

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/config"
)

// App holds the active service set.
type App struct {
	store  *config.Store
	build  Builder
	logger *zap.Logger

	mu       sync.Mutex // serializes updates
	services atomic.Pointer[Services]
}

// NewApp builds the initial service set from the store's configuration.
func NewApp(ctx context.Context, store *config.Store, build Builder, logger *zap.Logger) (*App, error) {
	services, err := build(ctx, store.Config())
	if err != nil {
		return nil, err
	}

	a := &App{store: store, build: build, logger: logger}
	a.services.Store(services)
	return a, nil
}

// Services returns the active set. Callers keep using the returned set for
// the whole request.
func (a *App) Services() *Services {
	return a.services.Load()
}

// ErrNoSettings is returned for an update without any fields.
var ErrNoSettings = errors.New("no data provided")

// UpdateSettings validates u against the current configuration, builds
// the new service set, persists the configuration and swaps the set in.
// Nothing changes when any step fails.
func (a *App) UpdateSettings(ctx context.Context, u SettingsUpdate) (*Services, error) {
	if u == (SettingsUpdate{}) {
		return nil, ErrNoSettings
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	candidate := a.store.Config().Clone()
	u.Apply(candidate)
	if err := a.store.Validate(candidate); err != nil {
		return nil, err
	}

	services, err := a.build(ctx, candidate)
	if err != nil {
		return nil, err
	}

	cfg, err := a.store.Update(u.Apply)
	if err != nil {
		return nil, err
	}
	services.Config = cfg

	a.services.Store(services)
	a.logger.Info("settings updated",
		zap.String("provider", cfg.Providers.Selected),
		zap.Bool("translation", cfg.Settings.TranslationEnabled),
		zap.Bool("tts", cfg.Settings.TTSEnabled),
		zap.Bool("analysis", cfg.Settings.AnalysisEnabled),
		zap.Bool("grammar_check", cfg.Settings.GrammarCheckEnabled))
	return services, nil
}
