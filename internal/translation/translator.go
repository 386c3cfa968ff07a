package translation

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/prompt"
	"codeberg.org/snonux/dictlookup/internal/provider"
)

// Service turns lookups into prompts and decodes the model replies.
type Service struct {
	provider provider.Provider
	logger   *zap.Logger
}

// NewService creates a new translation service
func NewService(p provider.Provider, logger *zap.Logger) *Service {
	return &Service{
		provider: p,
		logger:   logger,
	}
}

// Provider returns the backend in use.
func (s *Service) Provider() provider.Provider {
	return s.provider
}

// Translation translates text. The reply is guaranteed to carry "Translation".
func (s *Service) Translation(ctx context.Context, text string) (map[string]any, error) {
	return s.generate(ctx, "translation", prompt.Translation(text), "Translation")
}

// Analysis extracts vocabulary. The reply is guaranteed to carry "Words".
func (s *Service) Analysis(ctx context.Context, text string) (map[string]any, error) {
	return s.generate(ctx, "analysis", prompt.Analysis(text), "Words")
}

// GrammarCheck corrects text. The reply is guaranteed to carry "CorrectedSentence".
func (s *Service) GrammarCheck(ctx context.Context, text string) (map[string]any, error) {
	return s.generate(ctx, "grammar check", prompt.GrammarCheck(text), "CorrectedSentence")
}

func (s *Service) generate(ctx context.Context, what, p, requiredKey string) (map[string]any, error) {
	raw, err := s.provider.GenerateContent(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", what, err)
	}

	data, err := s.provider.ParseResponse(raw)
	if err != nil {
		s.logger.Debug("unparseable model reply",
			zap.String("call", what),
			zap.String("provider", s.provider.Name()),
			zap.String("raw", raw))
		return nil, fmt.Errorf("%s reply: %w", what, err)
	}

	if _, ok := data[requiredKey]; !ok {
		return nil, &provider.ParseError{Raw: raw, Err: fmt.Errorf("reply lacks %q", requiredKey)}
	}
	return data, nil
}
