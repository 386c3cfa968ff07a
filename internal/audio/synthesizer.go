package audio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Synthesizer writes each utterance to a uniquely named file in one directory.
type Synthesizer struct {
	provider  Provider
	outputDir string
}

// NewSynthesizer creates the output directory and wraps provider.
func NewSynthesizer(provider Provider, outputDir string) (*Synthesizer, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create audio output directory: %w", err)
	}
	return &Synthesizer{provider: provider, outputDir: outputDir}, nil
}

// OutputDir is where synthesized files are written.
func (s *Synthesizer) OutputDir() string {
	return s.outputDir
}

// Synthesize speaks text and returns the file path and elapsed seconds.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) (string, float64, error) {
	start := time.Now()
	path := filepath.Join(s.outputDir, uuid.NewString()+".mp3")

	if err := s.provider.GenerateAudio(ctx, text, path); err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("%s speech synthesis failed: %w", s.provider.Name(), err)
	}
	return path, time.Since(start).Seconds(), nil
}
