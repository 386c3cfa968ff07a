package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Analyzer produces the decoded text payloads.
type Analyzer interface {
	Translation(ctx context.Context, text string) (map[string]any, error)
	Analysis(ctx context.Context, text string) (map[string]any, error)
	GrammarCheck(ctx context.Context, text string) (map[string]any, error)
}

// Synthesizer turns text into an audio file.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) (path string, seconds float64, err error)
}

// Dispatcher runs the enabled calls of a lookup concurrently.
type Dispatcher struct {
	analyzer Analyzer
	synth    Synthesizer
	timeout  time.Duration
	logger   *zap.Logger
}

// NewDispatcher creates a dispatcher. synth may be nil, which disables audio.
// A non-positive timeout means calls are bounded only by the caller's context.
func NewDispatcher(analyzer Analyzer, synth Synthesizer, timeout time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		analyzer: analyzer,
		synth:    synth,
		timeout:  timeout,
		logger:   logger,
	}
}

// Kinds lists the calls Fetch would start for f.
func (d *Dispatcher) Kinds(f Features) []Kind {
	var kinds []Kind
	if f.Translation {
		kinds = append(kinds, KindTranslation)
	}
	if f.Analysis {
		kinds = append(kinds, KindAnalysis)
	}
	if f.GrammarCheck {
		kinds = append(kinds, KindGrammarCheck)
	}
	if f.TTS && d.synth != nil {
		kinds = append(kinds, KindAudio)
	}
	return kinds
}

// Fetch starts every enabled call, waits for all of them and classifies the
// outcomes. Failures are logged and leave their slot empty.
func (d *Dispatcher) Fetch(ctx context.Context, text string, f Features) Results {
	kinds := d.Kinds(f)
	outcomes := make([]Outcome, len(kinds))

	var g errgroup.Group
	for i, kind := range kinds {
		g.Go(func() error {
			outcomes[i] = d.run(ctx, kind, text)
			return nil
		})
	}
	_ = g.Wait()

	for _, o := range outcomes {
		if o.Err != nil {
			d.logger.Warn("lookup call failed",
				zap.String("kind", o.Kind.String()),
				zap.Error(o.Err))
		}
	}
	return Classify(outcomes)
}

// run bounds one call by the timeout even when the callee ignores its context.
func (d *Dispatcher) run(ctx context.Context, kind Kind, text string) Outcome {
	if d.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.timeout)
		defer cancel()
	}

	done := make(chan Outcome, 1)
	go func() {
		done <- d.call(ctx, kind, text)
	}()

	select {
	case o := <-done:
		return o
	case <-ctx.Done():
		return Outcome{Kind: kind, Err: fmt.Errorf("%s call: %w", kind, ctx.Err())}
	}
}

func (d *Dispatcher) call(ctx context.Context, kind Kind, text string) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Kind: kind, Err: fmt.Errorf("%s call panicked: %v", kind, r)}
		}
	}()

	start := time.Now()
	out.Kind = kind
	var err error
	switch kind {
	case KindTranslation:
		out.Payload, err = d.analyzer.Translation(ctx, text)
	case KindAnalysis:
		out.Payload, err = d.analyzer.Analysis(ctx, text)
	case KindGrammarCheck:
		out.Payload, err = d.analyzer.GrammarCheck(ctx, text)
	case KindAudio:
		out.AudioPath, out.Seconds, err = d.synth.Synthesize(ctx, text)
		if err != nil {
			return Outcome{Kind: kind, Err: err}
		}
		return out
	default:
		err = fmt.Errorf("unknown call kind %v", kind)
	}
	if err != nil {
		return Outcome{Kind: kind, Err: err}
	}
	out.Seconds = time.Since(start).Seconds()
	return out
}
