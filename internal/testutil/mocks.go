package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/snonux/dictlookup/internal/provider"
)

// Call names recorded by the fakes.
const (
	CallTranslation  = "translation"
	CallAnalysis     = "analysis"
	CallGrammarCheck = "grammar_check"
	CallAudio        = "audio"
)

// concurrency tracks the peak number of simultaneous calls.
type concurrency struct {
	inFlight atomic.Int32
	peak     atomic.Int32
}

func (c *concurrency) enter() {
	n := c.inFlight.Add(1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			return
		}
	}
}

func (c *concurrency) leave() {
	c.inFlight.Add(-1)
}

// Peak returns the highest number of calls that were in flight at once.
func (c *concurrency) Peak() int {
	return int(c.peak.Load())
}

// FakeAnalyzer returns canned payloads per call kind.
type FakeAnalyzer struct {
	concurrency

	Payloads map[string]map[string]any
	Errors   map[string]error
	Panics   map[string]bool
	// Delay is applied to every call; a call blocks until ctx is done when Hang is set.
	Delay time.Duration
	Hang  map[string]bool

	mu    sync.Mutex
	calls []string
}

// Translation returns the canned translation payload
func (f *FakeAnalyzer) Translation(ctx context.Context, text string) (map[string]any, error) {
	return f.do(ctx, CallTranslation)
}

// Analysis returns the canned analysis payload
func (f *FakeAnalyzer) Analysis(ctx context.Context, text string) (map[string]any, error) {
	return f.do(ctx, CallAnalysis)
}

// GrammarCheck returns the canned grammar payload
func (f *FakeAnalyzer) GrammarCheck(ctx context.Context, text string) (map[string]any, error) {
	return f.do(ctx, CallGrammarCheck)
}

// Calls returns the recorded call names in start order.
func (f *FakeAnalyzer) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *FakeAnalyzer) do(ctx context.Context, name string) (map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	f.enter()
	defer f.leave()

	if f.Hang[name] {
		<-ctx.Done()
		// Ignore cancellation for a while like a misbehaving client would.
		time.Sleep(50 * time.Millisecond)
		return nil, ctx.Err()
	}
	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	if f.Panics[name] {
		panic("fake " + name + " exploded")
	}
	if err, ok := f.Errors[name]; ok {
		return nil, err
	}
	if p, ok := f.Payloads[name]; ok {
		return p, nil
	}
	return nil, fmt.Errorf("no fake payload for %s", name)
}

// FakeSynthesizer writes a small file per call into Dir.
type FakeSynthesizer struct {
	concurrency

	Dir     string
	Err     error
	Seconds float64
	Delay   time.Duration

	count atomic.Int32
}

// Synthesize writes a fake mp3 and returns its path
func (f *FakeSynthesizer) Synthesize(ctx context.Context, text string) (string, float64, error) {
	f.enter()
	defer f.leave()
	f.count.Add(1)

	if f.Delay > 0 {
		time.Sleep(f.Delay)
	}
	if f.Err != nil {
		return "", 0, f.Err
	}
	if text == "" {
		return "", 0, errors.New("empty text")
	}

	path := filepath.Join(f.Dir, fmt.Sprintf("fake-%d.mp3", f.count.Load()))
	if err := os.WriteFile(path, []byte{0xFF, 0xFB, 0x90, 0x00}, 0644); err != nil {
		return "", 0, err
	}
	return path, f.Seconds, nil
}

// Count returns the number of Synthesize calls.
func (f *FakeSynthesizer) Count() int {
	return int(f.count.Load())
}

// FakeProvider answers every prompt through Reply.
type FakeProvider struct {
	NameValue string
	Reply     func(prompt string) (string, error)

	count atomic.Int32
}

var _ provider.Provider = (*FakeProvider)(nil)

// Name returns the fake provider name
func (f *FakeProvider) Name() string {
	if f.NameValue == "" {
		return "fake"
	}
	return f.NameValue
}

// GenerateContent returns the scripted reply
func (f *FakeProvider) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.count.Add(1)
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if f.Reply == nil {
		return "", &provider.Error{Provider: f.Name(), Err: errors.New("no reply scripted")}
	}
	return f.Reply(prompt)
}

// ParseResponse uses the shared extraction parser
func (f *FakeProvider) ParseResponse(raw string) (map[string]any, error) {
	return provider.ParseResponse(raw)
}

// Count returns the number of GenerateContent calls.
func (f *FakeProvider) Count() int {
	return int(f.count.Load())
}
