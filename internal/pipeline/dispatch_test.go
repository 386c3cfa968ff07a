package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/testutil"
)

func newFakes(t *testing.T) (*testutil.FakeAnalyzer, *testutil.FakeSynthesizer) {
	t.Helper()
	analyzer := &testutil.FakeAnalyzer{
		Payloads: map[string]map[string]any{
			testutil.CallTranslation:  testutil.TranslationPayload("I like apples"),
			testutil.CallAnalysis:     testutil.AnalysisPayload([2]string{"喜欢", "to like"}),
			testutil.CallGrammarCheck: testutil.GrammarPayload("She goes.", "1. **Agreement**"),
		},
		Delay: 30 * time.Millisecond,
	}
	synth := &testutil.FakeSynthesizer{Dir: t.TempDir(), Seconds: 0.25, Delay: 30 * time.Millisecond}
	return analyzer, synth
}

func TestDispatcher_FetchCounts(t *testing.T) {
	tests := []struct {
		name     string
		features Features
	}{
		{"none", Features{}},
		{"translation", Features{Translation: true}},
		{"translation and analysis", Features{Translation: true, Analysis: true}},
		{"three", Features{Translation: true, Analysis: true, TTS: true}},
		{"all four", Features{Translation: true, Analysis: true, TTS: true, GrammarCheck: true}},
		{"grammar only", GrammarOnly()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer, synth := newFakes(t)
			d := NewDispatcher(analyzer, synth, time.Second, zap.NewNop())

			r := d.Fetch(context.Background(), "我喜欢苹果", tt.features)

			k := tt.features.Count()
			assert.Len(t, d.Kinds(tt.features), k)
			assert.Equal(t, k, len(analyzer.Calls())+synth.Count())
			if k > 1 {
				assert.Equal(t, k, analyzer.Peak()+synth.Peak(), "calls must run concurrently")
			}

			assert.Equal(t, tt.features.Translation, r.Translation.Payload != nil)
			assert.Equal(t, tt.features.Analysis, r.Analysis.Payload != nil)
			assert.Equal(t, tt.features.GrammarCheck, r.GrammarCheck.Payload != nil)
			assert.Equal(t, tt.features.TTS, r.Audio.Path != "")

			if !tt.features.Translation {
				assert.Zero(t, r.Translation.Seconds)
			}
			if !tt.features.TTS {
				assert.Zero(t, r.Audio.Seconds)
			}
		})
	}
}

func TestDispatcher_PartialFailure(t *testing.T) {
	analyzer, synth := newFakes(t)
	analyzer.Errors = map[string]error{testutil.CallAnalysis: errors.New("upstream 500")}
	synth.Err = errors.New("tts down")
	d := NewDispatcher(analyzer, synth, time.Second, zap.NewNop())

	r := d.Fetch(context.Background(), "我喜欢苹果", Features{Translation: true, Analysis: true, TTS: true})

	assert.Equal(t, "I like apples", r.Translation.Payload["Translation"])
	assert.Greater(t, r.Translation.Seconds, 0.0)
	assert.Empty(t, r.Analysis.Payload)
	assert.Zero(t, r.Analysis.Seconds)
	assert.Empty(t, r.Audio.Path)
	assert.Zero(t, r.Audio.Seconds)
}

func TestDispatcher_AllFail(t *testing.T) {
	analyzer := &testutil.FakeAnalyzer{}
	d := NewDispatcher(analyzer, nil, time.Second, zap.NewNop())

	r := d.Fetch(context.Background(), "x y", Features{Translation: true, Analysis: true})
	assert.Equal(t, Results{}, r)
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	analyzer, synth := newFakes(t)
	analyzer.Panics = map[string]bool{testutil.CallTranslation: true}
	d := NewDispatcher(analyzer, synth, time.Second, zap.NewNop())

	r := d.Fetch(context.Background(), "x y", Features{Translation: true, Analysis: true})
	assert.Empty(t, r.Translation.Payload)
	assert.NotEmpty(t, r.Analysis.Payload)
}

func TestDispatcher_Timeout(t *testing.T) {
	analyzer, synth := newFakes(t)
	analyzer.Hang = map[string]bool{testutil.CallAnalysis: true}
	d := NewDispatcher(analyzer, synth, 100*time.Millisecond, zap.NewNop())

	start := time.Now()
	r := d.Fetch(context.Background(), "x y", Features{Translation: true, Analysis: true})
	elapsed := time.Since(start)

	assert.Less(t, elapsed, time.Second)
	assert.NotEmpty(t, r.Translation.Payload)
	assert.Empty(t, r.Analysis.Payload)
}

func TestDispatcher_NoSynthesizer(t *testing.T) {
	analyzer, _ := newFakes(t)
	d := NewDispatcher(analyzer, nil, time.Second, zap.NewNop())

	assert.Equal(t, []Kind{KindTranslation}, d.Kinds(Features{Translation: true, TTS: true}))

	r := d.Fetch(context.Background(), "x y", Features{Translation: true, TTS: true})
	assert.Empty(t, r.Audio.Path)
}

func TestRun_UnknownKind(t *testing.T) {
	analyzer, _ := newFakes(t)
	d := NewDispatcher(analyzer, nil, 0, zap.NewNop())

	o := d.run(context.Background(), Kind(42), "x")
	require.Error(t, o.Err)
	assert.Contains(t, o.Err.Error(), "kind(42)")
}
