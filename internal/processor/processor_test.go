package processor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal/cache"
	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/pipeline"
	"codeberg.org/snonux/dictlookup/internal/render"
	"codeberg.org/snonux/dictlookup/internal/testutil"
)

func newTestProcessor(t *testing.T, settings config.Settings) (*Processor, *testutil.FakeAnalyzer, *cache.Cache) {
	t.Helper()

	analyzer := &testutil.FakeAnalyzer{
		Payloads: map[string]map[string]any{
			testutil.CallTranslation: testutil.TranslationPayload("I like apples",
				[2]string{"苹果", "apple"}),
			testutil.CallAnalysis: testutil.AnalysisPayload(
				[2]string{"喜欢", "to like"},
				[2]string{"苹果", "apple (fruit)"}),
			testutil.CallGrammarCheck: testutil.GrammarPayload("He goes home.", "Use the third person."),
		},
	}

	renderer, err := render.New(&config.Config{HTML: config.HTMLConfig{ShowTranslation: true}})
	require.NoError(t, err)
	results, err := cache.New(100, 100)
	require.NoError(t, err)

	dispatcher := pipeline.NewDispatcher(analyzer, nil, 0, zap.NewNop())
	return NewProcessor(dispatcher, renderer, results, settings, zap.NewNop()), analyzer, results
}

func TestFeatures(t *testing.T) {
	s := config.Settings{TranslationEnabled: true, TTSEnabled: true, GrammarCheckEnabled: true}

	assert.Equal(t, pipeline.Features{Translation: true, TTS: true}, LookupFeatures(s))
	assert.Equal(t, pipeline.Features{Translation: true, TTS: true, GrammarCheck: true}, RefreshFeatures(s))
}

func TestWorth(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"", false},
		{"   ", false},
		{"serendipity", false},
		{"kick the bucket", true},
		{"苹果", true},
		{"我喜欢苹果", true},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, Worth(tt.text))
		})
	}
}

func TestLookup_ChineseEndToEnd(t *testing.T) {
	p, analyzer, results := newTestProcessor(t, config.Settings{TranslationEnabled: true, AnalysisEnabled: true})
	ctx := context.Background()

	page, err := p.Lookup(ctx, "我喜欢苹果")
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{testutil.CallTranslation, testutil.CallAnalysis}, analyzer.Calls())
	assert.Contains(t, page, "I like apples")
	assert.Contains(t, page, `data-definition="to like">喜欢</a>`)
	assert.Contains(t, page, `data-definition="apple">苹果</a>`, "translation definition wins")
	assert.Equal(t, []string{"我喜欢苹果-true-false-true-false"}, results.Keys())

	again, err := p.Lookup(ctx, "我喜欢苹果")
	require.NoError(t, err)
	assert.Equal(t, page, again)
	assert.Len(t, analyzer.Calls(), 2, "cached lookup makes no calls")
}

func TestLookup_SkipsSingleEnglishWord(t *testing.T) {
	p, analyzer, results := newTestProcessor(t, config.Settings{TranslationEnabled: true})

	for _, text := range []string{"", "apple"} {
		page, err := p.Lookup(context.Background(), text)
		require.NoError(t, err)
		assert.Empty(t, page)
	}
	assert.Empty(t, analyzer.Calls())
	assert.Equal(t, 0, results.Len())
}

func TestLookup_GrammarPrefix(t *testing.T) {
	p, analyzer, results := newTestProcessor(t, config.Settings{TranslationEnabled: true, AnalysisEnabled: true})

	page, err := p.Lookup(context.Background(), "~  he go home")
	require.NoError(t, err)

	assert.Equal(t, []string{testutil.CallGrammarCheck}, analyzer.Calls())
	assert.Contains(t, page, "he go home")
	assert.NotContains(t, page, "~")
	assert.Contains(t, page, "He goes home.")
	assert.Equal(t, 0, results.Len(), "grammar checks are not cached")
}

func TestLookup_EmptyGrammarPrefix(t *testing.T) {
	p, analyzer, _ := newTestProcessor(t, config.Settings{})

	page, err := p.Lookup(context.Background(), "~ ")
	require.NoError(t, err)
	assert.Empty(t, page)
	assert.Empty(t, analyzer.Calls())
}

func TestRefresh(t *testing.T) {
	p, analyzer, results := newTestProcessor(t, config.Settings{TranslationEnabled: true, GrammarCheckEnabled: true})
	ctx := context.Background()

	_, err := p.Refresh(ctx, "he go home")
	require.NoError(t, err)
	_, err = p.Refresh(ctx, "he go home")
	require.NoError(t, err)

	assert.Len(t, analyzer.Calls(), 4, "every refresh recomputes")
	assert.Equal(t, []string{"he go home-true-false-false-true"}, results.Keys())
}

func TestRender_AllCallsFailed(t *testing.T) {
	p, analyzer, _ := newTestProcessor(t, config.Settings{})
	analyzer.Payloads = nil

	page, err := p.Render(context.Background(), "two words", pipeline.Features{Translation: true, Analysis: true})
	require.NoError(t, err)
	assert.Contains(t, page, "two words")
	assert.NotContains(t, page, "highlighted-term\"")
}
