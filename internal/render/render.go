package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"path/filepath"

	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/pipeline"
)

//go:embed templates/*.html static/*
var assets embed.FS

// DefaultAudioPrefix is the URL path the server serves audio files under.
const DefaultAudioPrefix = "/audio/"

// AnkiSettings is handed to the page script as JSON.
type AnkiSettings struct {
	DeckName       string            `json:"deckName"`
	ModelName      string            `json:"modelName"`
	Fields         map[string]string `json:"fields"`
	AnkiConnectURL string            `json:"ankiConnectUrl"`
	APIKey         string            `json:"api_key"`
}

// LookupView is everything a lookup page shows.
type LookupView struct {
	Text          string
	Merged        pipeline.Merged
	Results       pipeline.Results
	GrammarActive bool
}

// Renderer executes the embedded page templates.
type Renderer struct {
	pages           *template.Template
	css             template.CSS
	js              template.JS
	showTranslation bool
	showTiming      bool
	autoplay        bool
	anki            AnkiSettings
	audioPrefix     string
}

// Option customizes a Renderer.
type Option func(*Renderer)

// WithAudioPrefix sets the URL prefix for audio sources. An empty prefix
// keeps the file path as is, which suits pages written to disk.
func WithAudioPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.audioPrefix = prefix
	}
}

// New parses the templates and captures the presentation settings of cfg.
func New(cfg *config.Config, opts ...Option) (*Renderer, error) {
	pages, err := template.New("pages").Funcs(template.FuncMap{
		"seconds": func(s float64) string { return fmt.Sprintf("%.2f", s) },
	}).ParseFS(assets, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	css, err := assets.ReadFile("static/styles.css")
	if err != nil {
		return nil, fmt.Errorf("failed to read styles: %w", err)
	}
	js, err := assets.ReadFile("static/scripts.js")
	if err != nil {
		return nil, fmt.Errorf("failed to read scripts: %w", err)
	}

	r := &Renderer{
		pages:           pages,
		css:             template.CSS(css),
		js:              template.JS(js),
		showTranslation: cfg.HTML.ShowTranslation,
		showTiming:      cfg.HTML.ShowTimingInfo,
		autoplay:        cfg.Audio.Autoplay,
		anki: AnkiSettings{
			DeckName:       cfg.Anki.DeckName,
			ModelName:      cfg.Anki.ModelName,
			Fields:         cfg.Anki.Fields,
			AnkiConnectURL: cfg.Anki.ConnectURL,
			APIKey:         cfg.Anki.APIKey,
		},
		audioPrefix: DefaultAudioPrefix,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

type lookupData struct {
	CSS             template.CSS
	JS              template.JS
	AnkiConfig      AnkiSettings
	HighlightedText template.HTML
	Translation     string
	Words           []pipeline.WordEntry
	AudioSrc        string
	Autoplay        bool
	ShowTranslation bool
	ShowTimingInfo  bool
	TranslationTime float64
	AnalysisTime    float64
	AudioTime       float64
	GrammarTime     float64
	OriginalText    string
	CorrectedText   string
	CorrectionGuide string
}

// Lookup renders the main page for one lookup.
func (r *Renderer) Lookup(v LookupView) (string, error) {
	data := lookupData{
		CSS:             r.css,
		JS:              r.js,
		AnkiConfig:      r.anki,
		HighlightedText: Highlight(v.Text, v.Merged.Words),
		Translation:     v.Merged.Translation,
		Words:           v.Merged.Words,
		AudioSrc:        r.audioSrc(v.Results.Audio.Path),
		Autoplay:        r.autoplay,
		ShowTranslation: r.showTranslation,
		ShowTimingInfo:  r.showTiming,
		TranslationTime: v.Results.Translation.Seconds,
		AnalysisTime:    v.Results.Analysis.Seconds,
		AudioTime:       v.Results.Audio.Seconds,
		GrammarTime:     v.Results.GrammarCheck.Seconds,
	}
	if v.GrammarActive {
		data.OriginalText = v.Text
		data.CorrectedText = stringField(v.Results.GrammarCheck.Payload, "CorrectedSentence")
		data.CorrectionGuide = stringField(v.Results.GrammarCheck.Payload, "CorrectionGuide")
	}
	return r.execute("lookup.html", data)
}

type grammarData struct {
	CSS             template.CSS
	JS              template.JS
	OriginalText    string
	CorrectedText   string
	CorrectionGuide string
	ShowTimingInfo  bool
	GrammarTime     float64
}

// GrammarCheck renders the page for a grammar-check request.
func (r *Renderer) GrammarCheck(original string, result pipeline.Timed) (string, error) {
	return r.execute("grammar.html", grammarData{
		CSS:             r.css,
		JS:              r.js,
		OriginalText:    original,
		CorrectedText:   stringField(result.Payload, "CorrectedSentence"),
		CorrectionGuide: stringField(result.Payload, "CorrectionGuide"),
		ShowTimingInfo:  r.showTiming,
		GrammarTime:     result.Seconds,
	})
}

func (r *Renderer) execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := r.pages.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.String(), nil
}

func (r *Renderer) audioSrc(path string) string {
	if path == "" || r.audioPrefix == "" {
		return path
	}
	return r.audioPrefix + filepath.Base(path)
}

func stringField(payload map[string]any, key string) string {
	s, _ := payload[key].(string)
	return s
}
