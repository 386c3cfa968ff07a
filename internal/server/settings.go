package server

import (
	"strings"

	"codeberg.org/snonux/dictlookup/internal/config"
	"codeberg.org/snonux/dictlookup/internal/provider"
)

// SettingsView is the JSON shape of the settings panel.
type SettingsView struct {
	TranslationEnabled  bool   `json:"translationEnabled"`
	TTSEnabled          bool   `json:"ttsEnabled"`
	AnalysisEnabled     bool   `json:"analysisEnabled"`
	GrammarCheckEnabled bool   `json:"grammarCheckEnabled"`
	AutoplayEnabled     bool   `json:"autoplayEnabled"`
	SelectedProvider    string `json:"selectedProvider"`
	APIKey              string `json:"apiKey"`
	BaseURL             string `json:"baseUrl"`
	Model               string `json:"model"`
}

// SettingsUpdate holds the fields a client sent. Absent fields stay as they are.
type SettingsUpdate struct {
	TranslationEnabled  *bool   `json:"translationEnabled"`
	TTSEnabled          *bool   `json:"ttsEnabled"`
	AnalysisEnabled     *bool   `json:"analysisEnabled"`
	GrammarCheckEnabled *bool   `json:"grammarCheckEnabled"`
	AutoplayEnabled     *bool   `json:"autoplayEnabled"`
	SelectedProvider    *string `json:"selectedProvider"`
	APIKey              *string `json:"apiKey"`
	BaseURL             *string `json:"baseUrl"`
	Model               *string `json:"model"`
}

func viewOf(cfg *config.Config) SettingsView {
	v := SettingsView{
		TranslationEnabled:  cfg.Settings.TranslationEnabled,
		TTSEnabled:          cfg.Settings.TTSEnabled,
		AnalysisEnabled:     cfg.Settings.AnalysisEnabled,
		GrammarCheckEnabled: cfg.Settings.GrammarCheckEnabled,
		AutoplayEnabled:     cfg.Audio.Autoplay,
		SelectedProvider:    cfg.Providers.Selected,
	}
	switch selected(cfg) {
	case provider.OpenAIName:
		v.APIKey = cfg.Providers.OpenAI.APIKey
		v.BaseURL = cfg.Providers.OpenAI.BaseURL
		v.Model = cfg.Providers.OpenAI.Model
	case provider.GeminiName:
		v.APIKey = cfg.Providers.Gemini.APIKey
		v.Model = cfg.Providers.Gemini.Model
	}
	return v
}

// Apply writes the update into cfg. Enabling grammar check turns the
// other three features off. Provider credentials go to the provider that
// is selected after the update.
func (u SettingsUpdate) Apply(cfg *config.Config) {
	setBool(&cfg.Settings.TranslationEnabled, u.TranslationEnabled)
	setBool(&cfg.Settings.TTSEnabled, u.TTSEnabled)
	setBool(&cfg.Settings.AnalysisEnabled, u.AnalysisEnabled)
	setBool(&cfg.Audio.Autoplay, u.AutoplayEnabled)

	if u.GrammarCheckEnabled != nil {
		cfg.Settings.GrammarCheckEnabled = *u.GrammarCheckEnabled
		if *u.GrammarCheckEnabled {
			cfg.Settings.TranslationEnabled = false
			cfg.Settings.TTSEnabled = false
			cfg.Settings.AnalysisEnabled = false
		}
	}

	if u.SelectedProvider != nil {
		cfg.Providers.Selected = strings.TrimSpace(*u.SelectedProvider)
	}

	switch selected(cfg) {
	case provider.OpenAIName:
		setString(&cfg.Providers.OpenAI.APIKey, u.APIKey)
		setString(&cfg.Providers.OpenAI.BaseURL, u.BaseURL)
		setString(&cfg.Providers.OpenAI.Model, u.Model)
	case provider.GeminiName:
		setString(&cfg.Providers.Gemini.APIKey, u.APIKey)
		setString(&cfg.Providers.Gemini.Model, u.Model)
	}
}

func selected(cfg *config.Config) string {
	return strings.ToLower(strings.TrimSpace(cfg.Providers.Selected))
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
