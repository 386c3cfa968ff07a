package pipeline

import "fmt"

// Features selects which calls a lookup makes.
type Features struct {
	Translation  bool
	TTS          bool
	Analysis     bool
	GrammarCheck bool
}

// GrammarOnly returns the selection used for grammar-check requests.
func GrammarOnly() Features {
	return Features{GrammarCheck: true}
}

// Count reports how many features are enabled.
func (f Features) Count() int {
	n := 0
	for _, on := range []bool{f.Translation, f.TTS, f.Analysis, f.GrammarCheck} {
		if on {
			n++
		}
	}
	return n
}

// Kind tags a call with the slot its result belongs to.
type Kind int

const (
	KindTranslation Kind = iota
	KindAnalysis
	KindAudio
	KindGrammarCheck
)

func (k Kind) String() string {
	switch k {
	case KindTranslation:
		return "translation"
	case KindAnalysis:
		return "analysis"
	case KindAudio:
		return "audio"
	case KindGrammarCheck:
		return "grammar_check"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of one dispatched call. Exactly one of Payload
// (text kinds) or AudioPath (KindAudio) is meaningful when Err is nil.
type Outcome struct {
	Kind      Kind
	Payload   map[string]any
	AudioPath string
	Seconds   float64
	Err       error
}

// Timed is a decoded payload and the wall-clock seconds it took. An empty
// Payload means the call was disabled or failed.
type Timed struct {
	Payload map[string]any
	Seconds float64
}

// Audio is a synthesized file and the seconds synthesis took.
type Audio struct {
	Path    string
	Seconds float64
}

// Results holds the four slots of a lookup.
type Results struct {
	Translation  Timed
	Analysis     Timed
	GrammarCheck Timed
	Audio        Audio
}

// WordEntry is one extracted vocabulary item. Word is the identity.
type WordEntry struct {
	Word       string `json:"word"`
	Definition string `json:"definition"`
}

// Merged is the combined view handed to the renderer.
type Merged struct {
	Translation string
	Words       []WordEntry
}
