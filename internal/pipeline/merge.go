package pipeline

// Classify routes tagged outcomes to their slots. Failed outcomes are skipped,
// so their slot stays empty with zero seconds.
func Classify(outcomes []Outcome) Results {
	var r Results
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		switch o.Kind {
		case KindTranslation:
			r.Translation = Timed{Payload: o.Payload, Seconds: o.Seconds}
		case KindAnalysis:
			r.Analysis = Timed{Payload: o.Payload, Seconds: o.Seconds}
		case KindGrammarCheck:
			r.GrammarCheck = Timed{Payload: o.Payload, Seconds: o.Seconds}
		case KindAudio:
			r.Audio = Audio{Path: o.AudioPath, Seconds: o.Seconds}
		}
	}
	return r
}

// Untagged is a completed value whose kind is unknown: a decoded payload
// map, or a string audio path.
type Untagged struct {
	Value   any
	Seconds float64
}

// KindOf infers a payload's kind from its keys, checked in the order
// Translation, Words, CorrectedSentence.
func KindOf(payload map[string]any) (Kind, bool) {
	if _, ok := payload["Translation"]; ok {
		return KindTranslation, true
	}
	if _, ok := payload["Words"]; ok {
		return KindAnalysis, true
	}
	if _, ok := payload["CorrectedSentence"]; ok {
		return KindGrammarCheck, true
	}
	return 0, false
}

// ClassifyByShape routes untagged values by their shape. Values of no
// recognizable shape are dropped.
func ClassifyByShape(items []Untagged) Results {
	outcomes := make([]Outcome, 0, len(items))
	for _, it := range items {
		switch v := it.Value.(type) {
		case string:
			outcomes = append(outcomes, Outcome{Kind: KindAudio, AudioPath: v, Seconds: it.Seconds})
		case map[string]any:
			if kind, ok := KindOf(v); ok {
				outcomes = append(outcomes, Outcome{Kind: kind, Payload: v, Seconds: it.Seconds})
			}
		}
	}
	return Classify(outcomes)
}

// Merge combines the translation and analysis payloads. With grammar check
// enabled both the word list and the translation are empty.
func Merge(r Results, f Features) Merged {
	if f.GrammarCheck {
		return Merged{}
	}

	var m Merged
	if f.Translation {
		m.Translation, _ = r.Translation.Payload["Translation"].(string)
	}

	switch {
	case f.Analysis && f.Translation:
		words := WordsFrom(r.Translation.Payload["Words"])
		words = append(words, WordsFrom(r.Analysis.Payload["Words"])...)
		m.Words = Dedup(words)
	case f.Analysis:
		m.Words = WordsFrom(r.Analysis.Payload["Words"])
	case f.Translation:
		m.Words = WordsFrom(r.Translation.Payload["Words"])
	}
	return m
}

// WordsFrom converts a decoded "Words" list. Records without a string word
// are skipped and a missing definition becomes empty.
func WordsFrom(v any) []WordEntry {
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	words := make([]WordEntry, 0, len(list))
	for _, item := range list {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		word, ok := rec["word"].(string)
		if !ok || word == "" {
			continue
		}
		def, _ := rec["definition"].(string)
		words = append(words, WordEntry{Word: word, Definition: def})
	}
	return words
}

// Dedup keeps the first entry for each word, preserving order.
func Dedup(words []WordEntry) []WordEntry {
	seen := make(map[string]struct{}, len(words))
	out := make([]WordEntry, 0, len(words))
	for _, w := range words {
		if _, ok := seen[w.Word]; ok {
			continue
		}
		seen[w.Word] = struct{}{}
		out = append(out, w)
	}
	return out
}
