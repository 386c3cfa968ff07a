package render

import (
	"html"
	"html/template"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/snonux/dictlookup/internal/pipeline"
)

// Highlight escapes text and wraps every occurrence of an entry word in a
// clickable term carrying its definition. Matching ignores case and
// requires word boundaries except next to Han characters, which are not
// space separated.
func Highlight(text string, words []pipeline.WordEntry) template.HTML {
	pattern := wordPattern(words)
	if pattern == nil {
		return template.HTML(html.EscapeString(text))
	}

	definitions := make(map[string]string, len(words))
	for _, w := range words {
		key := strings.ToLower(w.Word)
		if _, ok := definitions[key]; !ok {
			definitions[key] = w.Definition
		}
	}

	var b strings.Builder
	last := 0
	for _, loc := range pattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		if !bounded(text, start, end) {
			continue
		}
		b.WriteString(html.EscapeString(text[last:start]))
		match := text[start:end]
		b.WriteString(termLink(match, definitions[strings.ToLower(match)]))
		last = end
	}
	b.WriteString(html.EscapeString(text[last:]))

	return template.HTML(b.String())
}

func termLink(word, definition string) string {
	return `<a href="#" class="highlighted-term" data-definition="` +
		html.EscapeString(definition) + `">` + html.EscapeString(word) + `</a>`
}

// wordPattern builds one alternation over all entry words, longest first so
// that phrases win over the words they contain.
func wordPattern(words []pipeline.WordEntry) *regexp.Regexp {
	seen := make(map[string]bool, len(words))
	var alts []string
	for _, w := range words {
		word := strings.TrimSpace(w.Word)
		key := strings.ToLower(word)
		if word == "" || seen[key] {
			continue
		}
		seen[key] = true
		alts = append(alts, word)
	}
	if len(alts) == 0 {
		return nil
	}

	sort.SliceStable(alts, func(i, j int) bool {
		return utf8.RuneCountInString(alts[i]) > utf8.RuneCountInString(alts[j])
	})
	for i, a := range alts {
		alts[i] = regexp.QuoteMeta(a)
	}

	return regexp.MustCompile(`(?i)(?:` + strings.Join(alts, "|") + `)`)
}

func bounded(text string, start, end int) bool {
	if start > 0 {
		before, _ := utf8.DecodeLastRuneInString(text[:start])
		first, _ := utf8.DecodeRuneInString(text[start:end])
		if joins(before, first) {
			return false
		}
	}
	if end < len(text) {
		lastRune, _ := utf8.DecodeLastRuneInString(text[start:end])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if joins(lastRune, after) {
			return false
		}
	}
	return true
}

// joins reports whether two adjacent runes belong to the same word.
func joins(a, b rune) bool {
	if unicode.Is(unicode.Han, a) || unicode.Is(unicode.Han, b) {
		return false
	}
	return isWordRune(a) && isWordRune(b)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
