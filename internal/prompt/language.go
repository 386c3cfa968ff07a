package prompt

import "strings"

// Language is the detected source language of a lookup.
type Language string

const (
	English Language = "English"
	Chinese Language = "Chinese"
)

// chineseRatio is the share of CJK runes above which text counts as Chinese.
const chineseRatio = 0.1

// DetectLanguage classifies text by the share of CJK Unified Ideographs.
func DetectLanguage(text string) Language {
	total, cjk := 0, 0
	for _, r := range text {
		total++
		if r >= '\u4e00' && r <= '\u9fff' {
			cjk++
		}
	}
	if total == 0 {
		return English
	}
	if float64(cjk)/float64(total) > chineseRatio {
		return Chinese
	}
	return English
}

// WordCount counts whitespace-separated words.
func WordCount(text string) int {
	return len(strings.Fields(text))
}
