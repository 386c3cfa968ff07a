package internal

import (
	"strings"
	"unicode"
)

// maxFilenameRunes caps generated file names so long selections stay usable on disk.
const maxFilenameRunes = 64

// SanitizeFilename creates a safe filename from a string
func SanitizeFilename(s string) string {
	var b strings.Builder
	n := 0
	for _, r := range strings.TrimSpace(s) {
		if n == maxFilenameRunes {
			break
		}
		if isAlphaNumeric(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
		n++
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}

// isAlphaNumeric accepts letters and digits of any script, CJK included
func isAlphaNumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
