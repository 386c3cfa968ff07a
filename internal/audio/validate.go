package audio

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxInputRunes is the longest text the speech endpoint accepts.
const MaxInputRunes = 4096

// ValidateText checks that text has something to speak and fits one request
func ValidateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("text cannot be empty")
	}

	if n := utf8.RuneCountInString(text); n > MaxInputRunes {
		return fmt.Errorf("text too long for speech synthesis: %d characters (max %d)", n, MaxInputRunes)
	}

	return nil
}
