package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// CreateTestFile creates a test file with content
func CreateTestFile(t *testing.T, path string, content []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create directory for test file: %v", err)
	}

	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to create test file %s: %v", path, err)
	}
}

// AssertFileExists checks if a file exists
func AssertFileExists(t *testing.T, path string) {
	t.Helper()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("Expected file to exist: %s", path)
	}
}

// AssertFileContains checks if a file contains a substring
func AssertFileContains(t *testing.T, path string, substring string) {
	t.Helper()

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}

	if !strings.Contains(string(content), substring) {
		t.Errorf("File %s does not contain expected substring: %q", path, substring)
	}
}

// TranslationPayload builds a decoded translation reply.
func TranslationPayload(translation string, words ...[2]string) map[string]any {
	p := map[string]any{"Translation": translation}
	if len(words) > 0 {
		p["Words"] = wordList(words)
	}
	return p
}

// AnalysisPayload builds a decoded analysis reply.
func AnalysisPayload(words ...[2]string) map[string]any {
	return map[string]any{"Words": wordList(words)}
}

// GrammarPayload builds a decoded grammar-check reply.
func GrammarPayload(corrected, guide string) map[string]any {
	return map[string]any{"CorrectedSentence": corrected, "CorrectionGuide": guide}
}

func wordList(words [][2]string) []any {
	list := make([]any, 0, len(words))
	for _, w := range words {
		list = append(list, map[string]any{"word": w[0], "definition": w[1]})
	}
	return list
}
