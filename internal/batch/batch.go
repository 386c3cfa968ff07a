package batch

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// GrammarPrefix marks an entry that should be grammar checked instead of looked up.
const GrammarPrefix = "~"

// Entry is one line of a batch file.
type Entry struct {
	Text    string
	Grammar bool
	Line    int
}

// ReadBatchFile reads entries from filename.
func ReadBatchFile(filename string) ([]Entry, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}
	defer f.Close()

	entries, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file %s: %w", filename, err)
	}
	return entries, nil
}

// Parse reads entries from r. Blank lines and comments are skipped and a
// grammar entry with nothing after the prefix is dropped.
func Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	n := 0
	for scanner.Scan() {
		n++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry := Entry{Text: line, Line: n}
		if rest, ok := strings.CutPrefix(line, GrammarPrefix); ok {
			entry.Text = strings.TrimSpace(rest)
			entry.Grammar = true
			if entry.Text == "" {
				continue
			}
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
