package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"codeberg.org/snonux/dictlookup/internal"
	"codeberg.org/snonux/dictlookup/internal/batch"
	"codeberg.org/snonux/dictlookup/internal/processor"
	"codeberg.org/snonux/dictlookup/internal/server"
)

func runLookup(ctx context.Context, out io.Writer, args []string, flags *Flags) error {
	entries, err := lookupEntries(args, flags)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return fmt.Errorf("nothing to look up in %s", flags.BatchFile)
	}

	e, err := newEnv(flags)
	if err != nil {
		return err
	}
	defer e.Close()

	services, err := server.NewServices(ctx, e.store.Config(), e.deps())
	if err != nil {
		return err
	}

	if flags.OutputDir != "" {
		if err := os.MkdirAll(flags.OutputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	failed := 0
	for _, entry := range entries {
		page, err := lookupOne(ctx, services, entry, flags.Refresh)
		if err != nil {
			failed++
			e.logger.Error("lookup failed", zap.String("text", entry.Text), zap.Int("line", entry.Line), zap.Error(err))
			continue
		}

		if flags.OutputDir == "" {
			if _, err := fmt.Fprintln(out, page); err != nil {
				return err
			}
			continue
		}

		path := filepath.Join(flags.OutputDir, internal.SanitizeFilename(entry.Text)+".html")
		if err := os.WriteFile(path, []byte(page), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(out, "%s\n", path)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d lookups failed", failed, len(entries))
	}
	return nil
}

// lookupEntries turns the command line into entries: a batch file, or the
// arguments joined into one text.
func lookupEntries(args []string, flags *Flags) ([]batch.Entry, error) {
	var entries []batch.Entry
	if flags.BatchFile != "" {
		var err error
		if entries, err = batch.ReadBatchFile(flags.BatchFile); err != nil {
			return nil, err
		}
	}
	if len(args) > 0 {
		entries = append(entries, batch.Entry{Text: strings.Join(args, " ")})
	}

	if flags.Grammar {
		for i := range entries {
			entries[i].Grammar = true
		}
	}
	return entries, nil
}

// lookupOne renders one entry. Unlike the HTTP lookup it does not skip
// single English words.
func lookupOne(ctx context.Context, s *server.Services, entry batch.Entry, refresh bool) (string, error) {
	switch {
	case entry.Grammar:
		return s.Processor.GrammarCheck(ctx, entry.Text)
	case refresh:
		return s.Processor.Refresh(ctx, entry.Text)
	default:
		return s.Processor.Process(ctx, entry.Text, processor.LookupFeatures(s.Config.Settings), false)
	}
}
