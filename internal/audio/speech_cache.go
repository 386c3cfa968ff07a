package audio

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// speechCache keeps one synthesized file per text and voice settings so
// repeated lookups of the same sentence do not hit the speech API again.
type speechCache struct {
	dir string
}

func newSpeechCache(dir string) (*speechCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	return &speechCache{dir: dir}, nil
}

// path is sharded by the first two hex digits of the key.
func (c *speechCache) path(text string, cfg *Config) string {
	sum := md5.Sum([]byte(strings.Join([]string{
		strings.TrimSpace(text),
		cfg.OpenAIModel,
		cfg.OpenAIVoice,
		fmt.Sprintf("%.2f", cfg.OpenAISpeed),
	}, "\x00")))
	key := hex.EncodeToString(sum[:])
	return filepath.Join(c.dir, key[:2], key[2:]+".mp3")
}

// restore copies the cached file for text to dst. It reports false on a miss.
func (c *speechCache) restore(text string, cfg *Config, dst string) bool {
	src := c.path(text, cfg)
	if _, err := os.Stat(src); err != nil {
		return false
	}
	return copyFile(src, dst) == nil
}

func (c *speechCache) save(text string, cfg *Config, src string) error {
	return copyFile(src, c.path(text, cfg))
}

func (c *speechCache) clear() error {
	return os.RemoveAll(c.dir)
}

// copyFile writes through a temporary file so readers never see a partial copy.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dst), ".part-*")
	if err != nil {
		return err
	}
	if _, err := io.Copy(tmp, in); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), dst)
}
