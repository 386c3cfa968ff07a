package cache

import (
	"context"
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	"golang.org/x/sync/singleflight"

	"codeberg.org/snonux/dictlookup/internal/pipeline"
)

// DefaultMaxEntries and DefaultMaxTextLength apply when a size is not positive.
const (
	DefaultMaxEntries    = 10000
	DefaultMaxTextLength = 10000
)

// ComputeFunc produces the value for a miss.
type ComputeFunc func(ctx context.Context) (string, error)

// Cache is a bounded FIFO of rendered results. Entries are only ever read
// with Peek so insertion order is the eviction order.
type Cache struct {
	mu            sync.RWMutex
	entries       *simplelru.LRU[string, string]
	maxEntries    int
	maxTextLength int
	group         singleflight.Group
}

// New creates a cache holding at most maxEntries results. Texts of
// maxTextLength characters or more are computed but never stored.
func New(maxEntries, maxTextLength int) (*Cache, error) {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	if maxTextLength <= 0 {
		maxTextLength = DefaultMaxTextLength
	}

	entries, err := simplelru.NewLRU[string, string](maxEntries, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create result cache: %w", err)
	}

	return &Cache{
		entries:       entries,
		maxEntries:    maxEntries,
		maxTextLength: maxTextLength,
	}, nil
}

// Key identifies a lookup by its text and every feature flag.
func Key(text string, f pipeline.Features) string {
	return fmt.Sprintf("%s-%t-%t-%t-%t", text, f.Translation, f.TTS, f.Analysis, f.GrammarCheck)
}

// Get returns the stored value for key without changing eviction order.
func (c *Cache) Get(key string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Peek(key)
}

// GetOrCompute returns the cached value for text and f, or runs compute
// and stores its result. With forceRefresh the stored value is ignored and
// replaced. Concurrent misses for the same key share one compute. Compute
// errors are returned and nothing is stored.
func (c *Cache) GetOrCompute(ctx context.Context, text string, f pipeline.Features, forceRefresh bool, compute ComputeFunc) (string, error) {
	key := Key(text, f)

	if forceRefresh {
		value, err := compute(ctx)
		if err != nil {
			return "", err
		}
		c.store(key, text, value)
		return value, nil
	}

	if value, ok := c.Get(key); ok {
		return value, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		if value, ok := c.Get(key); ok {
			return value, nil
		}
		value, err := compute(ctx)
		if err != nil {
			return "", err
		}
		c.store(key, text, value)
		return value, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// store inserts value when text is short enough. A full cache drops its
// earliest insertion first. Overwriting a key makes it the newest entry.
func (c *Cache) store(key, text, value string) {
	if utf8.RuneCountInString(text) >= c.maxTextLength {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, value)
}

// Len reports the number of stored results.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len()
}

// Keys lists stored keys from oldest to newest.
func (c *Cache) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Keys()
}

// Reset drops every stored result.
func (c *Cache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}
