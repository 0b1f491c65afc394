package rankfile

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the default number of parsed files kept in memory.
const DefaultCacheSize = 128

// cacheEntry pairs parsed items with the file fingerprint they came from.
type cacheEntry struct {
	items   []string
	modTime time.Time
	size    int64
}

// Cache memoizes parsed ranking files keyed by absolute path. Entries are
// revalidated against the file's (modtime, size) fingerprint on every Get,
// so watch mode re-parses only files that actually changed.
type Cache struct {
	entries *lru.Cache[string, cacheEntry]
}

// NewCache creates a cache holding up to size parsed files.
func NewCache(size int) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, _ := lru.New[string, cacheEntry](size)
	return &Cache{entries: entries}
}

// Get returns the ranking for path, re-parsing the file only when the
// cached fingerprint no longer matches.
func (c *Cache) Get(path string) (Ranking, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return Ranking{}, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return Ranking{}, fmt.Errorf("failed to stat ranking file: %w", err)
	}

	if entry, ok := c.entries.Get(abs); ok {
		if entry.modTime.Equal(info.ModTime()) && entry.size == info.Size() {
			return Ranking{Name: filepath.Base(abs), Items: entry.items}, nil
		}
	}

	ranking, err := Load(abs)
	if err != nil {
		return Ranking{}, err
	}

	c.entries.Add(abs, cacheEntry{
		items:   ranking.Items,
		modTime: info.ModTime(),
		size:    info.Size(),
	})

	return ranking, nil
}

// Invalidate drops the cached entry for path, if any.
func (c *Cache) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		c.entries.Remove(abs)
	}
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	return c.entries.Len()
}
