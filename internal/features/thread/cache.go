package thread

import (
	"sync"
	"time"
)

// SuggestionCache is an in-memory TTL cache for generated follow-up
// suggestions, keyed by thread id. Entries expire rather than going stale.
type SuggestionCache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]suggestionEntry
}

type suggestionEntry struct {
	suggestions []string
	expiresAt   time.Time
}

func NewSuggestionCache(ttl time.Duration) *SuggestionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &SuggestionCache{
		ttl:     ttl,
		entries: make(map[string]suggestionEntry),
	}
}

func (c *SuggestionCache) Get(threadID string) ([]string, bool) {
	c.mu.RLock()
	entry, ok := c.entries[threadID]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}
	if time.Now().After(entry.expiresAt) {
		c.mu.Lock()
		// Re-check under the write lock: a Set may have refreshed it.
		if cur, ok := c.entries[threadID]; ok && time.Now().After(cur.expiresAt) {
			delete(c.entries, threadID)
		}
		c.mu.Unlock()
		return nil, false
	}
	return entry.suggestions, true
}

func (c *SuggestionCache) Set(threadID string, suggestions []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[threadID] = suggestionEntry{
		suggestions: suggestions,
		expiresAt:   time.Now().Add(c.ttl),
	}
}

func (c *SuggestionCache) Invalidate(threadID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, threadID)
}
