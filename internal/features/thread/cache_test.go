package thread

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuggestionCacheSetGet(t *testing.T) {
	c := NewSuggestionCache(time.Minute)

	c.Set("t1", []string{"a", "b"})

	got, ok := c.Get("t1")
	assert.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got)

	_, ok = c.Get("t2")
	assert.False(t, ok)
}

func TestSuggestionCacheExpiry(t *testing.T) {
	c := NewSuggestionCache(10 * time.Millisecond)

	c.Set("t1", []string{"a"})
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("t1")
	assert.False(t, ok)
}

func TestSuggestionCacheInvalidate(t *testing.T) {
	c := NewSuggestionCache(time.Minute)

	c.Set("t1", []string{"a"})
	c.Invalidate("t1")

	_, ok := c.Get("t1")
	assert.False(t, ok)
}
