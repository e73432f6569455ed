package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentCache_TTL(t *testing.T) {
	c := New(time.Minute, time.Hour)

	c.Set("chunks_abc", []string{"one", "two"}, 100*time.Millisecond)

	value, ok := c.Get("chunks_abc")
	require.True(t, ok)
	assert.Equal(t, []string{"one", "two"}, value)
	assert.True(t, c.Has("chunks_abc"))

	time.Sleep(150 * time.Millisecond)

	value, ok = c.Get("chunks_abc")
	assert.False(t, ok)
	assert.Nil(t, value)
	assert.False(t, c.Has("chunks_abc"))
	assert.Equal(t, 0, c.ItemCount(), "expired read evicts the key")
}

func TestContentCache_DefaultTTL(t *testing.T) {
	c := New(50*time.Millisecond, time.Hour)

	c.Set("k", 1, 0)
	assert.True(t, c.Has("k"))

	time.Sleep(80 * time.Millisecond)
	assert.False(t, c.Has("k"))
}

func TestContentCache_DeleteAndClear(t *testing.T) {
	c := NewDefault()

	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	c.Set("c", 3, 0)

	c.Delete("a")
	assert.False(t, c.Has("a"))

	stats := c.Stats()
	assert.Equal(t, 2, stats.Items)
	assert.Equal(t, []string{"b", "c"}, stats.Keys)

	c.Clear()
	assert.Equal(t, 0, c.Stats().Items)
}

func TestContentCache_SweepEvictsUnread(t *testing.T) {
	c := New(20*time.Millisecond, 30*time.Millisecond)
	c.Set("never-read", "v", 0)

	assert.Eventually(t, func() bool {
		return c.ItemCount() == 0
	}, time.Second, 10*time.Millisecond)
}
