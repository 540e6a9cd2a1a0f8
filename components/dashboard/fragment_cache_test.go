package dashboard

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragmentCacheStoresEntry(t *testing.T) {
	cache := NewFragmentCache(time.Minute)
	calls := 0
	render := func() (string, error) {
		calls++
		return "html", nil
	}

	val1, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	val2, err := cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, "html", val1)
	assert.Equal(t, val1, val2)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, cache.Len())
}

func TestFragmentCacheExpires(t *testing.T) {
	cache := NewFragmentCache(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	calls := 0
	render := func() (string, error) {
		calls++
		return "fresh", nil
	}

	_, err := cache.GetOrRender("key", render)
	require.NoError(t, err)
	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("key", render)
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestFragmentCacheSweepsExpiredEntries(t *testing.T) {
	cache := NewFragmentCache(time.Minute)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	render := func() (string, error) { return "x", nil }

	_, err := cache.GetOrRender("a", render)
	require.NoError(t, err)
	_, err = cache.GetOrRender("stale-soon", render)
	require.NoError(t, err)
	require.Equal(t, 2, cache.Len())

	now = now.Add(2 * time.Minute)
	_, err = cache.GetOrRender("b", render)
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Len(), "expired entries never read again must not be retained")
}

func TestFragmentCacheDisabledWithoutTTL(t *testing.T) {
	cache := NewFragmentCache(0)
	calls := 0
	render := func() (string, error) {
		calls++
		return "x", nil
	}
	_, _ = cache.GetOrRender("key", render)
	_, _ = cache.GetOrRender("key", render)
	assert.Equal(t, 2, calls)
	assert.Zero(t, cache.Len())
}

func TestFragmentKeyTracksConfiguration(t *testing.T) {
	w := Widget{ID: "w1", Kind: KindNotes, Grid: GridRect{Width: 4, Height: 2}, Config: NotesConfig{Content: "a"}}
	first := fragmentKey(w)
	w.Config = NotesConfig{Content: "b"}
	assert.NotEqual(t, first, fragmentKey(w))
	w.Config = NotesConfig{Content: "a"}
	assert.Equal(t, first, fragmentKey(w))
}
