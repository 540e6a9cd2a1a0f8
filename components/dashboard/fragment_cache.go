package dashboard

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sync"
	"time"
)

// RenderCache memoizes rendered widget HTML so repeated fetches are cheap.
type RenderCache interface {
	GetOrRender(key string, render func() (string, error)) (string, error)
}

// FragmentCache is an in-memory TTL cache for rendered widget fragments.
type FragmentCache struct {
	ttl     time.Duration
	now     Clock
	mu      sync.RWMutex
	entries map[string]cachedFragment
	// next sweep of expired entries, at most once per ttl.
	sweepAt time.Time
}

type cachedFragment struct {
	html    string
	expires time.Time
}

// NewFragmentCache builds a cache with the provided TTL. A non-positive TTL
// disables caching.
func NewFragmentCache(ttl time.Duration) *FragmentCache {
	return &FragmentCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedFragment),
	}
}

// GetOrRender returns a cached entry or renders/stores a new one.
func (c *FragmentCache) GetOrRender(key string, render func() (string, error)) (string, error) {
	if html, ok := c.get(key); ok {
		return html, nil
	}
	html, err := render()
	if err != nil {
		return "", err
	}
	c.set(key, html)
	return html, nil
}

// Len reports the number of live and expired entries held.
func (c *FragmentCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *FragmentCache) get(key string) (string, bool) {
	if c == nil || c.ttl <= 0 {
		return "", false
	}
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || c.now().After(entry.expires) {
		if ok {
			c.mu.Lock()
			delete(c.entries, key)
			c.mu.Unlock()
		}
		return "", false
	}
	return entry.html, true
}

func (c *FragmentCache) set(key, html string) {
	if c == nil || c.ttl <= 0 {
		return
	}
	now := c.now()
	c.mu.Lock()
	defer c.mu.Unlock()
	if !now.Before(c.sweepAt) {
		for k, entry := range c.entries {
			if now.After(entry.expires) {
				delete(c.entries, k)
			}
		}
		c.sweepAt = now.Add(c.ttl)
	}
	c.entries[key] = cachedFragment{
		html:    html,
		expires: now.Add(c.ttl),
	}
}

func fragmentKey(w Widget) string {
	r := w.Grid.Normalize()
	return fmt.Sprintf("%s:%dx%d:%s", w.ID, r.Width, r.Height, configHash(w.Config))
}

// configHash returns a deterministic hash for the widget configuration.
func configHash(cfg WidgetConfig) string {
	if cfg == nil {
		return "empty"
	}
	b, err := EncodeConfig(cfg)
	if err != nil {
		return "invalid"
	}
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])
}
