package auth

import (
	"sync"
	"time"
)

// identityCache maps verified token strings to identities. Entries live
// no longer than the token itself, so a cached hit can never outlast the
// expiry the signature check would enforce.
type identityCache struct {
	mu      sync.RWMutex
	entries map[string]cacheEntry
	now     func() time.Time
}

type cacheEntry struct {
	identity  Identity
	expiresAt time.Time
}

func newIdentityCache() *identityCache {
	return &identityCache{
		entries: make(map[string]cacheEntry),
		now:     time.Now,
	}
}

func (c *identityCache) get(token string) (Identity, bool) {
	c.mu.RLock()
	entry, ok := c.entries[token]
	c.mu.RUnlock()
	if !ok {
		return Identity{}, false
	}
	if c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, token)
		c.mu.Unlock()
		return Identity{}, false
	}
	return entry.identity, true
}

func (c *identityCache) put(token string, id Identity, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	// Opportunistic sweep keeps the map from growing with dead tokens.
	if len(c.entries) >= 1024 {
		now := c.now()
		for k, e := range c.entries {
			if now.After(e.expiresAt) {
				delete(c.entries, k)
			}
		}
	}
	c.entries[token] = cacheEntry{identity: id, expiresAt: expiresAt}
}
