package cache

import (
	"encoding/json"
	"log"
	"strings"
	"time"
)

// WellKnownAuthUserKey holds the authenticated-user record in a session
// cache.
const WellKnownAuthUserKey = "auth:user"

type sessionEntry struct {
	data      []byte
	expiresAt time.Time
}

// SessionCache is an in-process key/value store scoped to one client
// session. Access is cooperative and single-goroutine, matching how the
// API client serializes its calls, so no locking is done here.
type SessionCache struct {
	entries map[string]sessionEntry
	now     func() time.Time
}

func NewSessionCache() *SessionCache {
	return &SessionCache{
		entries: make(map[string]sessionEntry),
		now:     time.Now,
	}
}

// Set serializes value under key. A zero ttl stores the entry without an
// expiry.
func (c *SessionCache) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := sessionEntry{data: data}
	if ttl > 0 {
		e.expiresAt = c.now().Add(ttl)
	}
	c.entries[key] = e
	return nil
}

// Get deserializes the entry under key into dest and reports presence.
// Expired or undecodable entries read as absent and are dropped.
func (c *SessionCache) Get(key string, dest interface{}) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return false
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		log.Printf("session cache: dropping undecodable entry %q: %v", key, err)
		delete(c.entries, key)
		return false
	}
	return true
}

// Has reports whether key holds a live entry, without deserializing it.
func (c *SessionCache) Has(key string) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	if !e.expiresAt.IsZero() && c.now().After(e.expiresAt) {
		delete(c.entries, key)
		return false
	}
	return true
}

func (c *SessionCache) Remove(key string) {
	delete(c.entries, key)
}

func (c *SessionCache) Clear() {
	c.entries = make(map[string]sessionEntry)
}

// InvalidatePrefix drops every entry whose key starts with prefix.
func (c *SessionCache) InvalidatePrefix(prefix string) {
	for key := range c.entries {
		if strings.HasPrefix(key, prefix) {
			delete(c.entries, key)
		}
	}
}
