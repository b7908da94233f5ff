// Package session holds in-memory conversation history for chats whose
// turns are not persisted (anyone other than the clone's owner talking
// to it). Entries expire after a TTL of inactivity; eviction runs from
// a scheduled prune task rather than an ambient timer, and the clock is
// injected so expiry is testable without sleeping.
package session

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an idle conversation survives.
	DefaultTTL = 30 * time.Minute

	// maxTurns bounds a conversation's rolling history. When exceeded,
	// the oldest user/assistant pair is dropped.
	maxTurns = 40
)

// Turn is one message of a cached conversation.
type Turn struct {
	Role    string // "user" or "clone"
	Content string
}

type entry struct {
	turns    []Turn
	lastSeen time.Time
}

// Cache is a TTL-bounded conversation store keyed by chat ID. Safe for
// concurrent use: Telegram handlers run as independent goroutines, so
// unlike a single-threaded event loop this needs real exclusion.
type Cache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[int64]*entry
}

// NewCache creates a cache with the given TTL. A nil clock defaults to
// time.Now; tests inject their own.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{
		ttl:     ttl,
		now:     now,
		entries: make(map[int64]*entry),
	}
}

// Append records a turn for the chat and refreshes its TTL.
func (c *Cache) Append(chatID int64, role, content string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[chatID]
	if !ok {
		e = &entry{}
		c.entries[chatID] = e
	}
	e.turns = append(e.turns, Turn{Role: role, Content: content})
	if len(e.turns) > maxTurns {
		e.turns = e.turns[2:]
	}
	e.lastSeen = c.now()
}

// History returns a copy of the chat's turns, newest last, and
// refreshes its TTL. Unknown chats yield nil.
func (c *Cache) History(chatID int64) []Turn {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[chatID]
	if !ok {
		return nil
	}
	e.lastSeen = c.now()
	return append([]Turn(nil), e.turns...)
}

// Forget drops the chat's history immediately.
func (c *Cache) Forget(chatID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, chatID)
}

// PruneExpired evicts every conversation idle for longer than the TTL
// and returns how many were removed.
func (c *Cache) PruneExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := c.now().Add(-c.ttl)
	pruned := 0
	for id, e := range c.entries {
		if e.lastSeen.Before(cutoff) {
			delete(c.entries, id)
			pruned++
		}
	}
	return pruned
}

// Len reports the number of live conversations.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
