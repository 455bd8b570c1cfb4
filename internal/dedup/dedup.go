// Package dedup provides the at-most-once message-processing filter for
// inbound webhook events. WhatsApp redelivers webhooks on slow or failed
// acknowledgments, so every message id is admitted exactly once.
package dedup

import (
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a message id stays recorded. Provider
	// redeliveries arrive within minutes; a day is comfortably past that.
	DefaultTTL = 24 * time.Hour

	// DefaultMaxEntries bounds the record set so a long-running process
	// cannot grow it without limit.
	DefaultMaxEntries = 50000
)

// Guard records seen message identifiers. The record set is bounded both
// by a time window and a capacity limit; when the capacity is exceeded the
// oldest records are dropped first.
type Guard struct {
	mu         sync.Mutex
	seen       map[string]time.Time
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// New creates a guard with the default TTL and capacity
func New() *Guard {
	return NewWithLimits(DefaultTTL, DefaultMaxEntries)
}

// NewWithLimits creates a guard with explicit bounds
func NewWithLimits(ttl time.Duration, maxEntries int) *Guard {
	return &Guard{
		seen:       make(map[string]time.Time),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

// Admit reports whether the message id is seen for the first time and
// records it. A repeated id returns false and the caller must ignore the
// event.
func (g *Guard) Admit(messageID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if seenAt, exists := g.seen[messageID]; exists && now.Sub(seenAt) < g.ttl {
		return false
	}

	if len(g.seen) >= g.maxEntries {
		g.prune(now)
	}

	g.seen[messageID] = now
	return true
}

// Len returns the number of recorded ids
func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.seen)
}

// prune drops expired records, then if still over capacity drops the
// oldest records until one slot is free. Caller holds the lock.
func (g *Guard) prune(now time.Time) {
	for id, seenAt := range g.seen {
		if now.Sub(seenAt) >= g.ttl {
			delete(g.seen, id)
		}
	}
	for len(g.seen) >= g.maxEntries {
		oldestID := ""
		var oldestAt time.Time
		for id, seenAt := range g.seen {
			if oldestID == "" || seenAt.Before(oldestAt) {
				oldestID = id
				oldestAt = seenAt
			}
		}
		delete(g.seen, oldestID)
	}
}
