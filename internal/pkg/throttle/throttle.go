// Package throttle provides a small rate-limit primitive for code resend
// protection. The store is injected rather than held in package globals so
// tests can substitute their own and multiple limiters never share state.
package throttle

import (
	"sync"
	"time"
)

// Store tracks when a key was last touched
type Store interface {
	// LastSeen returns the last touch time for key and whether one exists
	LastSeen(key string) (time.Time, bool)
	// Touch records now as the last touch time for key
	Touch(key string, now time.Time)
}

// MemoryStore is an in-process Store safe for concurrent use. Entries older
// than the retention window are swept opportunistically on Touch.
type MemoryStore struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	retention time.Duration
}

// NewMemoryStore creates a MemoryStore that retains entries for the given
// window. Retention should be at least as long as the longest interval any
// limiter using the store enforces.
func NewMemoryStore(retention time.Duration) *MemoryStore {
	return &MemoryStore{
		seen:      make(map[string]time.Time),
		retention: retention,
	}
}

// LastSeen returns the last touch time for key
func (s *MemoryStore) LastSeen(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	at, ok := s.seen[key]
	return at, ok
}

// Touch records now as the last touch time for key and sweeps stale entries
func (s *MemoryStore) Touch(key string, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for k, at := range s.seen {
		if now.Sub(at) > s.retention {
			delete(s.seen, k)
		}
	}

	s.seen[key] = now
}

// Limiter enforces a minimum interval between touches of the same key
type Limiter struct {
	mu       sync.Mutex
	store    Store
	interval time.Duration
	now      func() time.Time
}

// NewLimiter creates a Limiter over the given store
func NewLimiter(store Store, interval time.Duration) *Limiter {
	return &Limiter{
		store:    store,
		interval: interval,
		now:      time.Now,
	}
}

// Allow reports whether key may proceed, recording the attempt when it may.
// Denied attempts are not recorded, so a voter hammering the endpoint does not
// push their own window further out. The check and the record happen under one
// lock so two concurrent first attempts cannot both pass.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if at, ok := l.store.LastSeen(key); ok && now.Sub(at) < l.interval {
		return false
	}
	l.store.Touch(key, now)
	return true
}
