package cache

import (
	"sync"
	"time"
)

// Store is an in-memory keyed cache with per-entry TTLs.
//
// Entries are never removed when they expire: a stale entry is still
// returned by Get (found=true, fresh=false) so callers can degrade to the
// last known value when an upstream fetch fails. Freshness is relative to
// the wall clock at the time of the write.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
	timeNow func() time.Time // For testing
}

type entry struct {
	value    interface{}
	storedAt time.Time
	ttl      time.Duration
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
		timeNow: time.Now,
	}
}

// Get returns the value stored under key. found reports whether any value
// was ever stored; fresh reports whether it is still within its TTL.
func (s *Store) Get(key string) (interface{}, bool, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false, false
	}

	fresh := s.timeNow().Sub(e.storedAt) < e.ttl
	return e.value, true, fresh
}

// Set stores value under key. A non-positive ttl stores the value already
// stale, usable only as a failure fallback.
func (s *Store) Set(key string, value interface{}, ttl time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{
		value:    value,
		storedAt: s.timeNow(),
		ttl:      ttl,
	}
}

// Delete removes a key outright. Expiry never calls this; it exists for
// callers that want to invalidate explicitly.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, key)
}

// Len returns the number of stored entries, stale ones included.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
