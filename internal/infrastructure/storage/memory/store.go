// Package memory provides the in-memory storage backend.
//
// Values live only as long as the process; this backend is the console's
// session-scoped storage (the tab-close analogue of the dashboard) and is
// also used by tests that need isolated store instances.
package memory

import (
	"context"
	"path"
	"sync"
	"time"
)

type entry struct {
	value     []byte
	expiresAt time.Time // zero means no expiration
}

// Store implements the storage.Store interface in memory.
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry
}

// NewStore creates a new empty in-memory store.
func NewStore() *Store {
	return &Store{
		entries: make(map[string]entry),
	}
}

// Get retrieves a value by key. Returns nil if absent or expired.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, nil
	}

	val := make([]byte, len(e.value))
	copy(val, e.value)
	return val, nil
}

// Set stores a value. A zero ttl stores it without expiration.
func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	val := make([]byte, len(value))
	copy(val, value)

	e := entry{value: val}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = e
	s.mu.Unlock()
	return nil
}

// Delete removes a key.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[key]; !ok {
		return false, nil
	}
	delete(s.entries, key)
	return true, nil
}

// DeletePattern removes all keys matching the given glob pattern.
func (s *Store) DeletePattern(ctx context.Context, pattern string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for key := range s.entries {
		if ok, _ := path.Match(pattern, key); ok {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(ctx context.Context) error {
	return nil
}

// Close clears all entries.
func (s *Store) Close() error {
	s.mu.Lock()
	s.entries = make(map[string]entry)
	s.mu.Unlock()
	return nil
}

// Len returns the number of live entries (for tests).
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
