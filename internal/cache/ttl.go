package cache

import (
	"sync"
	"time"
)

// Store is an in-memory TTL cache safe for concurrent use. Entries expire
// after the configured TTL; a background goroutine evicts stale ones so the
// map cannot grow without bound.
type Store[K comparable, V any] struct {
	entries map[K]entry[V]
	mu      sync.RWMutex
	ttl     time.Duration
	stopCh  chan struct{}
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// New creates a Store whose entries live for ttl. cleanupInterval controls
// how often expired entries are swept out.
func New[K comparable, V any](ttl, cleanupInterval time.Duration) *Store[K, V] {
	s := &Store[K, V]{
		entries: make(map[K]entry[V]),
		ttl:     ttl,
		stopCh:  make(chan struct{}),
	}
	go s.cleanup(cleanupInterval)
	return s
}

// Get returns the cached value for key, if present and not expired
func (s *Store[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key]
	if !ok || time.Now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Set stores value under key, resetting its TTL
func (s *Store[K, V]) Set(key K, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry[V]{
		value:     value,
		expiresAt: time.Now().Add(s.ttl),
	}
}

// Delete removes key from the store
func (s *Store[K, V]) Delete(key K) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// Len returns the number of entries, expired ones included until swept
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store[K, V]) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for key, e := range s.entries {
				if now.After(e.expiresAt) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

// Stop stops the cleanup goroutine
func (s *Store[K, V]) Stop() {
	close(s.stopCh)
}
