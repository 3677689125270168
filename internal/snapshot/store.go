// Package snapshot holds the ids map published by the tick thread and read by
// the listener.
package snapshot

import (
	"sync"

	"github.com/aretw0/strpbridge/pkg/domain"
)

// Store keeps the most recently published snapshot. Publish replaces the value
// wholesale; readers never observe a value under construction.
type Store struct {
	mu    sync.RWMutex
	value string
}

// NewStore returns a store holding the empty-mapping placeholder.
func NewStore() *Store {
	return &Store{value: domain.EmptySnapshot}
}

// Publish replaces the current snapshot. Only the tick thread publishes.
func (s *Store) Publish(value string) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
}

// Read returns the last published snapshot.
func (s *Store) Read() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}
