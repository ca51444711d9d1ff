package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pulse-lab/pulse/internal/core/storage"
)

// CounterStore is an in-memory storage.CounterStore.
// Values are kept as encoded JSON so callers observe the same copy semantics
// as with a persistent store. Suitable for tests and ephemeral deployments.
type CounterStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

var _ storage.CounterStore = (*CounterStore)(nil)

// NewCounterStore creates an empty store.
func NewCounterStore() *CounterStore {
	return &CounterStore{data: make(map[string][]byte)}
}

// Get decodes the value under key into dst.
func (s *CounterStore) Get(_ context.Context, key string, dst any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("decode counter %q: %w", key, err)
	}
	return true, nil
}

// Set encodes value and stores it under key.
func (s *CounterStore) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode counter %q: %w", key, err)
	}

	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *CounterStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Clear drops every key, the equivalent of a device wiping its local storage.
func (s *CounterStore) Clear() {
	s.mu.Lock()
	s.data = make(map[string][]byte)
	s.mu.Unlock()
}
