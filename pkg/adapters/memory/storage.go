// Package memory provides the transient key/value store that backs the
// note collection when no durable store is reachable. Its contents live only
// as long as the process.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"

	"github.com/aretw0/framenotes/pkg/core"
)

// Storage is a mutex-guarded map implementing core.Storage.
type Storage struct {
	mu     sync.RWMutex
	values map[string][]byte
	writes int
}

// NewStorage returns an empty Storage.
func NewStorage() *Storage {
	return &Storage{values: make(map[string][]byte)}
}

// Read implements core.Storage.
func (s *Storage) Read(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Write implements core.Storage.
func (s *Storage) Write(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = append([]byte(nil), data...)
	s.writes++
	return nil
}

// StorageState exposes internal state for observability.
type StorageState struct {
	Keys   int `json:"keys"`
	Writes int `json:"writes"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StorageState{Keys: len(s.values), Writes: s.writes}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory-storage"
}

var _ core.Storage = (*Storage)(nil)
var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)
