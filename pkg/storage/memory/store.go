package memory

import (
	"context"
	"sync"

	"github.com/angelmondragon/cartstore/pkg/storage"
)

// Store keeps every scope in process memory.
type Store struct {
	mu     sync.RWMutex
	scopes map[string]map[string]string
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{scopes: make(map[string]map[string]string)}
}

func (s *Store) Get(ctx context.Context, scope, key string) (string, bool, error) {
	if err := storage.ValidateRef(scope, key); err != nil {
		return "", false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.scopes[scope][key]
	return value, ok, nil
}

func (s *Store) Set(ctx context.Context, scope, key, value string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.scopes[scope]
	if !ok {
		entries = make(map[string]string)
		s.scopes[scope] = entries
	}
	entries[key] = value
	return nil
}

func (s *Store) Remove(ctx context.Context, scope, key string) error {
	if err := storage.ValidateRef(scope, key); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, ok := s.scopes[scope]
	if !ok {
		return nil
	}
	delete(entries, key)
	if len(entries) == 0 {
		delete(s.scopes, scope)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return nil
}
