package storage

import (
	"context"
	"sync"
)

// MemoryStore is an in-process BlobStore for tests and development.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
	types map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items: make(map[string][]byte),
		types: make(map[string]string),
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, data []byte, contentType string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.items[key] = cp
	s.types[key] = contentType
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	return cp, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, key)
	delete(s.types, key)
	return nil
}

// ContentType returns the stored content type, for assertions in tests.
func (s *MemoryStore) ContentType(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.types[key]
}
