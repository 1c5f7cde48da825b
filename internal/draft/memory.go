package draft

import (
	"context"
	"encoding/json"
	"sync"
)

// MemoryStore is an in-process draft store used in tests and single-node
// development setups. It round-trips through JSON so it exercises the same
// serialization path as the Redis store.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string][]byte)}
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, d *Draft) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.items[sessionID] = payload
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) (*Draft, error) {
	s.mu.RLock()
	raw, ok := s.items[sessionID]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}

	if err := validatePayload(raw); err != nil {
		s.mu.Lock()
		delete(s.items, sessionID)
		s.mu.Unlock()
		return nil, nil
	}

	var d Draft
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, nil
	}
	return &d, nil
}

func (s *MemoryStore) Discard(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.items, sessionID)
	s.mu.Unlock()
	return nil
}
