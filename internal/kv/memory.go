package kv

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
)

type memoryStore struct {
	mu   sync.RWMutex
	data map[string]json.RawMessage
}

// NewMemoryStore returns a Store held entirely in memory.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string]json.RawMessage)}
}

func (s *memoryStore) Get(_ context.Context, key string, dst interface{}) error {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	return json.Unmarshal(raw, dst)
}

func (s *memoryStore) Put(_ context.Context, key string, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.data[key] = raw
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.data, key)
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) ListPrefix(_ context.Context, prefix string, dst interface{}) error {
	s.mu.RLock()
	keys := make([]string, 0)
	for k := range s.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([]json.RawMessage, 0, len(keys))
	for _, k := range keys {
		values = append(values, s.data[k])
	}
	s.mu.RUnlock()

	merged, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(merged, dst)
}

func (s *memoryStore) Ping(_ context.Context) error {
	return nil
}
