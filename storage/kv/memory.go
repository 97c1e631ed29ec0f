// Package kv provides the local snapshot stores backing offline reads:
// a process-local store for tests and a file-backed store for deployments.
package kv

import (
	"sync"

	"github.com/trezcool/alama/core/academic"
)

type memoryStore struct {
	mutex sync.RWMutex
	table map[string][]byte
}

func NewMemoryStore() academic.Cache {
	return &memoryStore{table: make(map[string][]byte)}
}

func (s *memoryStore) Get(key string) ([]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, ok := s.table[key]
	if !ok {
		return nil, academic.ErrCacheMiss
	}
	cp := make([]byte, len(value))
	copy(cp, value)
	return cp, nil
}

func (s *memoryStore) Set(key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.table[key] = cp
	return nil
}

func (s *memoryStore) Remove(key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.table, key)
	return nil
}
