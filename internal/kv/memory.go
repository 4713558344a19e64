package kv

import "sync"

type memory struct {
	mu sync.RWMutex
	m  map[string]string
}

// NewMemory returns an in-memory Store.
func NewMemory() Store {
	return &memory{m: make(map[string]string)}
}

func (s *memory) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.m[key]
	return v, ok
}

func (s *memory) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = value
	return nil
}
