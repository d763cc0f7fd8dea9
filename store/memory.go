package store

import (
	"context"
	"sync"

	"github.com/unkn0wn-root/swrcache"
)

// Memory is a map-backed Store. Values are held as given, not copied.
type Memory[V any] struct {
	mu sync.RWMutex
	m  map[string]swrcache.Entry[V]
}

var _ swrcache.Store[string] = (*Memory[string])(nil)

func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{m: make(map[string]swrcache.Entry[V])}
}

func (s *Memory[V]) Get(_ context.Context, key string) (swrcache.Entry[V], bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.m[key]
	return e, ok, nil
}

func (s *Memory[V]) Set(_ context.Context, key string, e swrcache.Entry[V]) error {
	s.mu.Lock()
	s.m[key] = e
	s.mu.Unlock()
	return nil
}

func (s *Memory[V]) Remove(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.m, key)
	s.mu.Unlock()
	return nil
}

func (s *Memory[V]) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	return out, nil
}

func (s *Memory[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}
