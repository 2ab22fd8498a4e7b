package catalog

import (
	"context"
	"sort"
	"sync"
)

type MemStore struct {
	mu sync.RWMutex
	m  map[string]Product
}

func NewMemStore() *MemStore {
	s := &MemStore{m: map[string]Product{}}
	s.m["p1"] = Product{ID: "p1", Name: "Keyboard", Price: 49.90, Active: true}
	s.m["p2"] = Product{ID: "p2", Name: "Mouse", Price: 19.90, Active: true}
	s.m["p3"] = Product{ID: "p3", Name: "Legacy Webcam", Price: 24.50, Active: false}
	return s
}

func (s *MemStore) Ping(ctx context.Context) error { return nil }

func (s *MemStore) ListSortedByID(ctx context.Context) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Product, 0, len(s.m))
	for _, p := range s.m {
		out = append(out, p)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemStore) Get(ctx context.Context, id string) (Product, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.m[id]
	return p, ok, nil
}

func (s *MemStore) FindActive(ctx context.Context, ids []string) (map[string]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]Product, len(ids))
	for _, id := range ids {
		p, ok := s.m[id]
		if !ok || !p.Active {
			continue
		}
		out[id] = p
	}
	return out, nil
}

// Put replaces a product. Tests and local seeding only.
func (s *MemStore) Put(p Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[p.ID] = p
}
