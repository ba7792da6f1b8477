package ruleset

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// Store persists rule sets by name.
type Store interface {
	// Get returns ErrNotFound when there is no rule set under name.
	Get(ctx context.Context, name string) (*Ruleset, error)
	// Put stores rs under rs.Name, replacing any previous version.
	Put(ctx context.Context, rs *Ruleset) error
	// Delete returns ErrNotFound when there is nothing to delete.
	Delete(ctx context.Context, name string) error
	// List returns the stored names, sorted.
	List(ctx context.Context) ([]string, error)
}

// MemoryStore keeps rule sets in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	sets map[string]*Ruleset
}

func NewMemoryStore(sets ...*Ruleset) (*MemoryStore, error) {
	s := &MemoryStore{sets: make(map[string]*Ruleset, len(sets))}
	for _, rs := range sets {
		if err := s.Put(context.Background(), rs); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *MemoryStore) Get(_ context.Context, name string) (*Ruleset, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rs, ok := s.sets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rs, nil
}

func (s *MemoryStore) Put(_ context.Context, rs *Ruleset) error {
	if err := ValidateName(rs.Name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets[rs.Name] = rs
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sets[name]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	delete(s.sets, name)
	return nil
}

func (s *MemoryStore) List(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.sets)), nil
}
