package index

import (
	"sort"
	"sync"

	"github.com/meenmo/almlib/errs"
	"github.com/meenmo/almlib/rates"
)

// Store is the id-keyed index registry shared across pricing workers.
// Registration happens during setup; pricing only reads.
type Store struct {
	mu      sync.RWMutex
	indices map[int]RateIndex
}

// NewStore builds an empty registry.
func NewStore() *Store {
	return &Store{indices: make(map[int]RateIndex)}
}

// AddIndex registers an index under an id. Duplicate ids are rejected.
func (s *Store) AddIndex(id int, ix RateIndex) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.indices[id]; ok {
		return errs.InvalidValue("index store: duplicate index id %d", id)
	}
	s.indices[id] = ix
	return nil
}

// GetIndex looks an index up by id.
func (s *Store) GetIndex(id int) (RateIndex, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ix, ok := s.indices[id]
	if !ok {
		return nil, errs.NotFound("index store: no index with id %d", id)
	}
	return ix, nil
}

// IDs returns the registered ids in ascending order.
func (s *Store) IDs() []int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]int, 0, len(s.indices))
	for id := range s.indices {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// Len reports the number of registered indices.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.indices)
}

// Advance rolls every registered index forward and returns a new registry.
func (s *Store) Advance(p rates.Period) (*Store, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := NewStore()
	for id, ix := range s.indices {
		adv, err := ix.Advance(p)
		if err != nil {
			return nil, errs.Evaluation("index store: advancing index %d: %v", id, err)
		}
		out.indices[id] = adv
	}
	return out, nil
}
