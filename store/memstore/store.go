// Package memstore is an in-memory spaceship.Store for tests, demos and local runs.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-spaceship/spaceship"
)

// Store keeps records in a map guarded by a RWMutex and enforces unique names.
type Store struct {
	mu      sync.RWMutex
	records map[int64]spaceship.Record
	nextID  int64
}

var _ spaceship.Store = (*Store)(nil)

// New returns a store holding seed. Seed records keep their ids when set and get
// the next free id otherwise.
func New(seed ...spaceship.Record) *Store {
	s := &Store{records: make(map[int64]spaceship.Record)}
	for _, r := range seed {
		if r.ID == 0 {
			s.nextID++
			r.ID = s.nextID
		}
		s.nextID = max(s.nextID, r.ID)
		s.records[r.ID] = r
	}
	return s
}

func (s *Store) FindAll(_ context.Context) ([]spaceship.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(nil), nil
}

func (s *Store) FindByID(_ context.Context, id int64) (spaceship.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	if !ok {
		return spaceship.Record{}, spaceship.ErrRecordNotFound
	}
	return r, nil
}

func (s *Store) FindPage(_ context.Context, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sorted(nil)
	return page(all, req), len(all), nil
}

func (s *Store) FindByNameContaining(_ context.Context, pattern string) ([]spaceship.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sorted(containsFold(pattern)), nil
}

func (s *Store) FindByNameContainingPage(_ context.Context, pattern string, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sorted(containsFold(pattern))
	return page(matched, req), len(matched), nil
}

func (s *Store) Save(_ context.Context, r *spaceship.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.records {
		if id != r.ID && existing.Name == r.Name {
			return spaceship.ErrDuplicateName
		}
	}

	if r.ID == 0 {
		s.nextID++
		r.ID = s.nextID
	} else if _, ok := s.records[r.ID]; !ok {
		return spaceship.ErrRecordNotFound
	}

	s.records[r.ID] = *r
	return nil
}

func (s *Store) Delete(_ context.Context, r spaceship.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[r.ID]; !ok {
		return spaceship.ErrRecordNotFound
	}
	delete(s.records, r.ID)
	return nil
}

func (s *Store) DeleteAll(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.records)
	return nil
}

// Len reports the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *Store) sorted(keep func(spaceship.Record) bool) []spaceship.Record {
	out := make([]spaceship.Record, 0, len(s.records))
	for _, r := range s.records {
		if keep == nil || keep(r) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func containsFold(pattern string) func(spaceship.Record) bool {
	needle := strings.ToLower(pattern)
	return func(r spaceship.Record) bool {
		return strings.Contains(strings.ToLower(r.Name), needle)
	}
}

func page(records []spaceship.Record, req spaceship.PageRequest) []spaceship.Record {
	start := req.Offset()
	if start < 0 || start >= len(records) {
		return []spaceship.Record{}
	}
	end := min(start+req.Size, len(records))
	return records[start:end]
}
