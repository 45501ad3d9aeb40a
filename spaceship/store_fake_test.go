package spaceship_test

import (
	"context"
	"sync"

	"github.com/goliatone/go-spaceship/spaceship"
	"github.com/goliatone/go-spaceship/store/memstore"
)

// countingStore wraps a memstore, counts calls per method and can fail on demand.
type countingStore struct {
	*memstore.Store

	mu    sync.Mutex
	calls map[string]int
	fail  map[string]error
}

func newCountingStore(seed ...spaceship.Record) *countingStore {
	return &countingStore{
		Store: memstore.New(seed...),
		calls: map[string]int{},
		fail:  map[string]error{},
	}
}

func (s *countingStore) record(method string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[method]++
	return s.fail[method]
}

func (s *countingStore) failWith(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail[method] = err
}

func (s *countingStore) count(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

func (s *countingStore) mutations() int {
	return s.count("Save") + s.count("Delete") + s.count("DeleteAll")
}

func (s *countingStore) FindAll(ctx context.Context) ([]spaceship.Record, error) {
	if err := s.record("FindAll"); err != nil {
		return nil, err
	}
	return s.Store.FindAll(ctx)
}

func (s *countingStore) FindByID(ctx context.Context, id int64) (spaceship.Record, error) {
	if err := s.record("FindByID"); err != nil {
		return spaceship.Record{}, err
	}
	return s.Store.FindByID(ctx, id)
}

func (s *countingStore) FindPage(ctx context.Context, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	if err := s.record("FindPage"); err != nil {
		return nil, 0, err
	}
	return s.Store.FindPage(ctx, req)
}

func (s *countingStore) FindByNameContaining(ctx context.Context, pattern string) ([]spaceship.Record, error) {
	if err := s.record("FindByNameContaining"); err != nil {
		return nil, err
	}
	return s.Store.FindByNameContaining(ctx, pattern)
}

func (s *countingStore) FindByNameContainingPage(ctx context.Context, pattern string, req spaceship.PageRequest) ([]spaceship.Record, int, error) {
	if err := s.record("FindByNameContainingPage"); err != nil {
		return nil, 0, err
	}
	return s.Store.FindByNameContainingPage(ctx, pattern, req)
}

func (s *countingStore) Save(ctx context.Context, r *spaceship.Record) error {
	if err := s.record("Save"); err != nil {
		return err
	}
	return s.Store.Save(ctx, r)
}

func (s *countingStore) Delete(ctx context.Context, r spaceship.Record) error {
	if err := s.record("Delete"); err != nil {
		return err
	}
	return s.Store.Delete(ctx, r)
}

func (s *countingStore) DeleteAll(ctx context.Context) error {
	if err := s.record("DeleteAll"); err != nil {
		return err
	}
	return s.Store.DeleteAll(ctx)
}
