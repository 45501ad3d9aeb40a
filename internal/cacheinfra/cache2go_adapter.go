package cacheinfra

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/muesli/cache2go"
)

// tableService stores results in a cache2go table. It computes on miss and then caches,
// so concurrent misses on one key may each call the fetch; the last write wins.
type tableService struct {
	table *cache2go.CacheTable
	ttl   time.Duration
}

// NewTableService validates cfg and opens (or joins) the cache2go table cfg.Table.
func NewTableService(cfg Config) (*tableService, error) {
	cfg.Backend = BackendCache2go
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &tableService{
		table: cache2go.Cache(cfg.Table),
		ttl:   cfg.TTL,
	}, nil
}

// GetOrFetch returns the cached value for key, or runs fetchFn and stores its result.
// Reads extend the entry's lifetime when a TTL is configured.
func (s *tableService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	if err := validateFetchFn(fetchFn); err != nil {
		return nil, err
	}

	if item, err := s.table.Value(key); err == nil {
		return item.Data(), nil
	}

	value, err := callFetch(ctx, fetchFn)
	if err != nil {
		return nil, err
	}

	s.table.Add(key, s.ttl, value)
	return value, nil
}

// Delete removes a single entry. Missing keys are not an error.
func (s *tableService) Delete(_ context.Context, key string) error {
	if _, err := s.table.Delete(key); err != nil && !errors.Is(err, cache2go.ErrKeyNotFound) {
		return err
	}
	return nil
}

// DeleteByPrefix removes every entry whose key starts with prefix.
func (s *tableService) DeleteByPrefix(ctx context.Context, prefix string) error {
	// Foreach holds the table lock, collect first and delete afterwards
	var keys []string
	s.table.Foreach(func(key interface{}, _ *cache2go.CacheItem) {
		if k, ok := key.(string); ok && strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	})

	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

// Len reports the number of stored entries.
func (s *tableService) Len() int {
	return s.table.Count()
}
