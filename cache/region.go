package cache

import (
	"context"
	"errors"

	"github.com/puzpuzpuz/xsync/v3"
)

// Region groups the cache entries of one read operation under a shared, snake_case
// name. Every key produced through the region is tracked so the whole region can be
// dropped without scanning the backend.
type Region struct {
	name       string
	cache      CacheService
	serializer KeySerializer
	keys       *xsync.MapOf[string, struct{}]
}

// NewRegion creates a region named after name normalized to snake_case.
// A nil serializer falls back to NewDefaultKeySerializer.
func NewRegion(name string, service CacheService, serializer KeySerializer) *Region {
	if serializer == nil {
		serializer = NewDefaultKeySerializer()
	}
	return &Region{
		name:       toSnake(name),
		cache:      service,
		serializer: serializer,
		keys:       xsync.NewMapOf[string, struct{}](),
	}
}

// Name returns the normalized region name.
func (r *Region) Name() string {
	return r.name
}

// Key returns the cache key for args within the region.
func (r *Region) Key(args ...any) string {
	return r.serializer.SerializeKey(r.name, args...)
}

// Len reports how many keys the region has handed out since the last Clear.
func (r *Region) Len() int {
	return r.keys.Size()
}

// Invalidate drops the entry stored for args.
func (r *Region) Invalidate(ctx context.Context, args ...any) error {
	key := r.Key(args...)
	r.keys.Delete(key)
	return r.cache.Delete(ctx, key)
}

// Clear drops every entry in the region, including entries written by other regions
// with the same name on the same backend.
func (r *Region) Clear(ctx context.Context) error {
	var keys []string
	r.keys.Range(func(key string, _ struct{}) bool {
		keys = append(keys, key)
		return true
	})

	var errs []error
	for _, key := range keys {
		if err := r.cache.Delete(ctx, key); err != nil {
			errs = append(errs, err)
			continue
		}
		r.keys.Delete(key)
	}

	if err := r.cache.Delete(ctx, r.name); err != nil {
		errs = append(errs, err)
	}
	if err := r.cache.DeleteByPrefix(ctx, r.name+KeySeparator); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (r *Region) track(key string) {
	r.keys.Store(key, struct{}{})
}

// Fetch reads args from the region, running fetchFn on a miss.
func Fetch[T any](ctx context.Context, r *Region, fetchFn FetchFn[T], args ...any) (T, error) {
	key := r.Key(args...)
	r.track(key)
	return GetOrFetch(ctx, r.cache, key, fetchFn)
}

