// Package cache provides the read-through cache used by the spaceship service.
//
// # Overview
//
// The package exports three building blocks:
//
//   - CacheService: a read-through cache keyed by string
//   - KeySerializer: builds stable cache keys from a region name and arguments
//   - Region: a named group of keys that can be invalidated together
//
// Two backends are available through NewCacheService. BackendSturdyc coalesces
// concurrent misses on the same key into a single fetch. BackendCache2go stores
// entries in a named cache2go table; concurrent misses each run the fetch and the
// last result written wins.
//
// # Basic Usage
//
//	svc, err := cache.NewCacheService(cache.DefaultConfig())
//	if err != nil {
//		return err
//	}
//
//	byID := cache.NewRegion("spaceship", svc, cache.NewDefaultKeySerializer())
//	ship, err := cache.Fetch(ctx, byID, func(ctx context.Context) (spaceship.Record, error) {
//		return store.FindByID(ctx, id)
//	}, id)
//
// Fetches that return an error are never stored, so the next call for the same key
// reaches the source again.
//
// # Key Serialization Strategy
//
// The default key serializer uses reflection to handle various Go types:
//
//   - Pointers: followed, so a pointer and its value share a key
//   - Basic types: direct string representation
//   - Slices/arrays: recursive serialization of elements
//   - Maps: sorted key-value pairs for deterministic output
//   - Structs: exported fields with name:value pairs
//   - Functions and channels: %p formatting, stable only within a process
//
// Keys have the form region::arg1::arg2. Region names are normalized to snake_case,
// so "spaceshipsPaginated" becomes "spaceships_paginated".
//
// # Custom Key Serializers
//
// Implement KeySerializer when keys must be shared across processes or follow a
// backend-specific format:
//
//	type prefixedSerializer struct {
//		prefix string
//		next   cache.KeySerializer
//	}
//
//	func (s prefixedSerializer) SerializeKey(method string, args ...any) string {
//		return s.prefix + s.next.SerializeKey(method, args...)
//	}
package cache
