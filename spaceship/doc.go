// Package spaceship holds the spaceship domain: the stored Record, the wire DTO,
// paging types, the error taxonomy, the Store contract and the application Service.
//
// The Service is the only component that talks to a Store. It validates input,
// maps between Record and DTO, and turns store failures into a small set of
// go-errors values:
//
//   - SPACESHIP_NOT_FOUND (not_found, 404) for lookups of an absent id
//   - INVALID_SPACESHIP (validation, 400) for create requests without a name
//   - INVALID_PAGE_REQUEST (validation, 400) for a negative page or a size below one
//   - DUPLICATE_NAME (conflict, 409) when the store reports a unique violation
//   - PAGINATION_ERROR (internal, 500) wrapping any failure of a paged or filtered query
//
// Point lookups translate only the absent-record case; other store faults on those
// paths are returned as-is.
//
// # Caching
//
// With WithCache, GetByID reads through the "spaceship" cache region. ListAll and
// ListPaginated read through "spaceships" and "spaceships_paginated" only when
// WithCachedLists(true) is also set. Writes never evict cached reads, so a cached
// entry can be stale after Update or Delete until InvalidateCache or ClearCache
// is called.
package spaceship
