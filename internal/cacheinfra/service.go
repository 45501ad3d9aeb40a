package cacheinfra

import "context"

// Service is the method set every backend in this package provides.
type Service interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Len() int
}

var (
	_ Service = (*sturdycService)(nil)
	_ Service = (*tableService)(nil)
)

// New builds the backend selected by cfg.Backend.
func New(cfg Config) (Service, error) {
	var (
		svc Service
		err error
	)

	switch cfg.backend() {
	case BackendSturdyc:
		svc, err = NewSturdycService(cfg)
	case BackendCache2go:
		svc, err = NewTableService(cfg)
	default:
		err = cfg.Validate()
	}

	if err != nil {
		return nil, err
	}
	return svc, nil
}
