package di

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goliatone/go-spaceship/cache"
	"github.com/goliatone/go-spaceship/internal/platform/config"
	"github.com/goliatone/go-spaceship/spaceship"
	"github.com/goliatone/go-spaceship/store/bunstore"
	"github.com/goliatone/go-spaceship/store/gormstore"
	"github.com/goliatone/go-spaceship/store/memstore"
	"github.com/goliatone/go-spaceship/transport/httpapi"
)

// Container wires the spaceship components selected by a config.Config.
// It owns one store, one cache service and key serializer, the service built
// on top of them and the HTTP handler exposing that service.
type Container struct {
	config        config.Config
	store         spaceship.Store
	closeStore    func() error
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	service       *spaceship.Service
	handler       http.Handler
}

// NewContainer opens the configured store, migrating SQL schemas, and builds the
// cache, service and handler on top of it. Call Close to release the store.
func NewContainer(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	// Build the cache first so a bad cache config never leaves a store open
	cacheService, err := cache.NewCacheService(cfg.CacheConfig())
	if err != nil {
		return nil, err
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	keySerializer := cache.NewDefaultKeySerializer()

	service := spaceship.NewService(store,
		spaceship.WithCache(cacheService, keySerializer),
		spaceship.WithCachedLists(cfg.CacheLists),
		spaceship.WithLogger(logger.With("component", "spaceship")),
	)

	handler := httpapi.New(service,
		httpapi.WithLogger(logger.With("component", "httpapi")),
		httpapi.WithEagerNotFound(cfg.EagerNotFound),
	)

	return &Container{
		config:        cfg,
		store:         store,
		closeStore:    closeStore,
		cacheService:  cacheService,
		keySerializer: keySerializer,
		service:       service,
		handler:       handler,
	}, nil
}

// NewContainerWithDefaults builds a container over an in-memory store and the
// default cache. This is a convenience constructor for demos and tests.
func NewContainerWithDefaults(ctx context.Context) (*Container, error) {
	cfg := config.Config{
		HTTPAddr:     ":8080",
		StoreBackend: config.StoreMemory,
	}
	cacheCfg := cache.DefaultConfig()
	cfg.CacheBackend = string(cacheCfg.Backend)
	cfg.CacheCapacity = cacheCfg.Capacity
	cfg.CacheShards = cacheCfg.NumShards
	cfg.CacheTTL = cacheCfg.TTL
	cfg.CacheTable = cacheCfg.Table

	return NewContainer(ctx, cfg, nil)
}

func openStore(ctx context.Context, cfg config.Config) (spaceship.Store, func() error, error) {
	switch cfg.StoreBackend {
	case config.StoreMemory:
		return memstore.New(), func() error { return nil }, nil

	case config.StoreBun:
		db, err := bunstore.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		store := bunstore.New(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("migrate bun store: %w", err), store.Close())
		}
		return store, store.Close, nil

	case config.StoreGorm:
		db, err := gormstore.Open(cfg.DBDriver, cfg.DBDSN)
		if err != nil {
			return nil, nil, err
		}
		store := gormstore.New(db)
		if err := store.Migrate(ctx); err != nil {
			return nil, nil, errors.Join(fmt.Errorf("migrate gorm store: %w", err), store.Close())
		}
		return store, store.Close, nil
	}

	return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
}

// Store returns the entity store.
func (c *Container) Store() spaceship.Store {
	return c.store
}

// CacheService returns the singleton cache service instance.
// This allows access to the underlying cache for advanced use cases.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the singleton key serializer instance.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Service returns the spaceship service.
func (c *Container) Service() *spaceship.Service {
	return c.service
}

// Handler returns the HTTP API.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() config.Config {
	return c.config
}

// Close releases the store.
func (c *Container) Close() error {
	if c.closeStore == nil {
		return nil
	}
	return c.closeStore()
}
