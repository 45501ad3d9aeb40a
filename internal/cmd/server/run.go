package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goliatone/go-spaceship/internal/platform/config"
	"github.com/goliatone/go-spaceship/internal/platform/otel"
	"github.com/goliatone/go-spaceship/pkg/di"
)

// ServiceName identifies the process in traces and logs.
const ServiceName = "spaceship"

const readHeaderTimeout = 5 * time.Second

// Run serves the spaceship API on cfg.HTTPAddr until ctx is cancelled, then shuts
// the server down gracefully and releases the store.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) (err error) {
	shutdownTracing, err := otel.Setup(ctx, ServiceName, cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		err = errors.Join(err, shutdownTracing(flushCtx))
	}()

	container, err := di.NewContainer(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("init container: %w", err)
	}
	defer func() {
		err = errors.Join(err, container.Close())
	}()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           container.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serveErr := make(chan error, 1)
	logger.Info("spaceship api listening",
		"addr", cfg.HTTPAddr,
		"store", cfg.StoreBackend,
		"cache", cfg.CacheBackend,
		"cached_lists", cfg.CacheLists,
	)
	go func() {
		serveErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		logger.Info("spaceship api stopped")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}
