package config

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-spaceship/cache"
)

// Store backends.
const (
	StoreMemory = "memory"
	StoreBun    = "bun"
	StoreGorm   = "gorm"
)

// Database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// drivers lists the database drivers each SQL store backend can open.
var drivers = map[string][]any{
	StoreBun:  {DriverSQLite, DriverPostgres},
	StoreGorm: {DriverSQLite, DriverMySQL},
}

// Config is the service configuration.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	StoreBackend string `env:"STORE_BACKEND" envDefault:"bun"`
	DBDriver     string `env:"DB_DRIVER" envDefault:"sqlite"`
	DBDSN        string `env:"DB_DSN" envDefault:"file:spaceship.db"`

	CacheBackend  string        `env:"CACHE_BACKEND" envDefault:"sturdyc"`
	CacheLists    bool          `env:"CACHE_LISTS" envDefault:"false"`
	CacheCapacity int           `env:"CACHE_CAPACITY" envDefault:"100000"`
	CacheShards   int           `env:"CACHE_SHARDS" envDefault:"64"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"8760h"`
	CacheTable    string        `env:"CACHE_TABLE" envDefault:"spaceship"`

	EagerNotFound bool       `env:"EAGER_NOT_FOUND" envDefault:"false"`
	LogLevel      slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	OTelEndpoint  string     `env:"OTEL_ENDPOINT"`
}

// Load reads Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field values and that DBDriver is supported by StoreBackend.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.StoreBackend, validation.Required, validation.In(StoreMemory, StoreBun, StoreGorm)),
		validation.Field(&c.DBDriver, validation.When(c.StoreBackend != StoreMemory,
			validation.Required,
			validation.In(drivers[c.StoreBackend]...).Error(fmt.Sprintf("is not supported by the %s store", c.StoreBackend)),
		)),
		validation.Field(&c.DBDSN, validation.When(c.StoreBackend != StoreMemory, validation.Required)),
		validation.Field(&c.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if err := c.CacheConfig().Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CacheConfig returns the cache settings carried by c.
func (c Config) CacheConfig() cache.Config {
	cfg := cache.DefaultConfig()
	cfg.Backend = cache.Backend(c.CacheBackend)
	cfg.Capacity = c.CacheCapacity
	cfg.NumShards = c.CacheShards
	cfg.TTL = c.CacheTTL
	cfg.Table = c.CacheTable
	return cfg
}
