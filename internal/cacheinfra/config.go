package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Backend names a cache implementation.
type Backend string

const (
	// BackendSturdyc is a sharded cache that coalesces concurrent fetches for the
	// same key, so each key is computed at most once while a fetch is in flight.
	BackendSturdyc Backend = "sturdyc"

	// BackendCache2go stores results in a named cache2go table. Concurrent misses
	// on the same key each run the fetch and the last writer wins.
	BackendCache2go Backend = "cache2go"
)

// neverExpire approximates a process-lifetime TTL for backends that require one.
const neverExpire = 365 * 24 * time.Hour

// Config holds the configuration shared by the cache backends.
type Config struct {
	// Backend selects the implementation. Empty means BackendSturdyc.
	Backend Backend

	// Capacity defines the maximum number of entries that the sturdyc cache can store.
	Capacity int

	// NumShards determines the number of sturdyc shards used for concurrent access.
	NumShards int

	// TTL is the time-to-live for cached entries. sturdyc requires a positive value;
	// cache2go treats zero as "never expires".
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries sturdyc evicts
	// when it reaches capacity. Must be between 1-100.
	EvictionPercentage int

	// EarlyRefresh configures sturdyc background refreshes. Nil disables them.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage lets sturdyc remember keys whose fetch returned sturdyc.ErrNotFound.
	MissingRecordStorage bool

	// EvictionInterval sets how often sturdyc checks for expired entries.
	// Zero value uses the library default.
	EvictionInterval time.Duration

	// Table is the cache2go table name. Tables are process-global, so two services
	// configured with the same name share entries.
	Table string
}

// EarlyRefreshConfig configures sturdyc early refresh behavior.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns an unbounded-in-practice memo table: large capacity, a TTL
// of one year, no early refreshes and no missing record storage.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendSturdyc,
		Capacity:           100000,
		NumShards:          64,
		TTL:                neverExpire,
		EvictionPercentage: 10,
		Table:              "spaceship",
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go straight to sturdyc.New.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}

	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

func (c Config) backend() Backend {
	if c.Backend == "" {
		return BackendSturdyc
	}
	return c.Backend
}

// Validate checks if the configuration values are valid for the selected backend.
func (c Config) Validate() error {
	switch c.backend() {
	case BackendSturdyc:
		return c.validateSturdyc()
	case BackendCache2go:
		if c.Table == "" {
			return &ConfigError{Field: "Table", Message: "must not be empty"}
		}
		if c.TTL < 0 {
			return &ConfigError{Field: "TTL", Message: "must be non-negative"}
		}
		return nil
	default:
		return &ConfigError{Field: "Backend", Message: "unknown backend " + string(c.Backend)}
	}
}

func (c Config) validateSturdyc() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}

	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}

	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}

	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}

	if er := c.EarlyRefresh; er != nil {
		durations := []struct {
			field string
			value time.Duration
		}{
			{"EarlyRefresh.MinAsyncRefreshTime", er.MinAsyncRefreshTime},
			{"EarlyRefresh.MaxAsyncRefreshTime", er.MaxAsyncRefreshTime},
			{"EarlyRefresh.SyncRefreshTime", er.SyncRefreshTime},
			{"EarlyRefresh.RetryBaseDelay", er.RetryBaseDelay},
		}
		for _, d := range durations {
			if d.value < 0 {
				return &ConfigError{Field: d.field, Message: "must be non-negative"}
			}
		}
	}

	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
