package session

import (
	"context"
	"fmt"
	"time"
)

// Store backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds session store initialization parameters.
type Config struct {
	Backend  string        `json:"backend,omitempty" mapstructure:"backend"`
	Path     string        `json:"path,omitempty" mapstructure:"path"`
	CacheTTL time.Duration `json:"cache_ttl,omitempty" mapstructure:"cache_ttl"`
}

// DefaultConfig returns the default session store configuration: SQLite at
// yalla_trip.db with a 30 minute read-through cache.
func DefaultConfig() Config {
	return Config{
		Backend:  BackendSQLite,
		Path:     "yalla_trip.db",
		CacheTTL: 30 * time.Minute,
	}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Backend != "" {
		c.Backend = source.Backend
	}
	if source.Path != "" {
		c.Path = source.Path
	}
	if source.CacheTTL > 0 {
		c.CacheTTL = source.CacheTTL
	}
}

// NewStore creates a Store from configuration. A positive CacheTTL wraps
// the backend in a read-through cache.
func NewStore(ctx context.Context, cfg *Config) (Store, error) {
	var store Store
	switch cfg.Backend {
	case BackendMemory, "":
		store = NewMemoryStore()
	case BackendSQLite:
		s, err := NewSQLiteStore(ctx, cfg.Path)
		if err != nil {
			return nil, err
		}
		store = s
	case BackendFile:
		store = NewFileStore(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown session backend %q", cfg.Backend)
	}

	if cfg.CacheTTL > 0 {
		store = NewCachedStore(store, cfg.CacheTTL)
	}
	return store, nil
}
