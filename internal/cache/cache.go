package cache

import (
	"fmt"
	"time"

	"github.com/neurocase/neurocase/internal/model"
)

// Version is baked into every conversion key. Bumping it invalidates
// all previously cached conversions after a prompt or scoring change.
const Version = "v2_professional"

// DefaultTTL bounds how long an accepted conversion stays cached.
const DefaultTTL = time.Hour

// conversionPrefix scopes every conversion key. Clear implementations
// only touch keys under it, never a whole store.
const conversionPrefix = "mcq_case_conversion_"

// Cache is the shared contract of all cache backends. Values are raw
// bytes; callers own the encoding.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// ConversionKey names the cached conversion of one question under the
// current cache version.
func ConversionKey(questionID int) string {
	return fmt.Sprintf("%s%d_%s", conversionPrefix, questionID, Version)
}

// New builds the backend named by the configuration. A disabled cache
// returns nil, which callers treat as a permanent miss.
func New(cfg model.CacheConfig) (Cache, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryCache(ttl, 10*time.Minute), nil
	case "disk":
		return NewDiskCache(cfg.Dir, ttl), nil
	case "layered":
		return NewLayeredCache(ttl, cfg.Dir, ttl), nil
	case "redis":
		return NewRedisCache(cfg.RedisAddr, ttl)
	default:
		return nil, fmt.Errorf("unknown cache backend: %s", cfg.Backend)
	}
}
