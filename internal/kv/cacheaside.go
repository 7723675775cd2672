// internal/kv/cacheaside.go
//
// Generic cache-aside helper.
//
// Context
// -------
// Tenant resolution, theme loading, and catalog queries all follow the
// same read pattern: check the distributed cache, fall through to the
// source of truth on a miss, and write the result back with a TTL.
// GetOrLoad captures that pattern once, parameterized by key, TTL, and
// loader, so the three call sites differ only in what they load.
//
// Values cross the wire as JSON.  A corrupt or unreadable entry is treated
// as a miss and overwritten by a fresh load; a cache *transport* failure
// is a hard error, because resolution correctness depends on the tier.
package kv

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/metrics"
)

// Loader produces the authoritative value for one key.
type Loader[T any] func(ctx context.Context) (T, error)

// GetOrLoad returns the cached value at key, or loads, caches, and returns
// it.  Loader errors pass through unwrapped so callers keep their kinds;
// store errors come back as fault.Unavailable.
func GetOrLoad[T any](ctx context.Context, store Store, key string, ttl time.Duration, load Loader[T]) (T, error) {
	var zero T

	raw, err := store.Get(ctx, key)
	switch {
	case err == nil:
		var val T
		if uerr := json.Unmarshal(raw, &val); uerr == nil {
			metrics.CacheHitsTotal.WithLabelValues("redis").Inc()
			return val, nil
		}
		// Corrupt entry: fall through to the loader and overwrite below.
		zap.S().Warnw("cache entry unreadable, reloading", "key", key)
		metrics.CacheMissesTotal.WithLabelValues("redis").Inc()
	case errors.Is(err, ErrMiss):
		metrics.CacheMissesTotal.WithLabelValues("redis").Inc()
	default:
		return zero, fault.Unavailable(err, "cache get %s", key)
	}

	val, err := load(ctx)
	if err != nil {
		return zero, err
	}

	buf, err := json.Marshal(val)
	if err != nil {
		return zero, fault.New(fault.KindUnknown, err, "cache encode %s", key)
	}
	if err := store.Set(ctx, key, buf, ttl); err != nil {
		return zero, fault.Unavailable(err, "cache set %s", key)
	}
	return val, nil
}
