// internal/kv/store.go
//
// Distributed cache tier client.
//
// Context
// -------
// Every cache-aside lookup in the storefront (tenant, theme, catalog) goes
// through the Store interface.  The production implementation is Redis
// (redis.go); tests and single-node dev setups use the in-memory Memory
// store (memory.go).
//
// Key namespace (must stay stable — existing deployments have live keys):
//
//	tenant:host:{host}
//	theme:{tenantId}
//	products:{tenantId}:{json(filter)}
//	collections:{tenantId}:{json(filter)}
//	storefront:products:{tenantId}:{json(filter)}  (products service source)
//
// DeletePrefix exists because the catalog key space is filter-shape
// dependent and unbounded; invalidating a tenant means walking a prefix,
// not deleting one key.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by Get when the key is absent.  Callers treat it as
// a cache miss, never as a failure.
var ErrMiss = errors.New("kv: cache miss")

// Store is the uniform get/set/delete surface over the distributed cache.
// Values are opaque byte slices; callers own serialization.
type Store interface {
	// Get returns the value at key, or ErrMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set writes value at key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a single key.  Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// DeletePrefix removes every key beginning with prefix and reports how
	// many were deleted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	// Ping verifies connectivity; used by readiness checks.
	Ping(ctx context.Context) error
}
