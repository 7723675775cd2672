// internal/tenant/resolver.go
//
// Host → tenant resolution with cache-aside lookup.
//
// Context
// -------
// Every inbound request starts here.  The resolver checks the distributed
// cache at `tenant:host:<host>`; on a miss it queries the registry (tenant
// joined against verified domain mappings, active tenants only) and writes
// the match back with a fixed TTL.  A host with no active, verified
// mapping is a clean NotFound; cache or registry connectivity failures are
// Unavailable, because resolution is not best-effort.
//
// Invalidate must be called after any domain-mapping change; within the
// TTL window a cached tenant is deliberately stale-tolerant.
package tenant

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/kv"
	"github.com/yanizio/storefront/internal/metrics"
)

const keyPrefix = "tenant:host:"

// Resolver maps hostnames to tenant records.
type Resolver struct {
	db    *sqlx.DB
	store kv.Store
	ttl   time.Duration
}

// NewResolver wires the registry pool and the cache tier.
func NewResolver(db *sqlx.DB, store kv.Store, ttl time.Duration) *Resolver {
	return &Resolver{db: db, store: store, ttl: ttl}
}

// Resolve returns the active tenant serving host.
func (r *Resolver) Resolve(ctx context.Context, host string) (*Tenant, error) {
	ten, err := kv.GetOrLoad(ctx, r.store, keyPrefix+host, r.ttl,
		func(ctx context.Context) (*Tenant, error) {
			return r.byHost(ctx, host)
		})
	if err != nil {
		if !fault.IsNotFound(err) {
			metrics.TenantResolveErrorsTotal.Inc()
		}
		return nil, err
	}
	metrics.TenantResolveTotal.Inc()
	return ten, nil
}

// Invalidate drops the cached mapping for host.  Callers invoke it after
// any domain-mapping change in the registry.
func (r *Resolver) Invalidate(ctx context.Context, host string) error {
	if err := r.store.Delete(ctx, keyPrefix+host); err != nil {
		return fault.Unavailable(err, "invalidate tenant %s", host)
	}
	return nil
}

// byHost runs the registry query.  Only active tenants with a verified
// mapping for the exact host qualify.
func (r *Resolver) byHost(ctx context.Context, host string) (*Tenant, error) {
	const q = `
        SELECT t.id, t.name, d.domain, t.status
        FROM   tenant t
        JOIN   tenant_domain d ON d.tenant_id = t.id
        WHERE  d.domain      = ?
          AND  d.verified_at IS NOT NULL
          AND  t.status      = 'active'
        LIMIT  1`

	var ten Tenant
	if err := r.db.GetContext(ctx, &ten, q, host); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.NotFound("no tenant for host %s", host)
		}
		return nil, fault.Unavailable(err, "tenant registry query for %s", host)
	}
	return &ten, nil
}
