// internal/theme/loader.go
//
// Tenant → theme loading, three-tier cache-aside.
//
// Context
// -------
// Tier 1 is a process-local LRU, tier 2 is Redis under `theme:<tenantId>`,
// and the source of truth is theme metadata in MySQL plus template objects
// in blob storage.  Both cache tiers share one logical TTL so they expire
// in lockstep, and both are populated before a storage-backed load
// returns.
//
// An individual template object missing from the bucket is tolerated: the
// loader logs it and omits the entry from the bundle.  Registry and
// storage *errors* propagate — a half-fetched theme is never cached.
//
// Loads are singleflighted per tenant, so a burst of cold requests for one
// storefront costs one storage round trip.
package theme

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	"golang.org/x/sync/singleflight"

	"github.com/yanizio/storefront/internal/blob"
	"github.com/yanizio/storefront/internal/cache"
	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/kv"
	"github.com/yanizio/storefront/internal/metrics"

	"go.uber.org/zap"
)

const (
	keyPrefix     = "theme:"
	localCapacity = 256
)

// Loader resolves a tenant's "main" theme through the tier stack.
type Loader struct {
	db      *sqlx.DB
	store   kv.Store
	fetcher blob.Fetcher
	local   *cache.LRU
	ttl     time.Duration
	sfg     singleflight.Group
}

// NewLoader wires the registry pool, the cache tier, and blob storage.
func NewLoader(db *sqlx.DB, store kv.Store, fetcher blob.Fetcher, ttl time.Duration) *Loader {
	local := cache.New(localCapacity)
	local.OnEvict(func() { metrics.CacheEvictionsTotal.WithLabelValues("theme").Inc() })
	return &Loader{
		db:      db,
		store:   store,
		fetcher: fetcher,
		local:   local,
		ttl:     ttl,
	}
}

// Load returns the theme for tenantID, consulting tiers in order.
func (l *Loader) Load(ctx context.Context, tenantID int64) (*Theme, error) {
	if v, ok := l.local.Get(tenantID); ok {
		metrics.CacheHitsTotal.WithLabelValues("process").Inc()
		return v.(*Theme), nil
	}
	metrics.CacheMissesTotal.WithLabelValues("process").Inc()

	v, err, _ := l.sfg.Do(strconv.FormatInt(tenantID, 10), func() (interface{}, error) {
		th, err := kv.GetOrLoad(ctx, l.store, keyPrefix+strconv.FormatInt(tenantID, 10), l.ttl,
			func(ctx context.Context) (*Theme, error) {
				return l.loadFromStorage(ctx, tenantID)
			})
		if err != nil {
			return nil, err
		}
		// Keep tier 1 in lockstep with tier 2.
		l.local.Add(tenantID, th, l.ttl)
		return th, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Theme), nil
}

// Invalidate clears both tiers for tenantID.  Must be called after any
// theme publish.
func (l *Loader) Invalidate(ctx context.Context, tenantID int64) error {
	l.local.Remove(tenantID)
	if err := l.store.Delete(ctx, keyPrefix+strconv.FormatInt(tenantID, 10)); err != nil {
		return fault.Unavailable(err, "invalidate theme for tenant %d", tenantID)
	}
	return nil
}

//
// Source of truth
//

// themeRow mirrors the theme metadata table.
type themeRow struct {
	ID       int64          `db:"id"`
	Name     string         `db:"name"`
	Version  string         `db:"version"`
	S3Key    string         `db:"s3_key"`
	Settings sql.NullString `db:"settings"`
}

// loadFromStorage reads metadata for the tenant's "main" theme role, then
// fetches each known template from blob storage at the deterministic key
// `<s3_key>/templates/<name>`.
func (l *Loader) loadFromStorage(ctx context.Context, tenantID int64) (*Theme, error) {
	const q = `
        SELECT id, name, version, s3_key, settings
        FROM   theme
        WHERE  tenant_id = ?
          AND  role      = 'main'
        LIMIT  1`

	var row themeRow
	if err := l.db.GetContext(ctx, &row, q, tenantID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.NotFound("no main theme for tenant %d", tenantID)
		}
		return nil, fault.Unavailable(err, "theme metadata for tenant %d", tenantID)
	}

	th := &Theme{
		ID:        row.ID,
		TenantID:  tenantID,
		Name:      row.Name,
		Version:   row.Version,
		Templates: make(map[string]string, len(TemplateNames)),
		Settings:  map[string]any{},
	}
	if row.Settings.Valid && row.Settings.String != "" {
		if err := json.Unmarshal([]byte(row.Settings.String), &th.Settings); err != nil {
			zap.S().Warnw("theme settings unreadable, serving empty",
				"tenant", tenantID, "theme", row.ID, "err", err)
		}
	}

	for _, name := range TemplateNames {
		key := row.S3Key + "/templates/" + name
		src, err := l.fetcher.Fetch(ctx, key)
		if errors.Is(err, blob.ErrNotFound) {
			zap.S().Infow("template object absent, omitted from bundle",
				"tenant", tenantID, "template", name)
			continue
		}
		if err != nil {
			return nil, fault.Unavailable(err, "fetch template %s for tenant %d", name, tenantID)
		}
		th.Templates[name] = string(src)
	}

	metrics.ThemeLoadTotal.Inc()
	return th, nil
}
