// internal/catalog/provider.go
//
// Provider interface and the caching wrapper.
//
// Context
// -------
// Two sources exist: SQL against the tenant's own schema (canonical) and
// the remote products service (service-oriented variant, selected by
// config).  Cached wraps either one with the shared cache-aside helper
// under a short TTL — listings are more volatile than themes, so their
// window is minutes, not tens of minutes.
//
// InvalidateTenant is a prefix walk, not a key delete: the key space is
// filter-shape dependent and unbounded.
package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/kv"
)

// Key families.  The SQL source writes product entries under "products";
// the remote products service keeps the "storefront:products" family it
// has always used, so a deployment flipping between sources reuses any
// live entries instead of cold-starting.  Collections share one family.
const (
	productsFamily       = "products"
	legacyProductsFamily = "storefront:products"
	collectionsFamily    = "collections"
)

// Provider lists catalog entities for one tenant.
type Provider interface {
	ListProducts(ctx context.Context, tenantID int64, f Filter) ([]Product, error)
	ListCollections(ctx context.Context, tenantID int64, f Filter) ([]Collection, error)
}

// productKeyer is the optional upgrade a Provider implements when its
// product entries live under a non-default key family.
type productKeyer interface {
	productKeyFamily() string
}

// Cached decorates a Provider with the distributed cache tier.
type Cached struct {
	source   Provider
	store    kv.Store
	ttl      time.Duration
	products string // key family for product entries
}

// NewCached wraps source, picking the product key family the source
// declares (default "products").
func NewCached(source Provider, store kv.Store, ttl time.Duration) *Cached {
	c := &Cached{source: source, store: store, ttl: ttl, products: productsFamily}
	if pk, ok := source.(productKeyer); ok {
		c.products = pk.productKeyFamily()
	}
	return c
}

func (c *Cached) ListProducts(ctx context.Context, tenantID int64, f Filter) ([]Product, error) {
	return kv.GetOrLoad(ctx, c.store, CacheKey(c.products, tenantID, f), c.ttl,
		func(ctx context.Context) ([]Product, error) {
			return c.source.ListProducts(ctx, tenantID, f)
		})
}

func (c *Cached) ListCollections(ctx context.Context, tenantID int64, f Filter) ([]Collection, error) {
	return kv.GetOrLoad(ctx, c.store, CacheKey(collectionsFamily, tenantID, f), c.ttl,
		func(ctx context.Context) ([]Collection, error) {
			return c.source.ListCollections(ctx, tenantID, f)
		})
}

// InvalidateTenant removes every cached listing for the tenant, however
// many filter shapes accumulated.  All key families are walked, not just
// the active source's, so entries written before a source flip are
// dropped too.  Returns the number of keys dropped.
func (c *Cached) InvalidateTenant(ctx context.Context, tenantID int64) (int, error) {
	id := strconv.FormatInt(tenantID, 10)
	total := 0
	for _, family := range []string{productsFamily, legacyProductsFamily, collectionsFamily} {
		n, err := c.store.DeletePrefix(ctx, family+":"+id+":")
		if err != nil {
			return total, fault.Unavailable(err, "invalidate %s for tenant %d", family, tenantID)
		}
		total += n
	}
	return total, nil
}
