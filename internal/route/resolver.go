// internal/route/resolver.go
//
// URL path → page type and template binding data.
//
// Context
// -------
// Dispatch is pure pattern matching over a fixed priority list:
//
//	1. exact root            → index
//	2. /products/<handle>    → product
//	3. /collections/<handle> → collection
//	4. /pages/<handle>       → page
//	5. anything else         → NotFound
//
// The order is load-bearing and asserted by a test: a static page whose
// handle collides with a reserved prefix must lose to the catalog route.
// Handles are restricted to lowercase ASCII letters, digits, and hyphens;
// a segment outside that class never matches and falls through to
// NotFound.  A well-formed handle naming no existing entity is NotFound
// too — never an empty page.
package route

import (
	"context"
	"regexp"
	"strings"

	"github.com/yanizio/storefront/internal/catalog"
	"github.com/yanizio/storefront/internal/fault"
)

// Page types produced by Resolve.  Each doubles as the template name,
// except home which renders "index".
const (
	TypeHome       = "home"
	TypeProduct    = "product"
	TypeCollection = "collection"
	TypePage       = "page"
)

// PatternOrder is the dispatch priority Resolve walks.  Do not reorder
// without migrating colliding page handles first.
var PatternOrder = []string{TypeHome, TypeProduct, TypeCollection, TypePage}

// prefixes maps each handle-bearing page type to its reserved path prefix.
var prefixes = map[string]string{
	TypeProduct:    "/products/",
	TypeCollection: "/collections/",
	TypePage:       "/pages/",
}

var handleRE = regexp.MustCompile(`^[a-z0-9-]+$`)

// RouteData tells the renderer which template to run and what to bind.
// It is rebuilt per request and never cached as a whole; the catalog
// lookups inside it are cached individually.
type RouteData struct {
	Type     string
	Template string
	Data     map[string]any
}

// Resolver assembles RouteData from the catalog.
type Resolver struct {
	provider catalog.Provider
	pages    catalog.PageStore
}

// NewResolver wires the (cached) catalog provider and page store.
func NewResolver(provider catalog.Provider, pages catalog.PageStore) *Resolver {
	return &Resolver{provider: provider, pages: pages}
}

// Resolve maps path to RouteData for tenantID, trying each page type in
// PatternOrder and taking the first match.
func (r *Resolver) Resolve(ctx context.Context, path string, tenantID int64) (*RouteData, error) {
	path = strings.TrimSuffix(path, "/")

	for _, typ := range PatternOrder {
		if typ == TypeHome {
			if path == "" {
				return r.home(ctx, tenantID)
			}
			continue
		}
		handle, ok := cutHandle(path, prefixes[typ])
		if !ok {
			continue
		}
		switch typ {
		case TypeProduct:
			return r.product(ctx, tenantID, handle)
		case TypeCollection:
			return r.collection(ctx, tenantID, handle)
		case TypePage:
			return r.page(ctx, tenantID, handle)
		}
	}
	return nil, fault.NotFound("no route for %s", path)
}

// cutHandle strips prefix and validates the remaining single segment
// against the handle character class.
func cutHandle(path, prefix string) (string, bool) {
	rest, ok := strings.CutPrefix(path, prefix)
	if !ok || rest == "" {
		return "", false
	}
	if !handleRE.MatchString(rest) {
		return "", false
	}
	return rest, true
}

func (r *Resolver) home(ctx context.Context, tenantID int64) (*RouteData, error) {
	featured, err := r.provider.ListProducts(ctx, tenantID, catalog.Filter{Featured: true, Limit: 12})
	if err != nil {
		return nil, err
	}
	collections, err := r.provider.ListCollections(ctx, tenantID, catalog.Filter{Limit: 12})
	if err != nil {
		return nil, err
	}
	return &RouteData{
		Type:     TypeHome,
		Template: "index",
		Data: map[string]any{
			"featured_products": featured,
			"collections":       collections,
		},
	}, nil
}

func (r *Resolver) product(ctx context.Context, tenantID int64, handle string) (*RouteData, error) {
	products, err := r.provider.ListProducts(ctx, tenantID, catalog.Filter{Handle: handle, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fault.NotFound("no product %q", handle)
	}
	return &RouteData{
		Type:     TypeProduct,
		Template: "product",
		Data:     map[string]any{"product": products[0]},
	}, nil
}

func (r *Resolver) collection(ctx context.Context, tenantID int64, handle string) (*RouteData, error) {
	collections, err := r.provider.ListCollections(ctx, tenantID, catalog.Filter{Handle: handle, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(collections) == 0 {
		return nil, fault.NotFound("no collection %q", handle)
	}
	col := collections[0]
	products, err := r.provider.ListProducts(ctx, tenantID, catalog.Filter{CollectionID: col.ID})
	if err != nil {
		return nil, err
	}
	return &RouteData{
		Type:     TypeCollection,
		Template: "collection",
		Data: map[string]any{
			"collection": col,
			"products":   products,
		},
	}, nil
}

func (r *Resolver) page(ctx context.Context, tenantID int64, handle string) (*RouteData, error) {
	page, err := r.pages.PageByHandle(ctx, tenantID, handle)
	if err != nil {
		return nil, err
	}
	return &RouteData{
		Type:     TypePage,
		Template: "page",
		Data:     map[string]any{"page": page},
	}, nil
}
