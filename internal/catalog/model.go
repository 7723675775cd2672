// internal/catalog/model.go
//
// Catalog entities and the list filter.
//
// Context
// -------
// Products and collections are read-only here; the catalog service or the
// tenant's own schema is the source of truth, and the renderer never
// mutates either.  Filter is part of the cache key, so its JSON encoding
// must stay deterministic — fields are emitted in declaration order by
// encoding/json, and omitempty keeps the common shapes short.
package catalog

import (
	"encoding/json"
	"fmt"
)

// Product is one sellable catalog entity.
type Product struct {
	ID          int64     `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Handle      string    `db:"handle" json:"handle"`
	Description string    `db:"description" json:"description"`
	PriceCents  int64     `db:"price_cents" json:"price_cents"`
	Published   bool      `db:"published" json:"published"`
	Variants    []Variant `db:"-" json:"variants,omitempty"`
}

// Variant is one purchasable option of a product.
type Variant struct {
	ID         int64  `json:"id"`
	Title      string `json:"title"`
	SKU        string `json:"sku"`
	PriceCents int64  `json:"price_cents"`
}

// Collection groups products under a handle.
type Collection struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Handle      string `db:"handle" json:"handle"`
	Description string `db:"description" json:"description"`
	Published   bool   `db:"published" json:"published"`
}

// Filter narrows a listing.  The zero value lists everything published,
// up to the provider's default limit.
type Filter struct {
	Handle       string `json:"handle,omitempty"`
	CollectionID int64  `json:"collection_id,omitempty"`
	Featured     bool   `json:"featured,omitempty"`
	Limit        int    `json:"limit,omitempty"`
	Offset       int    `json:"offset,omitempty"`
}

// CacheKey builds `<family>:<tenantId>:<json(filter)>`.  Distinct filter
// shapes never collide because the full filter value is part of the key,
// and the per-tenant prefix is what InvalidateTenant walks.
func CacheKey(family string, tenantID int64, f Filter) string {
	buf, _ := json.Marshal(f)
	return fmt.Sprintf("%s:%d:%s", family, tenantID, buf)
}
