// internal/catalog/sql.go
//
// SQL-backed Provider: one query per call against the tenant's own schema
// (`tenant_<id>.product` / `.collection`), multi-tenant by schema rather
// than by tenant-id column.  Variants ride along as a JSON column so a
// listing stays a single round trip.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/database"
	"github.com/yanizio/storefront/internal/fault"
)

const defaultLimit = 50

// SQLProvider reads catalog tables over the shared pool.
type SQLProvider struct {
	db *sqlx.DB
}

// NewSQLProvider wraps the process-wide pool.
func NewSQLProvider(db *sqlx.DB) *SQLProvider {
	return &SQLProvider{db: db}
}

// productRow carries the variants JSON alongside the flat columns.
type productRow struct {
	Product
	VariantsJSON sql.NullString `db:"variants"`
}

func (p *SQLProvider) ListProducts(ctx context.Context, tenantID int64, f Filter) ([]Product, error) {
	schema := database.SchemaName(tenantID)

	var sb strings.Builder
	sb.WriteString(`SELECT p.id, p.title, p.handle, p.description, p.price_cents, p.published, p.variants FROM `)
	sb.WriteString(schema)
	sb.WriteString(`.product p WHERE p.published = TRUE`)

	var args []any
	if f.Handle != "" {
		sb.WriteString(` AND p.handle = ?`)
		args = append(args, f.Handle)
	}
	if f.CollectionID != 0 {
		sb.WriteString(` AND p.id IN (SELECT cp.product_id FROM ` + schema + `.collection_product cp WHERE cp.collection_id = ?)`)
		args = append(args, f.CollectionID)
	}
	if f.Featured {
		sb.WriteString(` AND p.featured = TRUE`)
	}
	sb.WriteString(` ORDER BY p.id LIMIT ? OFFSET ?`)
	args = append(args, limitOf(f), f.Offset)

	var rows []productRow
	if err := p.db.SelectContext(ctx, &rows, sb.String(), args...); err != nil {
		return nil, fault.Unavailable(err, "list products for tenant %d", tenantID)
	}

	out := make([]Product, 0, len(rows))
	for _, r := range rows {
		prod := r.Product
		if r.VariantsJSON.Valid && r.VariantsJSON.String != "" {
			if err := json.Unmarshal([]byte(r.VariantsJSON.String), &prod.Variants); err != nil {
				zap.S().Warnw("product variants unreadable",
					"tenant", tenantID, "product", prod.ID, "err", err)
			}
		}
		out = append(out, prod)
	}
	return out, nil
}

func (p *SQLProvider) ListCollections(ctx context.Context, tenantID int64, f Filter) ([]Collection, error) {
	schema := database.SchemaName(tenantID)

	var sb strings.Builder
	sb.WriteString(`SELECT c.id, c.title, c.handle, c.description, c.published FROM `)
	sb.WriteString(schema)
	sb.WriteString(`.collection c WHERE c.published = TRUE`)

	var args []any
	if f.Handle != "" {
		sb.WriteString(` AND c.handle = ?`)
		args = append(args, f.Handle)
	}
	if f.Featured {
		sb.WriteString(` AND c.featured = TRUE`)
	}
	sb.WriteString(` ORDER BY c.id LIMIT ? OFFSET ?`)
	args = append(args, limitOf(f), f.Offset)

	var out []Collection
	if err := p.db.SelectContext(ctx, &out, sb.String(), args...); err != nil {
		return nil, fault.Unavailable(err, "list collections for tenant %d", tenantID)
	}
	if out == nil {
		out = []Collection{}
	}
	return out, nil
}

func limitOf(f Filter) int {
	if f.Limit > 0 {
		return f.Limit
	}
	return defaultLimit
}
