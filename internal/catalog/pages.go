// internal/catalog/pages.go
//
// Static page content (`/pages/<handle>`).  Pages live in the tenant's
// schema next to the catalog tables.  A page either carries free-form
// body HTML or a page-builder block document; the block document is kept
// as raw JSON here and decoded by the block renderer.
package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/yanizio/storefront/internal/database"
	"github.com/yanizio/storefront/internal/fault"
)

// Page is one static page.
type Page struct {
	ID       int64           `db:"id" json:"id"`
	Title    string          `db:"title" json:"title"`
	Handle   string          `db:"handle" json:"handle"`
	BodyHTML string          `db:"body_html" json:"body_html"`
	Blocks   json.RawMessage `db:"blocks" json:"blocks,omitempty"`
}

// PageStore fetches pages by handle.
type PageStore interface {
	PageByHandle(ctx context.Context, tenantID int64, handle string) (*Page, error)
}

// SQLPages implements PageStore on the shared pool.
type SQLPages struct {
	db *sqlx.DB
}

// NewSQLPages wraps the process-wide pool.
func NewSQLPages(db *sqlx.DB) *SQLPages {
	return &SQLPages{db: db}
}

func (p *SQLPages) PageByHandle(ctx context.Context, tenantID int64, handle string) (*Page, error) {
	q := `SELECT id, title, handle, body_html, blocks FROM ` +
		database.SchemaName(tenantID) +
		`.page WHERE handle = ? AND published = TRUE LIMIT 1`

	var page Page
	if err := p.db.GetContext(ctx, &page, q, handle); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fault.NotFound("no page %q for tenant %d", handle, tenantID)
		}
		return nil, fault.Unavailable(err, "page %q for tenant %d", handle, tenantID)
	}
	return &page, nil
}
