// internal/tenant/model.go
//
// Tenant record.
//
// Context
// -------
// One row of the platform's tenant registry joined against its verified
// domain mapping.  The renderer holds a read-only cached copy; the
// registry owns the data, and domain changes must be followed by an
// explicit Invalidate on the old host.
package tenant

// Tenant identifies one customer's storefront.
type Tenant struct {
	ID     int64  `db:"id" json:"id"`
	Name   string `db:"name" json:"name"`
	Domain string `db:"domain" json:"domain"`
	Status string `db:"status" json:"status"`
}

// URL returns the canonical storefront origin for template bindings.
func (t *Tenant) URL() string { return "https://" + t.Domain }
