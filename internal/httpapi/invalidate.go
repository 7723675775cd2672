// internal/httpapi/invalidate.go
//
// Cache invalidation hook for the control plane.
//
// Context
// -------
// Domain-mapping changes, theme publishes, and catalog imports all happen
// in the admin system, which notifies every render node through this
// endpoint.  It is internal-only: deployments bind it behind the load
// balancer, never on a storefront domain.  A theme invalidation also
// fires the CDN tag purge so the edge drops pages rendered with the old
// version.
package httpapi

import (
	"context"
	"net/http"

	"github.com/yanizio/storefront/internal/fault"
)

// TenantInvalidator drops a cached host mapping.
type TenantInvalidator interface {
	Invalidate(ctx context.Context, host string) error
}

// ThemeInvalidator drops a tenant's cached theme from every tier.
type ThemeInvalidator interface {
	Invalidate(ctx context.Context, tenantID int64) error
}

// CatalogInvalidator drops every cached listing for a tenant.
type CatalogInvalidator interface {
	InvalidateTenant(ctx context.Context, tenantID int64) (int, error)
}

// CDNPurger asks the edge to drop a tenant's tagged pages.
type CDNPurger interface {
	Purge(ctx context.Context, tenantID int64)
}

// InvalidateRequest names what to drop.  Scope selects the family; host
// is required for tenant scope, tenant_id for the other two.
type InvalidateRequest struct {
	Scope    string `json:"scope" validate:"required,oneof=tenant theme catalog"`
	Host     string `json:"host" validate:"required_if=Scope tenant"`
	TenantID int64  `json:"tenant_id" validate:"required_unless=Scope tenant"`
}

type invalidateResponse struct {
	Scope       string `json:"scope"`
	KeysDropped int    `json:"keys_dropped,omitempty"`
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	var req InvalidateRequest
	if !s.decodeAndValidate(w, r, &req) {
		return
	}

	ctx := r.Context()
	res := invalidateResponse{Scope: req.Scope}

	switch req.Scope {
	case "tenant":
		if err := s.TenantInval.Invalidate(ctx, req.Host); err != nil {
			s.respondError(w, r, err)
			return
		}
	case "theme":
		if err := s.ThemeInval.Invalidate(ctx, req.TenantID); err != nil {
			s.respondError(w, r, err)
			return
		}
		s.CDN.Purge(ctx, req.TenantID)
	case "catalog":
		n, err := s.CatalogInval.InvalidateTenant(ctx, req.TenantID)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		res.KeysDropped = n
	default:
		s.respondError(w, r, fault.Validation("unknown scope %q", req.Scope))
		return
	}
	writeJSON(w, http.StatusOK, res)
}
