// internal/httpapi/server.go
//
// HTTP surface of the storefront.
//
// Context
// -------
// One chi router serves four concerns:
//
//   - the catch-all storefront renderer (GET /*),
//   - the cart endpoints that delegate to backend services,
//   - the block preview endpoint for the page builder,
//   - health probes and the Prometheus scrape endpoint.
//
// Every collaborator arrives through the Server struct — no package
// globals — so tests swap in fakes per field.  The narrow interfaces
// below name exactly what the handlers call.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yanizio/storefront/internal/analytics"
	"github.com/yanizio/storefront/internal/kv"
	"github.com/yanizio/storefront/internal/render"
	"github.com/yanizio/storefront/internal/route"
	"github.com/yanizio/storefront/internal/tenant"
	"github.com/yanizio/storefront/internal/theme"
)

// TenantResolver maps a request host to its tenant.
type TenantResolver interface {
	Resolve(ctx context.Context, host string) (*tenant.Tenant, error)
}

// ThemeLoader returns the tenant's active theme.
type ThemeLoader interface {
	Load(ctx context.Context, tenantID int64) (*theme.Theme, error)
}

// RouteResolver maps a path to its template and binding data.
type RouteResolver interface {
	Resolve(ctx context.Context, path string, tenantID int64) (*route.RouteData, error)
}

// Pinger is the readiness surface of the database pool.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options are the request-handling tunables lifted from configuration.
type Options struct {
	DevMode       bool
	ForceHTTPS    bool
	PageMaxAge    time.Duration
	RateWindow    time.Duration
	RateThreshold int // 0 disables the limiter
}

// Server holds every dependency of the HTTP layer.
type Server struct {
	Tenants   TenantResolver
	Themes    ThemeLoader
	Routes    RouteResolver
	Renderer  *render.Engine
	Analytics *analytics.Emitter
	Orders    *OrdersClient
	Discounts *DiscountsClient

	TenantInval  TenantInvalidator
	ThemeInval   ThemeInvalidator
	CatalogInval CatalogInvalidator
	CDN          CDNPurger

	DB    Pinger
	Store kv.Store

	Opts Options
}

// Router assembles the chi mux.  Middleware order matters: recovery
// outermost, then proto enforcement, then the limiter, so a panic in the
// limiter itself is still caught.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	if s.Opts.ForceHTTPS {
		r.Use(forceHTTPS)
	}
	if s.Opts.RateThreshold > 0 {
		r.Use(newLimiter(s.Opts.RateWindow, s.Opts.RateThreshold).middleware)
	}

	r.Get("/health/live", s.handleLive)
	r.Get("/health/ready", s.handleReady)
	r.Get("/health/startup", s.handleReady)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/cart/checkout", s.handleCheckout)
	r.Post("/cart/validate-discount", s.handleValidateDiscount)
	r.Post("/preview", s.handlePreview)
	r.Post("/hooks/invalidate", s.handleInvalidate)

	r.Get("/*", s.handleStorefront)

	return r
}
