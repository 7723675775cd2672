// internal/httpapi/server_test.go
//
// End-to-end handler tests over httptest: the full router with fake
// tenant/theme/catalog backends and, for the cart endpoints, a stub
// upstream service.
//
// Run: go test ./internal/httpapi -v

package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yanizio/storefront/internal/catalog"
	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/kv"
	"github.com/yanizio/storefront/internal/render"
	"github.com/yanizio/storefront/internal/route"
	"github.com/yanizio/storefront/internal/tenant"
	"github.com/yanizio/storefront/internal/theme"
)

//
// Fakes
//

type fakeTenants struct {
	byHost map[string]*tenant.Tenant
}

func (f *fakeTenants) Resolve(_ context.Context, host string) (*tenant.Tenant, error) {
	if t, ok := f.byHost[host]; ok {
		return t, nil
	}
	return nil, fault.NotFound("no tenant for host %s", host)
}

type fakeThemes struct {
	th *theme.Theme
}

func (f *fakeThemes) Load(context.Context, int64) (*theme.Theme, error) {
	return f.th, nil
}

type fakeCatalog struct {
	products    []catalog.Product
	collections []catalog.Collection
}

func (f *fakeCatalog) ListProducts(_ context.Context, _ int64, flt catalog.Filter) ([]catalog.Product, error) {
	if flt.Handle != "" {
		for _, p := range f.products {
			if p.Handle == flt.Handle {
				return []catalog.Product{p}, nil
			}
		}
		return nil, nil
	}
	return f.products, nil
}

func (f *fakeCatalog) ListCollections(_ context.Context, _ int64, flt catalog.Filter) ([]catalog.Collection, error) {
	if flt.Handle != "" {
		for _, c := range f.collections {
			if c.Handle == flt.Handle {
				return []catalog.Collection{c}, nil
			}
		}
		return nil, nil
	}
	return f.collections, nil
}

type fakePages struct {
	pages map[string]*catalog.Page
}

func (f *fakePages) PageByHandle(_ context.Context, tenantID int64, handle string) (*catalog.Page, error) {
	if p, ok := f.pages[handle]; ok {
		return p, nil
	}
	return nil, fault.NotFound("no page %q for tenant %d", handle, tenantID)
}

type fakePinger struct{ err error }

func (f fakePinger) PingContext(context.Context) error { return f.err }

// invalCalls records which invalidation paths the hook exercised.
type invalCalls struct {
	hosts  []string
	themes []int64
	purged []int64
	keys   int
}

type fakeTenantInval struct{ c *invalCalls }

func (t fakeTenantInval) Invalidate(_ context.Context, host string) error {
	t.c.hosts = append(t.c.hosts, host)
	return nil
}

type fakeThemeInval struct{ c *invalCalls }

func (t fakeThemeInval) Invalidate(_ context.Context, tenantID int64) error {
	t.c.themes = append(t.c.themes, tenantID)
	return nil
}

type fakeCatalogInval struct{ c *invalCalls }

func (f fakeCatalogInval) InvalidateTenant(context.Context, int64) (int, error) {
	return f.c.keys, nil
}

type fakePurger struct{ c *invalCalls }

func (p fakePurger) Purge(_ context.Context, tenantID int64) {
	p.c.purged = append(p.c.purged, tenantID)
}

//
// Harness
//

func testTheme() *theme.Theme {
	return &theme.Theme{
		ID:       7,
		TenantID: 1,
		Name:     "aurora",
		Version:  "v42",
		Templates: map[string]string{
			"index":   `<main>welcome to {{ .shop.name }}</main>`,
			"product": `<h1>{{ .product.Title }}</h1>`,
			"page":    `<article>{{ if .page_blocks }}{{ .page_blocks }}{{ else }}{{ .page.BodyHTML }}{{ end }}</article>`,
		},
		Settings: map[string]any{},
	}
}

func newTestServer(t *testing.T, mutate func(*Server)) http.Handler {
	t.Helper()

	cat := &fakeCatalog{
		products: []catalog.Product{{ID: 1, Title: "Enamel Mug", Handle: "enamel-mug", PriceCents: 1200}},
	}
	pages := &fakePages{pages: map[string]*catalog.Page{
		"about": {ID: 3, Title: "About", Handle: "about", BodyHTML: "plain body"},
		"lookbook": {ID: 4, Title: "Lookbook", Handle: "lookbook", Blocks: json.RawMessage(
			`[{"type":"hero","position":1,"config":{"heading":"Summer Drop"}}]`)},
	}}

	srv := &Server{
		Tenants: &fakeTenants{byHost: map[string]*tenant.Tenant{
			"shop-one.example": {ID: 1, Name: "Shop One", Domain: "shop-one.example", Status: "active"},
		}},
		Themes:   &fakeThemes{th: testTheme()},
		Routes:   route.NewResolver(cat, pages),
		Renderer: render.NewEngine(),
		DB:       fakePinger{},
		Store:    kv.NewMemory(),
		Opts:     Options{PageMaxAge: 5 * time.Minute},
	}
	if mutate != nil {
		mutate(srv)
	}
	return srv.Router()
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func post(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

//
// Storefront
//

func TestStorefront_RendersHome(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://shop-one.example/")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "welcome to Shop One") {
		t.Errorf("body missing shop binding: %s", rec.Body.String())
	}

	hdr := rec.Header()
	if got := hdr.Get("X-Tenant-ID"); got != "1" {
		t.Errorf("X-Tenant-ID = %q", got)
	}
	if got := hdr.Get("X-Theme-Version"); got != "v42" {
		t.Errorf("X-Theme-Version = %q", got)
	}
	if got := hdr.Get("Cache-Tag"); got != "tenant-1,1-home" {
		t.Errorf("Cache-Tag = %q", got)
	}
	if got := hdr.Get("Cache-Control"); got != "public, max-age=300" {
		t.Errorf("Cache-Control = %q", got)
	}
	if hdr.Get("X-Render-Time") == "" {
		t.Error("X-Render-Time missing")
	}
	if got := hdr.Get("Vary"); got != "Accept-Encoding" {
		t.Errorf("Vary = %q", got)
	}
}

func TestStorefront_ProductByHandle(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://shop-one.example/products/enamel-mug")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "<h1>Enamel Mug</h1>") {
		t.Errorf("product title missing: %s", rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Tag"); got != "tenant-1,1-product" {
		t.Errorf("Cache-Tag = %q", got)
	}
}

// A theme publish purges by tenant tag; every rendered page must carry
// that exact tag or the purge hits nothing.
func TestStorefront_CacheTagMatchesPurgeTag(t *testing.T) {
	h := newTestServer(t, nil)

	for _, target := range []string{
		"http://shop-one.example/",
		"http://shop-one.example/products/enamel-mug",
		"http://shop-one.example/pages/about",
	} {
		rec := get(h, target)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d", target, rec.Code)
		}
		tags := strings.Split(rec.Header().Get("Cache-Tag"), ",")
		found := false
		for _, tag := range tags {
			if tag == theme.TenantTag(1) {
				found = true
			}
		}
		if !found {
			t.Errorf("%s: Cache-Tag %v does not carry purge tag %q",
				target, tags, theme.TenantTag(1))
		}
	}
}

func TestStorefront_UnknownProductIs404(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://shop-one.example/products/unknown-handle")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStorefront_UnknownHostIs404(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://nobody.example/")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestStorefront_BlockPageRendersFragments(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://shop-one.example/pages/lookbook")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	body := rec.Body.String()
	if !strings.Contains(body, `<section class="block block-hero"`) {
		t.Errorf("block fragment missing or escaped: %s", body)
	}
	if !strings.Contains(body, "Summer Drop") {
		t.Errorf("block heading missing: %s", body)
	}
}

func TestStorefront_PlainPageUsesBody(t *testing.T) {
	h := newTestServer(t, nil)

	rec := get(h, "http://shop-one.example/pages/about")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "plain body") {
		t.Errorf("page body missing: %s", rec.Body.String())
	}
}

//
// Preview
//

func TestPreview_RendersWithoutStorage(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(h, "http://shop-one.example/preview",
		`[{"type":"text","position":1,"config":{"body":"draft copy"}}]`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "draft copy") {
		t.Errorf("preview missing content: %s", rec.Body.String())
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}

func TestPreview_BadDocumentIs400(t *testing.T) {
	h := newTestServer(t, nil)

	rec := post(h, "http://shop-one.example/preview", `{"not":"an array"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

//
// Cart
//

func TestCheckout_FieldValidation(t *testing.T) {
	h := newTestServer(t, func(s *Server) {
		s.Orders = NewOrdersClient("http://orders.invalid")
	})

	rec := post(h, "http://shop-one.example/cart/checkout",
		`{"email":"not-an-email","items":[]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Fields["email"] == "" {
		t.Errorf("missing field message for email: %+v", body.Fields)
	}
	if body.Fields["items"] == "" {
		t.Errorf("missing field message for items: %+v", body.Fields)
	}
}

func TestCheckout_AcceptedPassesThrough(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/checkouts" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		var req map[string]any
		json.NewDecoder(r.Body).Decode(&req)
		if req["tenant_id"] != float64(1) {
			t.Errorf("tenant_id not stamped: %v", req["tenant_id"])
		}
		json.NewEncoder(w).Encode(CheckoutResult{
			Accepted: true, CheckoutID: "chk_123", TotalCents: 2400,
			PaymentURL: "https://pay.example/chk_123",
		})
	}))
	defer upstream.Close()

	h := newTestServer(t, func(s *Server) {
		s.Orders = NewOrdersClient(upstream.URL)
	})

	rec := post(h, "http://shop-one.example/cart/checkout",
		`{"email":"a@b.example","items":[{"variant_id":9,"quantity":2}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res CheckoutResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.CheckoutID != "chk_123" || !res.Accepted {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestCheckout_RejectionIs422(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(CheckoutResult{Accepted: false, Reason: "variant out of stock"})
	}))
	defer upstream.Close()

	h := newTestServer(t, func(s *Server) {
		s.Orders = NewOrdersClient(upstream.URL)
	})

	rec := post(h, "http://shop-one.example/cart/checkout",
		`{"email":"a@b.example","items":[{"variant_id":9,"quantity":1}]}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "out of stock") {
		t.Errorf("rejection reason missing: %s", rec.Body.String())
	}
}

func TestCheckout_UpstreamFailureIs502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	h := newTestServer(t, func(s *Server) {
		s.Orders = NewOrdersClient(upstream.URL)
	})

	rec := post(h, "http://shop-one.example/cart/checkout",
		`{"email":"a@b.example","items":[{"variant_id":9,"quantity":1}]}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
}

func TestValidateDiscount(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/discounts/validate" {
			t.Errorf("upstream path = %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(DiscountResult{Valid: true, AmountCents: 500})
	}))
	defer upstream.Close()

	h := newTestServer(t, func(s *Server) {
		s.Discounts = NewDiscountsClient(upstream.URL)
	})

	rec := post(h, "http://shop-one.example/cart/validate-discount",
		`{"code":"SUMMER5","subtotal_cents":2400}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var res DiscountResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !res.Valid || res.AmountCents != 500 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestValidateDiscount_MissingCodeIs400(t *testing.T) {
	h := newTestServer(t, func(s *Server) {
		s.Discounts = NewDiscountsClient("http://discounts.invalid")
	})

	rec := post(h, "http://shop-one.example/cart/validate-discount", `{"subtotal_cents":100}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

//
// Invalidation hook
//

func TestInvalidateHook(t *testing.T) {
	calls := &invalCalls{keys: 9}
	h := newTestServer(t, func(s *Server) {
		s.TenantInval = fakeTenantInval{c: calls}
		s.ThemeInval = fakeThemeInval{c: calls}
		s.CatalogInval = fakeCatalogInval{c: calls}
		s.CDN = fakePurger{c: calls}
	})

	rec := post(h, "http://internal/hooks/invalidate", `{"scope":"tenant","host":"old.example"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("tenant scope: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(calls.hosts) != 1 || calls.hosts[0] != "old.example" {
		t.Errorf("tenant invalidation not called: %+v", calls.hosts)
	}

	rec = post(h, "http://internal/hooks/invalidate", `{"scope":"theme","tenant_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("theme scope: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(calls.themes) != 1 || len(calls.purged) != 1 {
		t.Errorf("theme invalidation must also purge the CDN: themes=%v purged=%v",
			calls.themes, calls.purged)
	}

	rec = post(h, "http://internal/hooks/invalidate", `{"scope":"catalog","tenant_id":1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("catalog scope: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"keys_dropped":9`) {
		t.Errorf("dropped-key count missing: %s", rec.Body.String())
	}

	rec = post(h, "http://internal/hooks/invalidate", `{"scope":"everything"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad scope: status = %d, want 400", rec.Code)
	}
}

//
// Infrastructure
//

func TestRateLimiter_EnforcesThreshold(t *testing.T) {
	h := newTestServer(t, func(s *Server) {
		s.Opts.RateWindow = time.Minute
		s.Opts.RateThreshold = 2
	})

	for i := 0; i < 2; i++ {
		if rec := get(h, "http://shop-one.example/"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := get(h, "http://shop-one.example/")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third request: status = %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}
}

func TestHealth(t *testing.T) {
	h := newTestServer(t, nil)

	if rec := get(h, "http://shop-one.example/health/live"); rec.Code != http.StatusOK {
		t.Fatalf("live: status = %d", rec.Code)
	}
	if rec := get(h, "http://shop-one.example/health/ready"); rec.Code != http.StatusOK {
		t.Fatalf("ready: status = %d", rec.Code)
	}
}

func TestHealth_ReadyReportsDownDependency(t *testing.T) {
	h := newTestServer(t, func(s *Server) {
		s.DB = fakePinger{err: context.DeadlineExceeded}
	})

	rec := get(h, "http://shop-one.example/health/ready")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Database || !body.Cache {
		t.Errorf("dependency flags wrong: %+v", body)
	}
}

func TestForceHTTPS_Redirects(t *testing.T) {
	h := newTestServer(t, func(s *Server) {
		s.Opts.ForceHTTPS = true
	})

	rec := get(h, "http://shop-one.example/products/enamel-mug")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("status = %d, want 301", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "https://shop-one.example/products/enamel-mug" {
		t.Errorf("Location = %q", got)
	}

	req := httptest.NewRequest(http.MethodGet, "http://shop-one.example/", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	fwd := httptest.NewRecorder()
	h.ServeHTTP(fwd, req)
	if fwd.Code != http.StatusOK {
		t.Fatalf("forwarded-proto request: status = %d", fwd.Code)
	}
}
