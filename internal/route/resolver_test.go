// internal/route/resolver_test.go
//
// Unit-tests for path dispatch: priority order, handle character class,
// and the no-empty-page rule.
//
// Run: go test ./internal/route -v

package route

import (
	"context"
	"testing"

	"github.com/yanizio/storefront/internal/catalog"
	"github.com/yanizio/storefront/internal/fault"
)

// fakeCatalog serves a tiny fixed catalog: one product "tea-pot", one
// collection "kitchen" containing it.
type fakeCatalog struct{}

func (fakeCatalog) ListProducts(_ context.Context, _ int64, f catalog.Filter) ([]catalog.Product, error) {
	p := catalog.Product{ID: 1, Title: "Tea Pot", Handle: "tea-pot", PriceCents: 2500, Published: true}
	switch {
	case f.Handle == "tea-pot", f.CollectionID == 2, f.Handle == "" && !f.Featured:
		return []catalog.Product{p}, nil
	case f.Featured:
		return []catalog.Product{p}, nil
	default:
		return nil, nil
	}
}

func (fakeCatalog) ListCollections(_ context.Context, _ int64, f catalog.Filter) ([]catalog.Collection, error) {
	c := catalog.Collection{ID: 2, Title: "Kitchen", Handle: "kitchen", Published: true}
	if f.Handle == "" || f.Handle == "kitchen" {
		return []catalog.Collection{c}, nil
	}
	return nil, nil
}

type fakePages struct{}

func (fakePages) PageByHandle(_ context.Context, tenantID int64, handle string) (*catalog.Page, error) {
	if handle == "about-us" {
		return &catalog.Page{ID: 3, Title: "About Us", Handle: "about-us", BodyHTML: "<p>Hi</p>"}, nil
	}
	return nil, fault.NotFound("no page %q for tenant %d", handle, tenantID)
}

func newTestResolver() *Resolver {
	return NewResolver(fakeCatalog{}, fakePages{})
}

func TestPatternOrderDrivesDispatch(t *testing.T) {
	r := newTestResolver()
	ctx := context.Background()

	// With the full order each reserved prefix resolves to its own type.
	for path, want := range map[string]string{
		"/":                    TypeHome,
		"/products/tea-pot":    TypeProduct,
		"/collections/kitchen": TypeCollection,
		"/pages/about-us":      TypePage,
	} {
		rd, err := r.Resolve(ctx, path, 7)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		if rd.Type != want {
			t.Fatalf("%s resolved to %q, want %q", path, rd.Type, want)
		}
	}

	// Dropping a type from the order must make its prefix unroutable
	// while the rest keep resolving.
	orig := PatternOrder
	PatternOrder = []string{TypeHome, TypeCollection, TypePage}
	defer func() { PatternOrder = orig }()

	if _, err := r.Resolve(ctx, "/products/tea-pot", 7); !fault.IsNotFound(err) {
		t.Fatalf("product route resolved despite being removed from the order: %v", err)
	}
	if rd, err := r.Resolve(ctx, "/pages/about-us", 7); err != nil || rd.Type != TypePage {
		t.Fatalf("page route broken by reordering: %v", err)
	}
}

func TestResolve_Root(t *testing.T) {
	rd, err := newTestResolver().Resolve(context.Background(), "/", 7)
	if err != nil {
		t.Fatalf("resolve /: %v", err)
	}
	if rd.Type != TypeHome || rd.Template != "index" {
		t.Fatalf("got %q/%q, want home/index", rd.Type, rd.Template)
	}
	if _, ok := rd.Data["featured_products"]; !ok {
		t.Fatal("home data missing featured_products")
	}
}

func TestResolve_ProductByHandle(t *testing.T) {
	rd, err := newTestResolver().Resolve(context.Background(), "/products/tea-pot", 7)
	if err != nil {
		t.Fatalf("resolve product: %v", err)
	}
	if rd.Type != TypeProduct || rd.Template != "product" {
		t.Fatalf("got %q/%q, want product/product", rd.Type, rd.Template)
	}
	p := rd.Data["product"].(catalog.Product)
	if p.Handle != "tea-pot" {
		t.Fatalf("bound product %+v", p)
	}
}

func TestResolve_UnknownHandleIsNotFoundNotEmptyPage(t *testing.T) {
	_, err := newTestResolver().Resolve(context.Background(), "/products/unknown-handle", 7)
	if !fault.IsNotFound(err) {
		t.Fatalf("err = %v, want NotFound kind", err)
	}
}

func TestResolve_HandleCharacterClass(t *testing.T) {
	r := newTestResolver()
	for _, path := range []string{
		"/products/Tea-Pot",      // uppercase
		"/products/tea_pot",      // underscore
		"/products/tea.pot",      // dot
		"/products/tea%20pot",    // escape
		"/products/tea-pot/more", // extra segment
	} {
		if _, err := r.Resolve(context.Background(), path, 7); !fault.IsNotFound(err) {
			t.Errorf("%s: err = %v, want NotFound", path, err)
		}
	}
}

func TestResolve_CollectionBindsItsProducts(t *testing.T) {
	rd, err := newTestResolver().Resolve(context.Background(), "/collections/kitchen", 7)
	if err != nil {
		t.Fatalf("resolve collection: %v", err)
	}
	products := rd.Data["products"].([]catalog.Product)
	if len(products) != 1 || products[0].Handle != "tea-pot" {
		t.Fatalf("collection products = %+v", products)
	}
}

func TestResolve_StaticPage(t *testing.T) {
	rd, err := newTestResolver().Resolve(context.Background(), "/pages/about-us", 7)
	if err != nil {
		t.Fatalf("resolve page: %v", err)
	}
	if rd.Type != TypePage {
		t.Fatalf("type = %q, want page", rd.Type)
	}
}

func TestResolve_UnmatchedPathIsNotFound(t *testing.T) {
	for _, path := range []string{"/cart/extra", "/admin", "/products/", "/pages/missing"} {
		if _, err := newTestResolver().Resolve(context.Background(), path, 7); !fault.IsNotFound(err) {
			t.Errorf("%s: err = %v, want NotFound", path, err)
		}
	}
}
