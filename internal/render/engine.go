// internal/render/engine.go
//
// Page renderer: binds route data, theme, and request context into
// html/template and produces final HTML.
//
// Context
// -------
// A theme's templates are compiled once per (tenant, version) and held in
// a process LRU; a theme publish bumps Version, which naturally keys the
// old set out.  Rendering is two-pass when the theme defines a layout
// template: the page template's output becomes `content_for_layout` in
// the layout scope.  Without a layout the first pass is the final output.
//
// The binding scope merges, in increasing precedence: theme settings
// ("settings"), shop identity ("shop"), request context ("request"), the
// template name ("template"), and the route's own data payload.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"

	"github.com/yanizio/storefront/internal/cache"
	"github.com/yanizio/storefront/internal/fault"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/route"
	"github.com/yanizio/storefront/internal/theme"
)

const compiledCapacity = 512

// Shop is the tenant identity exposed to templates as {{ .shop }}.
type Shop struct {
	Name string
	URL  string
}

// Request carries the per-request values templates may bind.
type Request struct {
	Shop  Shop
	Path  string
	Query url.Values
}

// Engine renders themes.  Safe for concurrent use.
type Engine struct {
	compiled *cache.LRU // "<tenant>:<version>" → *template.Template
}

// NewEngine returns an Engine with an empty compile cache.
func NewEngine() *Engine {
	compiled := cache.New(compiledCapacity)
	compiled.OnEvict(func() { metrics.CacheEvictionsTotal.WithLabelValues("compiled").Inc() })
	return &Engine{compiled: compiled}
}

// Render executes the route's template inside th, wrapping it in the
// layout template when the theme has one.  A route naming a template the
// theme does not carry is NotFound — distinct from a missing route, but
// equally clean.
func (e *Engine) Render(th *theme.Theme, rd *route.RouteData, req Request) (string, error) {
	if _, ok := th.Template(rd.Template); !ok {
		return "", fault.NotFound("theme %q has no template %q", th.Name, rd.Template)
	}

	set, err := e.compile(th)
	if err != nil {
		return "", err
	}

	scope := bindScope(th, rd, req)

	var page bytes.Buffer
	if err := set.ExecuteTemplate(&page, rd.Template, scope); err != nil {
		return "", fmt.Errorf("render %s for tenant %d: %w", rd.Template, th.TenantID, err)
	}

	if !th.HasLayout() {
		return page.String(), nil
	}

	// Second pass: the page body is trusted output of the first pass.
	scope["content_for_layout"] = template.HTML(page.String())
	var full bytes.Buffer
	if err := set.ExecuteTemplate(&full, "layout", scope); err != nil {
		return "", fmt.Errorf("render layout for tenant %d: %w", th.TenantID, err)
	}
	return full.String(), nil
}

// compile parses every template in the bundle into one set so cross-
// template references work, caching by tenant and version.
func (e *Engine) compile(th *theme.Theme) (*template.Template, error) {
	key := fmt.Sprintf("%d:%s", th.TenantID, th.Version)
	if v, ok := e.compiled.Get(key); ok {
		return v.(*template.Template), nil
	}

	set := template.New("theme").Funcs(FuncMap())
	for name, src := range th.Templates {
		if _, err := set.New(name).Parse(src); err != nil {
			return nil, fmt.Errorf("parse template %s of theme %q: %w", name, th.Name, err)
		}
	}

	e.compiled.Add(key, set, 0) // keyed by version; capacity evicts
	return set, nil
}

func bindScope(th *theme.Theme, rd *route.RouteData, req Request) map[string]any {
	scope := map[string]any{
		"settings": th.Settings,
		"shop": map[string]string{
			"name": req.Shop.Name,
			"url":  req.Shop.URL,
		},
		"request": map[string]any{
			"path":  req.Path,
			"query": req.Query,
		},
		"template": rd.Template,
	}
	for k, v := range rd.Data {
		scope[k] = v
	}
	return scope
}
