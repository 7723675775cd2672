// internal/httpapi/storefront.go
//
// The catch-all render pipeline: host → tenant → theme → route → HTML.
//
// Context
// -------
// Each stage can fail independently and each failure keeps its kind, so
// an unknown host, a missing theme, and an unknown product all surface
// as clean 404s while connectivity problems become 503s.  Pages built
// from a block document get their fragments rendered outside the
// template engine and handed to the page template as trusted HTML under
// `page_blocks`.
package httpapi

import (
	"fmt"
	"html/template"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/storefront/internal/blocks"
	"github.com/yanizio/storefront/internal/catalog"
	"github.com/yanizio/storefront/internal/metrics"
	"github.com/yanizio/storefront/internal/render"
	"github.com/yanizio/storefront/internal/route"
	"github.com/yanizio/storefront/internal/theme"
)

func (s *Server) handleStorefront(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx := r.Context()

	ten, err := s.Tenants.Resolve(ctx, hostOnly(r.Host))
	if err != nil {
		s.respondErrorHTML(w, r, err)
		return
	}

	th, err := s.Themes.Load(ctx, ten.ID)
	if err != nil {
		s.respondErrorHTML(w, r, err)
		return
	}

	rd, err := s.Routes.Resolve(ctx, r.URL.Path, ten.ID)
	if err != nil {
		s.respondErrorHTML(w, r, err)
		return
	}

	if rd.Type == route.TypePage {
		bindPageBlocks(rd)
	}

	html, err := s.Renderer.Render(th, rd, render.Request{
		Shop:  render.Shop{Name: ten.Name, URL: ten.URL()},
		Path:  r.URL.Path,
		Query: r.URL.Query(),
	})
	if err != nil {
		s.respondErrorHTML(w, r, err)
		return
	}

	elapsed := time.Since(start)
	metrics.RendersTotal.WithLabelValues(rd.Type).Inc()
	metrics.RenderDuration.Observe(elapsed.Seconds())

	maxAge := int(s.Opts.PageMaxAge.Seconds())
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-Tenant-ID", strconv.FormatInt(ten.ID, 10))
	h.Set("X-Theme-Version", th.Version)
	h.Set("X-Render-Time", fmt.Sprintf("%dms", elapsed.Milliseconds()))
	// Tenant-scoped tag first (the one a theme-publish purge drops), then
	// the per-page-type tag for finer-grained purges.
	h.Set("Cache-Tag", fmt.Sprintf("%s,%d-%s", theme.TenantTag(ten.ID), ten.ID, rd.Type))
	h.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", maxAge))
	h.Set("CDN-Cache-Control", fmt.Sprintf("max-age=%d", maxAge))
	h.Set("Vary", "Accept-Encoding")

	w.Write([]byte(html))

	if s.Analytics != nil {
		s.Analytics.PageView(ten.ID, rd.Type, r)
	}
}

// bindPageBlocks renders a builder page's block document and exposes it
// to the page template.  A document that fails to decode falls back to
// the page body; the failure is logged, never surfaced.
func bindPageBlocks(rd *route.RouteData) {
	page, ok := rd.Data["page"].(*catalog.Page)
	if !ok || len(page.Blocks) == 0 {
		return
	}
	list, err := blocks.DecodeList(page.Blocks)
	if err != nil {
		zap.S().Warnw("block document unreadable, serving page body",
			"page", page.ID, "err", err)
		return
	}
	rd.Data["page_blocks"] = template.HTML(blocks.Render(list))
}

// hostOnly strips an explicit port from the Host header, if present.
func hostOnly(host string) string {
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return host
}
