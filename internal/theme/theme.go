// Package theme holds the data structures that describe one tenant's
// visual presentation.  A Theme combines:
//
//   - Name / Version  – for the X-Theme-Version response header.
//   - Templates       – template name → source text, fetched from blob
//     storage at `<storage key>/templates/<name>`.
//   - Settings        – free-form designer settings exposed to templates.
//
// Themes are immutable once loaded; a publish bumps Version and the
// publisher calls Loader.Invalidate.
package theme

// TemplateNames is the fixed set of templates a theme may provide.  A
// bundle missing some of them is still served; the route resolver decides
// whether the missing one matters.
var TemplateNames = []string{
	"index", "product", "collection", "page", "cart", "search", "layout",
}

// Theme is one loaded template bundle.
type Theme struct {
	ID        int64             `json:"id"`
	TenantID  int64             `json:"tenant_id"`
	Name      string            `json:"name"`
	Version   string            `json:"version"`
	Templates map[string]string `json:"templates"`
	Settings  map[string]any    `json:"settings"`
}

// Template returns the source for name and whether the bundle has it.
func (t *Theme) Template(name string) (string, bool) {
	src, ok := t.Templates[name]
	return src, ok
}

// HasLayout reports whether rendering should run the two-pass layout wrap.
func (t *Theme) HasLayout() bool {
	_, ok := t.Templates["layout"]
	return ok
}
