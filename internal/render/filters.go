// internal/render/filters.go
//
// Template filters.
//
// Context
// -------
// Every filter is a pure function with a fixed output format.  Storefront
// themes in the wild depend on these exact shapes (tests pin them), so a
// change here is a breaking change for every tenant:
//
//	money 999            → "€9.99"
//	handleize "My Cool Product!!" → "my-cool-product"
//	img_url "p/mug.jpg" "medium"  → "/cdn/medium/p/mug.jpg"
//	truncate "abcdef" 4  → "abc…"
//	product_url "mug"    → "/products/mug"
//	collection_url "all" → "/collections/all"
package render

import (
	"fmt"
	"html/template"
	"strings"
)

// FuncMap returns the filter set registered on every theme template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"money":          Money,
		"img_url":        ImageURL,
		"handleize":      Handleize,
		"truncate":       Truncate,
		"product_url":    ProductURL,
		"collection_url": CollectionURL,
	}
}

// Money formats a cent amount as a euro string with two decimals.
// Accepts the integer widths templates actually produce.
func Money(v any) string {
	var cents int64
	switch n := v.(type) {
	case int64:
		cents = n
	case int:
		cents = int64(n)
	case float64:
		cents = int64(n)
	default:
		return "€0.00"
	}
	return fmt.Sprintf("€%.2f", float64(cents)/100)
}

// ImageURL builds the CDN path for an image at the given size class.  An
// empty path yields the shared placeholder.
func ImageURL(path, size string) string {
	if path == "" {
		return "/assets/placeholder.png"
	}
	return "/cdn/" + size + "/" + strings.TrimPrefix(path, "/")
}

// Handleize converts arbitrary text into a URL-safe handle restricted to
// ASCII a-z, 0-9, and "-".
//
// Rules
// -----
// 1. Lower-case everything.
// 2. Convert any run of non-[a-z0-9] characters to one "-".  That strips
//    spaces, punctuation, emoji, and non-ASCII.
// 3. Trim leading / trailing "-".
// 4. Handles are max 100 bytes; the cut never ends on a dash.
func Handleize(title string) string {
	var b strings.Builder
	b.Grow(len(title))

	lastWasDash := false
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastWasDash = false
		default:
			if !lastWasDash {
				b.WriteRune('-')
				lastWasDash = true
			}
		}
	}

	handle := strings.Trim(b.String(), "-")
	if len(handle) > 100 {
		handle = strings.TrimRight(handle[:100], "-")
	}
	return handle
}

// Truncate cuts s to at most n runes, appending a single ellipsis rune
// when something was dropped (the ellipsis occupies the final slot).
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

// ProductURL builds the storefront path for a product handle.
func ProductURL(handle string) string { return "/products/" + handle }

// CollectionURL builds the storefront path for a collection handle.
func CollectionURL(handle string) string { return "/collections/" + handle }
