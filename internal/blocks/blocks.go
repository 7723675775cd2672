// internal/blocks/blocks.go
//
// Page-builder content blocks.
//
// Context
// -------
// A builder page is an ordered list of typed blocks rendered straight to
// HTML fragments, without the template engine.  Each block kind is its
// own struct carrying typed configuration with documented defaults, and
// the set is closed: the Block interface has an unexported method, so
// every kind lives in this package and Render stays total.  Unknown or
// malformed type tags decode to UnknownBlock, which renders a visible
// placeholder naming the tag — the page as a whole always renders.
package blocks

import (
	"fmt"
	"html"
	"strings"
)

// Block is one unit of a builder page.  renderTo is unexported on
// purpose; the variant set is closed.
type Block interface {
	renderTo(sb *strings.Builder)
}

//
// Hero
//

// HeroBlock is the page-top banner.  Without an image or color it falls
// back to a gradient background with white text.
type HeroBlock struct {
	Heading    string `json:"heading"`
	Subheading string `json:"subheading"`
	ImageURL   string `json:"image_url"`
	Background string `json:"background"`
	TextColor  string `json:"text_color"`
	CTALabel   string `json:"cta_label"`
	CTAURL     string `json:"cta_url"`
}

func (b HeroBlock) renderTo(sb *strings.Builder) {
	bg := b.Background
	if bg == "" && b.ImageURL == "" {
		bg = "linear-gradient(135deg,#667eea,#764ba2)"
	}
	color := b.TextColor
	if color == "" {
		color = "#ffffff"
	}

	sb.WriteString(`<section class="block block-hero" style="`)
	if b.ImageURL != "" {
		fmt.Fprintf(sb, "background-image:url('%s');", html.EscapeString(b.ImageURL))
	} else {
		fmt.Fprintf(sb, "background:%s;", html.EscapeString(bg))
	}
	fmt.Fprintf(sb, "color:%s", html.EscapeString(color))
	sb.WriteString(`">`)
	if b.Heading != "" {
		fmt.Fprintf(sb, "<h1>%s</h1>", html.EscapeString(b.Heading))
	}
	if b.Subheading != "" {
		fmt.Fprintf(sb, "<p>%s</p>", html.EscapeString(b.Subheading))
	}
	if b.CTALabel != "" && b.CTAURL != "" {
		fmt.Fprintf(sb, `<a class="hero-cta" href="%s">%s</a>`,
			html.EscapeString(b.CTAURL), html.EscapeString(b.CTALabel))
	}
	sb.WriteString(`</section>`)
}

//
// Text
//

// TextBlock is a prose paragraph.  Align defaults to "left".
type TextBlock struct {
	Body  string `json:"body"`
	Align string `json:"align"`
}

func (b TextBlock) renderTo(sb *strings.Builder) {
	align := b.Align
	if align == "" {
		align = "left"
	}
	fmt.Fprintf(sb, `<section class="block block-text" style="text-align:%s"><p>%s</p></section>`,
		html.EscapeString(align), html.EscapeString(b.Body))
}

//
// Image
//

// ImageBlock is a single image with optional caption.
type ImageBlock struct {
	URL     string `json:"url"`
	Alt     string `json:"alt"`
	Caption string `json:"caption"`
}

func (b ImageBlock) renderTo(sb *strings.Builder) {
	sb.WriteString(`<figure class="block block-image">`)
	fmt.Fprintf(sb, `<img src="%s" alt="%s">`,
		html.EscapeString(b.URL), html.EscapeString(b.Alt))
	if b.Caption != "" {
		fmt.Fprintf(sb, "<figcaption>%s</figcaption>", html.EscapeString(b.Caption))
	}
	sb.WriteString(`</figure>`)
}

//
// Product grid
//

// GridItem is one card inside a ProductGridBlock.
type GridItem struct {
	Title    string `json:"title"`
	Price    string `json:"price"`
	URL      string `json:"url"`
	ImageURL string `json:"image_url"`
}

// ProductGridBlock shows a grid of product cards.  Columns defaults to 3.
type ProductGridBlock struct {
	Title   string     `json:"title"`
	Columns int        `json:"columns"`
	Items   []GridItem `json:"items"`
}

func (b ProductGridBlock) renderTo(sb *strings.Builder) {
	cols := b.Columns
	if cols <= 0 {
		cols = 3
	}
	sb.WriteString(`<section class="block block-product-grid">`)
	if b.Title != "" {
		fmt.Fprintf(sb, "<h2>%s</h2>", html.EscapeString(b.Title))
	}
	fmt.Fprintf(sb, `<div class="grid grid-cols-%d">`, cols)
	for _, it := range b.Items {
		fmt.Fprintf(sb, `<a class="card" href="%s">`, html.EscapeString(it.URL))
		if it.ImageURL != "" {
			fmt.Fprintf(sb, `<img src="%s" alt="%s">`,
				html.EscapeString(it.ImageURL), html.EscapeString(it.Title))
		}
		fmt.Fprintf(sb, "<h3>%s</h3>", html.EscapeString(it.Title))
		if it.Price != "" {
			fmt.Fprintf(sb, `<span class="price">%s</span>`, html.EscapeString(it.Price))
		}
		sb.WriteString(`</a>`)
	}
	sb.WriteString(`</div></section>`)
}

//
// Video
//

// VideoBlock embeds a video player.
type VideoBlock struct {
	URL      string `json:"url"`
	Autoplay bool   `json:"autoplay"`
}

func (b VideoBlock) renderTo(sb *strings.Builder) {
	sb.WriteString(`<section class="block block-video"><video controls`)
	if b.Autoplay {
		sb.WriteString(` autoplay muted`)
	}
	fmt.Fprintf(sb, ` src="%s"></video></section>`, html.EscapeString(b.URL))
}

//
// Gallery
//

// GalleryImage is one image of a GalleryBlock.
type GalleryImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// GalleryBlock shows a strip of images.
type GalleryBlock struct {
	Images []GalleryImage `json:"images"`
}

func (b GalleryBlock) renderTo(sb *strings.Builder) {
	sb.WriteString(`<section class="block block-gallery">`)
	for _, img := range b.Images {
		fmt.Fprintf(sb, `<img src="%s" alt="%s">`,
			html.EscapeString(img.URL), html.EscapeString(img.Alt))
	}
	sb.WriteString(`</section>`)
}

//
// Unknown
//

// UnknownBlock is the catch-all for experimental or malformed type tags.
type UnknownBlock struct {
	TypeName string
}

func (b UnknownBlock) renderTo(sb *strings.Builder) {
	name := b.TypeName
	if name == "" {
		name = "untyped"
	}
	fmt.Fprintf(sb, `<section class="block block-unknown"><!-- unsupported block --><p>Unsupported block type: %s</p></section>`,
		html.EscapeString(name))
}

//
// Rendering
//

// Render concatenates the per-block fragments in list order.  Stateless
// and side-effect free: the same list always produces the same HTML.
func Render(list []Block) string {
	var sb strings.Builder
	for _, b := range list {
		b.renderTo(&sb)
	}
	return sb.String()
}
