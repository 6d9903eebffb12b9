// Package templates renders the gallery's HTML.
package templates

import (
	"context"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/a-h/templ"

	"github.com/sydlexius/gallery/internal/gallery"
)

// Placeholder messages shown in place of the image list.
const (
	MsgNoResults = "No results found..."
	MsgError     = "Error: "
)

// ViewData is everything the gallery section needs to render.
type ViewData struct {
	BasePath string
	Query    gallery.Query
	Status   gallery.Status
}

// pageURL builds a link to the gallery page for q.
func pageURL(basePath string, q gallery.Query) string {
	u := basePath + "/"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// resultsURL builds the fragment URL that resolves a loading state.
func resultsURL(basePath string, q gallery.Query) string {
	u := basePath + "/gallery/results"
	if enc := q.Encode(); enc != "" {
		u += "?" + enc
	}
	return u
}

// GallerySection renders the gallery for d.Status: a loading placeholder,
// an error, an empty notice, or the controls and image list. The output
// is wrapped in #gallery so a fragment can replace it in place.
func GallerySection(d ViewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		switch st := d.Status.(type) {
		case gallery.Pending:
			h.raw(`<div id="gallery" class="gallery"`)
			h.attr("hx-get", resultsURL(d.BasePath, d.Query))
			h.raw(` hx-trigger="load" hx-swap="outerHTML">`)
			h.raw(`<section class="loading-container"><h4 class="loading"></h4></section>`)
			h.raw(`<noscript><meta http-equiv="refresh" content="2"></noscript>`)
			h.raw(`</div>`)

		case gallery.Failed:
			msg := "unknown error"
			if st.Err != nil {
				msg = st.Err.Error()
			}
			h.raw(`<div id="gallery" class="gallery"><section class="image-container"><h4>`)
			h.text(MsgError + msg)
			h.raw(`</h4></section></div>`)

		case gallery.Ready:
			h.raw(`<div id="gallery" class="gallery">`)
			if len(st.Images) < 1 {
				h.raw(`<section class="image-container"><h4>`)
				h.text(MsgNoResults)
				h.raw(`</h4></section>`)
			} else {
				h.render(ctx, filters(d.BasePath, d.Query))
				h.render(ctx, imageList(st.Images))
			}
			h.raw(`</div>`)

		default:
			h.raw(`<div id="gallery" class="gallery"></div>`)
		}

		return h.err
	})
}

// filters renders the count selector and the random mode buttons. Picking
// a count submits with random mode forced on.
func filters(basePath string, q gallery.Query) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<div class="gallery-filters">`)
		h.raw(`<form class="count-form" method="get"`)
		h.attr("action", basePath+"/")
		h.raw(`>`)
		// The submitted count replaces the one here; every other field is
		// what WithCount leaves behind, so random mode is switched on.
		next := q.WithCount(q.RandomCount).Values()
		for _, name := range slices.Sorted(maps.Keys(next)) {
			if name == "count" {
				continue
			}
			h.raw(`<input type="hidden"`)
			h.attr("name", name)
			h.attr("value", next.Get(name))
			h.raw(`>`)
		}
		h.raw(`<select name="count" class="count-select" aria-label="Number of random images">`)
		h.raw(`<option value=""`)
		if q.RandomCount == 0 {
			h.raw(` selected`)
		}
		h.raw(` disabled>Select...</option>`)
		for _, n := range gallery.RandomCounts {
			h.raw(`<option`)
			h.attr("value", itoa(n))
			if n == q.RandomCount {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(itoa(n))
			h.raw(`</option>`)
		}
		h.raw(`</select>`)
		h.raw(`<noscript><button type="submit" class="btn">Apply</button></noscript>`)
		h.raw(`</form>`)

		h.raw(`<a class="btn" role="button"`)
		h.attr("href", pageURL(basePath, q.UseRandom()))
		h.raw(`>Get Random Images</a>`)
		h.raw(`<a class="btn" role="button"`)
		h.attr("href", pageURL(basePath, q.ClearRandom()))
		h.raw(`>Clear Random</a>`)
		h.raw(`</div>`)

		return h.err
	})
}

// imageList renders one <img> per image, keyed by its id.
func imageList(images []gallery.Image) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<section class="image-container">`)
		for _, img := range images {
			h.raw(`<img class="img" loading="lazy"`)
			h.urlAttr("src", img.URLs.Regular)
			h.attr("alt", img.Alt())
			h.attr("data-id", img.ID)
			if img.Color != "" && strings.HasPrefix(img.Color, "#") {
				h.attr("style", "background-color: "+img.Color)
			}
			h.raw(`>`)
		}
		h.raw(`</section>`)

		return h.err
	})
}

// ErrorNotice renders a standalone error message, used for failed HTMX
// requests that have no gallery section to replace.
func ErrorNotice(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		h.raw(`<h4 class="error" role="alert">`)
		h.text(MsgError + message)
		h.raw(`</h4>`)
		return h.err
	})
}
