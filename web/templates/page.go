package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/sydlexius/gallery/internal/gallery"
)

// AssetPaths holds cache-busted static asset URLs.
type AssetPaths struct {
	CSS  string
	JS   string
	HTMX string
	Icon string
}

// PageData is everything the full gallery page needs.
type PageData struct {
	Assets   AssetPaths
	BasePath string
	Dark     bool
	Gallery  ViewData
}

// GalleryPage renders the full document: theme toggle, search form and
// the gallery section.
func GalleryPage(d PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		q := d.Gallery.Query

		h.raw(`<!DOCTYPE html><html lang="en"><head>`)
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		h.raw(`<title>Unsplash Images</title>`)
		h.raw(`<link rel="stylesheet"`)
		h.attr("href", d.Assets.CSS)
		h.raw(`>`)
		if d.Assets.Icon != "" {
			h.raw(`<link rel="icon" type="image/png"`)
			h.attr("href", d.Assets.Icon)
			h.raw(`>`)
		}
		if d.Assets.JS != "" {
			h.raw(`<script defer`)
			h.attr("src", d.Assets.JS)
			h.raw(`></script>`)
		}
		if d.Assets.HTMX != "" {
			h.raw(`<script defer`)
			h.attr("src", d.Assets.HTMX)
			h.raw(`></script>`)
		}
		h.raw(`</head>`)

		if d.Dark {
			h.raw(`<body class="dark-theme"><main>`)
		} else {
			h.raw(`<body><main>`)
		}

		h.render(ctx, themeToggle(d.BasePath, q, d.Dark))
		h.render(ctx, searchForm(d.BasePath, q))
		h.render(ctx, GallerySection(d.Gallery))

		h.raw(`</main></body></html>`)
		return h.err
	})
}

// themeToggle posts to /theme and comes back to the current page.
func themeToggle(basePath string, q gallery.Query, dark bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<section class="toggle-container"><form method="post"`)
		h.attr("action", basePath+"/theme")
		h.raw(`><input type="hidden" name="return"`)
		h.attr("value", pageURL(basePath, q))
		h.raw(`><button type="submit" class="dark-toggle">`)
		if dark {
			h.text("Light mode")
		} else {
			h.text("Dark mode")
		}
		h.raw(`</button></form></section>`)

		return h.err
	})
}

// searchForm owns the search term. Random state rides along in hidden
// fields so random mode keeps precedence across searches.
func searchForm(basePath string, q gallery.Query) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		h.raw(`<section><h1 class="title">unsplash images</h1>`)
		h.raw(`<form class="search-form" method="get"`)
		h.attr("action", basePath+"/")
		h.raw(`><input type="text" class="form-input search-input" name="q" placeholder="cat" aria-label="Search"`)
		h.attr("value", q.SearchTerm)
		h.raw(`>`)
		if q.RandomMode {
			h.raw(`<input type="hidden" name="random" value="1">`)
		}
		if q.RandomCount > 0 {
			h.raw(`<input type="hidden" name="count"`)
			h.attr("value", itoa(q.RandomCount))
			h.raw(`>`)
		}
		h.raw(`<button type="submit" class="btn">search</button></form></section>`)

		return h.err
	})
}
