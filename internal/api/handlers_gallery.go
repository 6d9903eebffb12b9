package api

import (
	"net/http"
	"strings"

	"github.com/sydlexius/gallery/internal/gallery"
	"github.com/sydlexius/gallery/internal/provider"
	"github.com/sydlexius/gallery/web/templates"
)

const themeCookie = "theme"

// handleIndex renders the full page without waiting on the photo API.
// An unresolved query renders the loading state, which pulls the
// results fragment once the page is in the browser.
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) {
	q := gallery.ParseQuery(req.URL.Query())
	st := r.fetcher.Peek(req.Context(), q)

	renderTempl(w, req, templates.GalleryPage(templates.PageData{
		Assets:   r.assets(),
		BasePath: r.basePath,
		Dark:     isDark(req),
		Gallery: templates.ViewData{
			BasePath: r.basePath,
			Query:    q,
			Status:   st,
		},
	}))
}

// handleResults renders the gallery section once the query has resolved.
// Failures still answer 200 so HTMX swaps the error message in.
func (r *Router) handleResults(w http.ResponseWriter, req *http.Request) {
	q := gallery.ParseQuery(req.URL.Query())
	st := r.fetcher.Fetch(req.Context(), q)

	renderTempl(w, req, templates.GallerySection(templates.ViewData{
		BasePath: r.basePath,
		Query:    q,
		Status:   st,
	}))
}

type queryResponse struct {
	SearchTerm  string `json:"q"`
	RandomMode  bool   `json:"random"`
	RandomCount int    `json:"count"`
	Mode        string `json:"mode"`
}

type imagesResponse struct {
	Status         string          `json:"status"`
	Error          string          `json:"error,omitempty"`
	UpstreamStatus int             `json:"upstream_status,omitempty"`
	Images         []gallery.Image `json:"images"`
	Query          queryResponse   `json:"query"`
}

// handleImages returns the normalized images for the query as JSON.
// wait=false answers immediately with 202 while a request is in flight.
func (r *Router) handleImages(w http.ResponseWriter, req *http.Request) {
	q := gallery.ParseQuery(req.URL.Query())

	var st gallery.Status
	if v := req.URL.Query().Get("wait"); v == "false" || v == "0" {
		st = r.fetcher.Peek(req.Context(), q)
	} else {
		st = r.fetcher.Fetch(req.Context(), q)
	}

	resp := imagesResponse{
		Status: gallery.StatusName(st),
		Images: []gallery.Image{},
		Query: queryResponse{
			SearchTerm:  q.SearchTerm,
			RandomMode:  q.RandomMode,
			RandomCount: q.RandomCount,
			Mode:        string(q.Mode()),
		},
	}

	code := http.StatusOK
	switch st := st.(type) {
	case gallery.Pending:
		code = http.StatusAccepted
	case gallery.Failed:
		code = http.StatusBadGateway
		resp.Error = "unknown error"
		if st.Err != nil {
			resp.Error = st.Err.Error()
		}
		if fe, ok := provider.AsFetchError(st.Err); ok {
			resp.UpstreamStatus = fe.StatusCode
		}
	case gallery.Ready:
		if st.Images != nil {
			resp.Images = st.Images
		}
	}

	writeJSON(w, code, resp)
}

// handleTheme flips the theme cookie and sends the browser back to the
// page it came from.
func (r *Router) handleTheme(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseForm(); err != nil {
		writeError(w, req, http.StatusBadRequest, "invalid form data")
		return
	}

	value := "dark"
	if isDark(req) {
		value = "light"
	}
	http.SetCookie(w, &http.Cookie{
		Name:     themeCookie,
		Value:    value,
		Path:     r.basePath + "/",
		MaxAge:   365 * 24 * 60 * 60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   req.TLS != nil,
	})

	http.Redirect(w, req, r.returnPath(req.FormValue("return")), http.StatusSeeOther)
}

// returnPath accepts only local paths under the base path, so the theme
// form cannot be used as an open redirect.
func (r *Router) returnPath(s string) string {
	home := r.basePath + "/"
	if s == "" ||
		!strings.HasPrefix(s, home) ||
		strings.HasPrefix(s, "//") ||
		strings.ContainsAny(s, "\\\r\n") {
		return home
	}
	return s
}

func isDark(req *http.Request) bool {
	c, err := req.Cookie(themeCookie)
	return err == nil && c.Value == "dark"
}
