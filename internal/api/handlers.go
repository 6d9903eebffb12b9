package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/a-h/templ"

	"github.com/sydlexius/gallery/internal/version"
	"github.com/sydlexius/gallery/web/templates"
)

// htmxCDN is used when no local copy of htmx is present in the static dir.
const htmxCDN = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

func (r *Router) handleHealth(w http.ResponseWriter, req *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": version.Version,
		"commit":  version.Commit,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// assets returns cache-busted asset paths for templates.
func (r *Router) assets() templates.AssetPaths {
	htmx := htmxCDN
	if r.staticAssets.Has("/js/htmx.min.js") {
		htmx = r.staticAssets.Path("/js/htmx.min.js")
	}
	paths := templates.AssetPaths{
		CSS:  r.staticAssets.Path("/css/gallery.css"),
		JS:   r.staticAssets.Path("/js/gallery.js"),
		HTMX: htmx,
	}
	if r.staticAssets.Has("/img/favicon-32x32.png") {
		paths.Icon = r.staticAssets.Path("/img/favicon-32x32.png")
	}
	return paths
}

func renderTempl(w http.ResponseWriter, r *http.Request, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// writeError sends an error response. For HTMX requests, it renders an error
// notice HTML fragment. For API requests, it returns JSON.
func writeError(w http.ResponseWriter, req *http.Request, status int, message string) {
	if req.Header.Get("HX-Request") == "true" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_ = templates.ErrorNotice(message).Render(req.Context(), w)
		return
	}
	writeJSON(w, status, map[string]string{"error": message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, "encode error", http.StatusInternalServerError)
	}
}
