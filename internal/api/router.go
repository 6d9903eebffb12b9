package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/sydlexius/gallery/internal/api/middleware"
	"github.com/sydlexius/gallery/internal/gallery"
	"github.com/sydlexius/gallery/internal/logging"
)

// Fetcher resolves a gallery query to a status. Fetch blocks until the
// result is known; Peek never blocks.
type Fetcher interface {
	Fetch(ctx context.Context, q gallery.Query) gallery.Status
	Peek(ctx context.Context, q gallery.Query) gallery.Status
}

// RouterDeps bundles all dependencies needed by the HTTP router.
type RouterDeps struct {
	Fetcher    Fetcher
	LogManager *logging.Manager
	Logger     *slog.Logger
	BasePath   string
	StaticDir  string
	// RequestsPerMinute limits, per client IP, the routes that can reach
	// the photo API. Zero disables the limit.
	RequestsPerMinute int
}

// Router sets up all HTTP routes for the application.
type Router struct {
	fetcher           Fetcher
	logManager        *logging.Manager
	logger            *slog.Logger
	basePath          string
	staticAssets      *StaticAssets
	requestsPerMinute int
}

// NewRouter creates a new Router with all routes configured.
func NewRouter(deps RouterDeps) *Router {
	return &Router{
		fetcher:           deps.Fetcher,
		logManager:        deps.LogManager,
		logger:            deps.Logger,
		basePath:          deps.BasePath,
		staticAssets:      NewStaticAssets(deps.StaticDir, deps.BasePath, deps.Logger),
		requestsPerMinute: deps.RequestsPerMinute,
	}
}

// Handler returns the fully configured HTTP handler with middleware applied.
// ctx bounds background work such as rate limiter cleanup.
func (r *Router) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	bp := r.basePath

	upstream := func(h http.HandlerFunc) http.Handler { return h }
	if r.requestsPerMinute > 0 {
		rl := middleware.NewClientRateLimiter(ctx, r.requestsPerMinute, 10)
		upstream = func(h http.HandlerFunc) http.Handler { return rl.Middleware(h) }
	}

	mux.HandleFunc("GET "+bp+"/api/v1/health", r.handleHealth)
	mux.HandleFunc("GET "+bp+"/api/v1/logging", r.handleGetLogging)
	mux.Handle("GET "+bp+"/api/v1/images", upstream(r.handleImages))
	mux.Handle("GET "+bp+"/static/", r.staticAssets.Handler())

	// Web routes
	mux.Handle("GET "+bp+"/{$}", upstream(r.handleIndex))
	if bp != "" {
		mux.Handle("GET "+bp, http.RedirectHandler(bp+"/", http.StatusMovedPermanently))
	}
	mux.Handle("GET "+bp+"/gallery/results", upstream(r.handleResults))
	mux.HandleFunc("POST "+bp+"/theme", r.handleTheme)

	var h http.Handler = mux
	h = middleware.SecurityHeaders(h)
	h = middleware.Logging(r.logger)(h)
	return middleware.RequestID(h)
}
