package app

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heartmarshall/keepnotes/internal/config"
	"github.com/heartmarshall/keepnotes/internal/transport/middleware"
	"github.com/heartmarshall/keepnotes/internal/transport/rest"
)

// routerDeps is everything the HTTP surface is built from.
type routerDeps struct {
	cfg      config.Config
	log      *slog.Logger
	notes    *rest.NotesHandler
	tags     *rest.TagsHandler
	login    *rest.AuthHandler
	health   *rest.HealthHandler
	auth     middleware.Middleware
	limiter  *middleware.RateLimiter
	registry *prometheus.Registry
}

// newRouter registers every route and wraps the mux in the global
// middleware chain: recovery, request id, access log, metrics, CORS.
// API routes additionally pass through rate limiting and auth.
func newRouter(d routerDeps) http.Handler {
	mux := http.NewServeMux()

	var apiLimit, loginLimit middleware.Middleware
	if d.cfg.RateLimit.Enabled && d.limiter != nil {
		apiLimit = d.limiter.Limit("api", d.cfg.RateLimit.PerMinute)
		loginLimit = d.limiter.Limit("login", d.cfg.RateLimit.LoginPerMinute)
	}
	api := middleware.Chain(apiLimit, d.auth)
	handle := func(pattern string, h http.HandlerFunc) {
		mux.Handle(pattern, api(h))
	}

	// Notes
	handle("GET /api/notes", d.notes.List)
	handle("POST /api/notes", d.notes.Create)
	handle("GET /api/notes/{id}", d.notes.Get)
	handle("PUT /api/notes/{id}", d.notes.Update)
	handle("DELETE /api/notes/{id}", d.notes.Purge)
	handle("PUT /api/notes/{id}/priority", d.notes.SetPriority)
	handle("PUT /api/notes/{id}/tags", d.notes.SetTags)
	handle("POST /api/notes/{id}/archive", d.notes.Archive)
	handle("POST /api/notes/{id}/unarchive", d.notes.Unarchive)
	handle("POST /api/notes/{id}/trash", d.notes.Trash)
	handle("POST /api/notes/{id}/restore", d.notes.Restore)
	handle("POST /api/notes/{id}/pin", d.notes.TogglePin)

	// Tags
	handle("GET /api/tags", d.tags.List)
	handle("POST /api/tags", d.tags.Create)
	handle("DELETE /api/tags/{label}", d.tags.Delete)

	if d.cfg.Auth.Enabled {
		mux.Handle("POST /auth/login", middleware.Chain(loginLimit)(http.HandlerFunc(d.login.Login)))
	}

	mux.HandleFunc("GET /live", d.health.Live)
	mux.HandleFunc("GET /ready", d.health.Ready)
	mux.HandleFunc("GET /health", d.health.Health)

	var httpMetrics middleware.Middleware
	if d.cfg.Metrics.Enabled && d.registry != nil {
		mux.Handle("GET "+d.cfg.Metrics.Path, promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{
			Registry: d.registry,
		}))
		httpMetrics = middleware.NewHTTPMetrics(d.registry).Middleware(routePattern(mux))
	}

	return middleware.Chain(
		middleware.Recovery(d.log),
		middleware.RequestID,
		middleware.Logger(d.log),
		httpMetrics,
		middleware.CORS(d.cfg.CORS),
	)(mux)
}

// routePattern labels requests with the mux pattern that serves them so
// path parameters never explode metric cardinality.
func routePattern(mux *http.ServeMux) middleware.RouteFunc {
	return func(r *http.Request) string {
		_, pattern := mux.Handler(r)
		return pattern
	}
}
