package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vamg1994/content-creation-vam/internal/content"
	"github.com/vamg1994/content-creation-vam/internal/logging"
)

// DefaultMaxUploadBytes caps uploaded template size.
const DefaultMaxUploadBytes = 32 << 20

// Deps holds all dependencies required to build the router.
type Deps struct {
	Service        *content.Service
	Logger         *slog.Logger
	MaxUploadBytes int64
}

// NewRouter assembles the full chi router: middleware, health and metrics
// endpoints, and the /api/v1 sub-router.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"status":             "ok",
			"generation_enabled": deps.Service.GenerationEnabled(),
		})
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/api/v1", NewAPIRouter(deps))
	return r
}

// NewAPIRouter creates a chi sub-router for /api/v1. Errors are always JSON;
// carousel endpoints answer with the presentation itself.
func NewAPIRouter(deps Deps) chi.Router {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.MaxUploadBytes <= 0 {
		deps.MaxUploadBytes = DefaultMaxUploadBytes
	}

	r := chi.NewRouter()
	r.Use(jsonContentType)
	r.Use(requestLogger(deps.Logger))

	tmpl := &templatesHandler{svc: deps.Service, maxUpload: deps.MaxUploadBytes}
	r.Get("/templates", tmpl.List)
	r.Post("/templates/init", tmpl.Init)
	r.Post("/templates/upload", tmpl.Upload)

	gen := &generateHandler{svc: deps.Service}
	r.Post("/carousels", gen.Carousel)
	r.Post("/carousels/merge", gen.Merge)
	r.Post("/posts", gen.Post)
	r.Post("/ideas", gen.Ideas)
	r.Post("/images", gen.Images)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestLogger stores a logger tagged with the request id in the request
// context.
func requestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			l := base
			if id := middleware.GetReqID(r.Context()); id != "" {
				l = l.With("request_id", id)
			}
			next.ServeHTTP(w, r.WithContext(logging.WithLogger(r.Context(), l)))
		})
	}
}
