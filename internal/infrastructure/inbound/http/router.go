package http_server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	post_service "rollup-blog-service/internal/domain/ports/input/post"
	ports "rollup-blog-service/internal/domain/ports/output"
	feed_http "rollup-blog-service/internal/infrastructure/inbound/http/feed"
	post_http "rollup-blog-service/internal/infrastructure/inbound/http/post"
	publication_http "rollup-blog-service/internal/infrastructure/inbound/http/publication"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
	"rollup-blog-service/internal/infrastructure/inbound/middleware"
)

// NewRouter mounts the public API under /api/v1.
func NewRouter(
	postService post_service.Service,
	feed feed_http.Feed,
	log ports.Logger,
	metrics ports.MetricsProvider,
	maxRequestBytes int64,
) http.Handler {
	validate := validator.New()

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogger(log, metrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, log, http.StatusNotFound, "NotFound", "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.WriteError(w, log, http.StatusMethodNotAllowed, "MethodNotAllowed", "Method not allowed")
	})

	r.Route("/api/v1", func(r chi.Router) {
		post_http.RegisterRoutes(r, postService, validate, log, maxRequestBytes)
		publication_http.RegisterRoutes(r, postService, validate, log)
		feed_http.RegisterRoutes(r, feed, log)
	})

	return r
}
