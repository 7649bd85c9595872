package post_http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	post_service "rollup-blog-service/internal/domain/ports/input/post"
	ports "rollup-blog-service/internal/domain/ports/output"
)

func RegisterRoutes(r chi.Router, service post_service.Service, validate *validator.Validate, log ports.Logger, maxRequestBytes int64) {
	listHandler := NewListPostsHandler(service, log)
	getHandler := NewGetPostHandler(service, validate, log)
	publishHandler := NewPublishPostHandler(service, validate, log, maxRequestBytes)
	editHandler := NewEditPostHandler(service, validate, log, maxRequestBytes)

	r.Route("/posts", func(r chi.Router) {
		r.Get("/", listHandler.HandleList)
		r.Post("/", publishHandler.HandlePublish)
		r.Get("/{id}", getHandler.HandleGet)
		r.Put("/{id}", editHandler.HandleEdit)
	})
}
