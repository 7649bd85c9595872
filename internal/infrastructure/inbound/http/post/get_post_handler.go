package post_http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

type PostGetter interface {
	GetPost(ctx context.Context, id string) (*model.Post, error)
}

type GetPostHandler struct {
	postService PostGetter
	validate    *validator.Validate
	log         ports.Logger
}

func NewGetPostHandler(postService PostGetter, validate *validator.Validate, log ports.Logger) *GetPostHandler {
	return &GetPostHandler{
		postService: postService,
		validate:    validate,
		log:         log,
	}
}

type PostIDRequestInternal struct {
	ID string `validate:"required,number"`
}

// HandleGet handles GET /api/v1/posts/{id}
func (h *GetPostHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validate.Struct(&PostIDRequestInternal{ID: id}); err != nil {
		h.log.Debug("Request validation failed", slog.String("post_id", id), slog.String("error", err.Error()))
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", "id must be a non-negative integer")
		return
	}

	post, err := h.postService.GetPost(r.Context(), id)
	if err != nil {
		h.log.Debug("Error getting post", slog.String("post_id", id), slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}

	response.WriteJSON(w, h.log, http.StatusOK, post)
}
