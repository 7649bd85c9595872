package post_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

type PostEditor interface {
	EditPost(ctx context.Context, id string, post *model.UpdatePostDTO) (*model.Publication, error)
}

type EditPostHandler struct {
	postService     PostEditor
	validate        *validator.Validate
	log             ports.Logger
	maxRequestBytes int64
}

func NewEditPostHandler(postService PostEditor, validate *validator.Validate, log ports.Logger, maxRequestBytes int64) *EditPostHandler {
	return &EditPostHandler{
		postService:     postService,
		validate:        validate,
		log:             log,
		maxRequestBytes: maxRequestBytes,
	}
}

// HandleEdit handles PUT /api/v1/posts/{id}
func (h *EditPostHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.validate.Struct(&PostIDRequestInternal{ID: id}); err != nil {
		h.log.Debug("Request validation failed", slog.String("post_id", id), slog.String("error", err.Error()))
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", "id must be a non-negative integer")
		return
	}

	req, err := decodePostRequest(w, r, h.maxRequestBytes)
	if err != nil {
		if errors.Is(err, errRequestTooLarge) {
			response.WriteError(w, h.log, http.StatusRequestEntityTooLarge, "RequestTooLarge", "Request body too large")
			return
		}
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", "Invalid request body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("Request validation failed", slog.String("post_id", id), slog.String("error", err.Error()))
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	publication, err := h.postService.EditPost(r.Context(), id, &model.UpdatePostDTO{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		h.log.Debug("Error editing post", slog.String("post_id", id), slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}

	h.log.Info("Post edited",
		slog.String("post_id", id),
		slog.String("tx_hash", publication.TxHash),
		slog.String("content_ref", publication.ContentRef))
	response.WriteJSON(w, h.log, http.StatusOK, publication)
}
