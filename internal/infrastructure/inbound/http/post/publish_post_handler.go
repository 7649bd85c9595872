package post_http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

type PostPublisher interface {
	PublishPost(ctx context.Context, post *model.CreatePostDTO) (*model.Publication, error)
}

type PublishPostHandler struct {
	postService     PostPublisher
	validate        *validator.Validate
	log             ports.Logger
	maxRequestBytes int64
}

func NewPublishPostHandler(postService PostPublisher, validate *validator.Validate, log ports.Logger, maxRequestBytes int64) *PublishPostHandler {
	return &PublishPostHandler{
		postService:     postService,
		validate:        validate,
		log:             log,
		maxRequestBytes: maxRequestBytes,
	}
}

// HandlePublish handles POST /api/v1/posts
func (h *PublishPostHandler) HandlePublish(w http.ResponseWriter, r *http.Request) {
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
		h.log.Debug("Request validation failed", slog.String("error", err.Error()))
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	publication, err := h.postService.PublishPost(r.Context(), &model.CreatePostDTO{
		Title: req.Title,
		Body:  req.Body,
	})
	if err != nil {
		h.log.Debug("Error publishing post", slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}

	h.log.Info("Post published",
		slog.String("tx_hash", publication.TxHash),
		slog.String("content_ref", publication.ContentRef))
	response.WriteJSON(w, h.log, http.StatusCreated, publication)
}
