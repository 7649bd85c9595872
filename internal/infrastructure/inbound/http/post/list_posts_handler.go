package post_http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

type PostLister interface {
	ListPosts(ctx context.Context, opts *model.ListOptions) ([]*model.Post, error)
}

type ListPostsHandler struct {
	postService PostLister
	log         ports.Logger
}

func NewListPostsHandler(postService PostLister, log ports.Logger) *ListPostsHandler {
	return &ListPostsHandler{
		postService: postService,
		log:         log,
	}
}

type ListPostsResponse struct {
	Posts []*model.Post `json:"posts"`
	Count int           `json:"count"`
}

// HandleList handles GET /api/v1/posts?partial=&published=
func (h *ListPostsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	opts := &model.ListOptions{}
	var err error
	if opts.AllowPartial, err = parseBoolParam(r, "partial"); err != nil {
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", "partial must be a boolean")
		return
	}
	if opts.PublishedOnly, err = parseBoolParam(r, "published"); err != nil {
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", "published must be a boolean")
		return
	}

	posts, err := h.postService.ListPosts(r.Context(), opts)
	if err != nil {
		h.log.Debug("Error listing posts", slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}

	h.log.Debug("Successfully listed posts", slog.Int("count", len(posts)))
	response.WriteJSON(w, h.log, http.StatusOK, ListPostsResponse{Posts: posts, Count: len(posts)})
}

func parseBoolParam(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	return strconv.ParseBool(raw)
}
