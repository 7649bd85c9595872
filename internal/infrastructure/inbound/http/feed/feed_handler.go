package feed_http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"rollup-blog-service/internal/application/feed"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

type Feed interface {
	Snapshot() feed.Snapshot
	Refresh(ctx context.Context) (feed.Snapshot, error)
}

type FeedHandler struct {
	feed Feed
	log  ports.Logger
}

func NewFeedHandler(source Feed, log ports.Logger) *FeedHandler {
	return &FeedHandler{
		feed: source,
		log:  log,
	}
}

// HandleGet handles GET /api/v1/feed
func (h *FeedHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, h.log, http.StatusOK, h.feed.Snapshot())
}

// HandleRefresh handles POST /api/v1/feed/refresh. On failure the previous
// snapshot stays available through HandleGet with LastError set.
func (h *FeedHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.feed.Refresh(r.Context())
	if err != nil {
		h.log.Debug("Feed refresh failed", slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}
	response.WriteJSON(w, h.log, http.StatusOK, snapshot)
}

func RegisterRoutes(r chi.Router, source Feed, log ports.Logger) {
	handler := NewFeedHandler(source, log)
	r.Route("/feed", func(r chi.Router) {
		r.Get("/", handler.HandleGet)
		r.Post("/refresh", handler.HandleRefresh)
	})
}
