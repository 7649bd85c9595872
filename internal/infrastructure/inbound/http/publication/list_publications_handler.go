package publication_http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	model "rollup-blog-service/internal/domain/models"
	ports "rollup-blog-service/internal/domain/ports/output"
	"rollup-blog-service/internal/infrastructure/inbound/http/response"
)

const defaultPageSize = 50

type PublicationLister interface {
	ListPublications(ctx context.Context, filters *model.PublicationFilters) ([]*model.Publication, int, error)
}

type ListPublicationsHandler struct {
	service  PublicationLister
	validate *validator.Validate
	log      ports.Logger
}

func NewListPublicationsHandler(service PublicationLister, validate *validator.Validate, log ports.Logger) *ListPublicationsHandler {
	return &ListPublicationsHandler{
		service:  service,
		validate: validate,
		log:      log,
	}
}

type ListPublicationsRequestInternal struct {
	Status   string `validate:"omitempty,oneof=uploaded submitted confirmed rejected reverted failed"`
	Orphaned bool
	Limit    int `validate:"gte=1,lte=500"`
	Offset   int `validate:"gte=0"`
}

type ListPublicationsResponse struct {
	Publications []*model.Publication `json:"publications"`
	Total        int                  `json:"total"`
}

// HandleList handles GET /api/v1/publications?status=&orphaned=&limit=&offset=
func (h *ListPublicationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	req, err := parseListRequest(r)
	if err != nil {
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.log.Debug("Request validation failed", slog.String("error", err.Error()))
		response.WriteError(w, h.log, http.StatusBadRequest, "InvalidRequest", err.Error())
		return
	}

	filters := &model.PublicationFilters{
		OrphanedOnly: req.Orphaned,
		Limit:        &req.Limit,
		Offset:       &req.Offset,
	}
	if req.Status != "" {
		status := model.PublicationStatus(req.Status)
		filters.Status = &status
	}

	publications, total, err := h.service.ListPublications(r.Context(), filters)
	if err != nil {
		h.log.Debug("Error listing publications", slog.String("error", err.Error()))
		response.HandleServiceError(w, h.log, err)
		return
	}

	response.WriteJSON(w, h.log, http.StatusOK, ListPublicationsResponse{
		Publications: publications,
		Total:        total,
	})
}

func parseListRequest(r *http.Request) (*ListPublicationsRequestInternal, error) {
	query := r.URL.Query()
	req := &ListPublicationsRequestInternal{
		Status: query.Get("status"),
		Limit:  defaultPageSize,
	}

	var err error
	if raw := query.Get("orphaned"); raw != "" {
		if req.Orphaned, err = strconv.ParseBool(raw); err != nil {
			return nil, errInvalidParam("orphaned")
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if req.Limit, err = strconv.Atoi(raw); err != nil {
			return nil, errInvalidParam("limit")
		}
	}
	if raw := query.Get("offset"); raw != "" {
		if req.Offset, err = strconv.Atoi(raw); err != nil {
			return nil, errInvalidParam("offset")
		}
	}
	return req, nil
}

type errInvalidParam string

func (e errInvalidParam) Error() string {
	return "invalid value for " + string(e)
}

func RegisterRoutes(r chi.Router, service PublicationLister, validate *validator.Validate, log ports.Logger) {
	listHandler := NewListPublicationsHandler(service, validate, log)
	r.Get("/publications", listHandler.HandleList)
}
