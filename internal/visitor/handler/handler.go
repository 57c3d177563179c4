package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/platform/middleware/auth"
	"gatehouse/pkg/requestcontext"
)

// Service defines the front-desk operations the handler depends on.
type Service interface {
	CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.Visitor, error)
	CheckOut(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error)
	BulkCheckOut(ctx context.Context, visitorIDs []string) *models.BulkCheckOutResult
	List(ctx context.Context, status models.Status) ([]*models.Visitor, error)
	Get(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error)
	Update(ctx context.Context, visitorID id.VisitorID, req *models.UpdateVisitorRequest) (*models.Visitor, error)
	ListTrays(ctx context.Context) ([]*models.Tray, error)
	AvailableTrays(ctx context.Context) ([]*models.Tray, error)
	TrayStats(ctx context.Context) (*models.TrayStats, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts visitor and tray routes behind the front-desk role gate.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(h.logger, id.RoleReceptionist, id.RoleAdmin))

		r.Post("/visitors/check-in", h.HandleCheckIn)
		r.Post("/visitors/bulk-check-out", h.HandleBulkCheckOut)
		r.Get("/visitors", h.HandleList)
		r.Get("/visitors/{id}", h.HandleGet)
		r.Patch("/visitors/{id}", h.HandleUpdate)
		r.Post("/visitors/{id}/check-out", h.HandleCheckOut)
		r.Get("/trays", h.HandleListTrays)
		r.Get("/trays/stats", h.HandleTrayStats)
	})
}

func (h *Handler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CheckInRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.service.CheckIn(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "check in visitor", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func (h *Handler) HandleCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := parseVisitorID(w, r)
	if !ok {
		return
	}
	v, err := h.service.CheckOut(ctx, visitorID)
	if err != nil {
		h.logFailure(ctx, "check out visitor", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) HandleBulkCheckOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.BulkCheckOutRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, h.service.BulkCheckOut(ctx, req.VisitorIDs))
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := models.Status(strings.TrimSpace(r.URL.Query().Get("status")))
	visitors, err := h.service.List(ctx, status)
	if err != nil {
		h.logFailure(ctx, "list visitors", err)
		httputil.WriteError(w, err)
		return
	}
	if visitors == nil {
		visitors = []*models.Visitor{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"visitors": visitors})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := parseVisitorID(w, r)
	if !ok {
		return
	}
	v, err := h.service.Get(ctx, visitorID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitorID, ok := parseVisitorID(w, r)
	if !ok {
		return
	}
	var req models.UpdateVisitorRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.service.Update(ctx, visitorID, &req)
	if err != nil {
		h.logFailure(ctx, "update visitor", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) HandleListTrays(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	onlyAvailable := false
	if raw := r.URL.Query().Get("available"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "available must be true or false"))
			return
		}
		onlyAvailable = v
	}

	list := h.service.ListTrays
	if onlyAvailable {
		list = h.service.AvailableTrays
	}
	trays, err := list(ctx)
	if err != nil {
		h.logFailure(ctx, "list trays", err)
		httputil.WriteError(w, err)
		return
	}
	if trays == nil {
		trays = []*models.Tray{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"trays": trays})
}

func (h *Handler) HandleTrayStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.TrayStats(ctx)
	if err != nil {
		h.logFailure(ctx, "tray stats", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func parseVisitorID(w http.ResponseWriter, r *http.Request) (id.VisitorID, bool) {
	visitorID, err := id.ParseVisitorID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return "", false
	}
	return visitorID, true
}

func (h *Handler) logFailure(ctx context.Context, op string, err error) {
	if de, ok := dErrors.As(err); ok && de.Code != dErrors.CodeInternal {
		h.logger.WarnContext(ctx, op+" rejected",
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
		return
	}
	h.logger.ErrorContext(ctx, op+" failed",
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
}
