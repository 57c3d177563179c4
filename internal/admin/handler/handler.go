package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/admin/models"
	"gatehouse/internal/audit"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/platform/middleware/auth"
	"gatehouse/pkg/requestcontext"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 500
)

// Service covers parking and settings administration.
type Service interface {
	AddSpace(ctx context.Context, req *models.AddSpaceRequest) (*models.ParkingSpace, error)
	UpdateSpace(ctx context.Context, spaceID id.SpaceID, req *models.UpdateSpaceRequest) (*models.ParkingSpace, error)
	DeleteSpace(ctx context.Context, spaceID id.SpaceID) error
	ListSpaces(ctx context.Context) ([]*models.ParkingSpace, error)
	ParkingStats(ctx context.Context) (*models.ParkingStats, error)
	Settings(ctx context.Context) (*models.Settings, error)
	UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error)
}

// Users is the account moderation surface.
type Users interface {
	ListUsers(ctx context.Context, status string) ([]*models.UserInfoResponse, error)
	ApproveUser(ctx context.Context, userID id.UserID) (*models.UserInfoResponse, error)
	SuspendUser(ctx context.Context, userID id.UserID) (*models.UserInfoResponse, error)
	RejectUser(ctx context.Context, userID id.UserID) error
	DeleteUser(ctx context.Context, userID id.UserID) error
}

// AuditLister reads the recent audit trail.
type AuditLister interface {
	ListRecent(ctx context.Context, limit int) ([]audit.Event, error)
}

type Handler struct {
	service Service
	users   Users
	audit   AuditLister
	logger  *slog.Logger
}

func New(service Service, users Users, auditLister AuditLister, logger *slog.Logger) *Handler {
	return &Handler{service: service, users: users, audit: auditLister, logger: logger}
}

// Register mounts the /admin routes behind the admin role gate.
func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(auth.RequireRole(h.logger, id.RoleAdmin))

		r.Get("/parking", h.HandleListSpaces)
		r.Post("/parking", h.HandleAddSpace)
		r.Get("/parking/stats", h.HandleParkingStats)
		r.Patch("/parking/{id}", h.HandleUpdateSpace)
		r.Delete("/parking/{id}", h.HandleDeleteSpace)

		r.Get("/settings", h.HandleGetSettings)
		r.Patch("/settings", h.HandleUpdateSettings)

		r.Get("/users", h.HandleListUsers)
		r.Post("/users/{id}/approve", h.HandleApproveUser)
		r.Post("/users/{id}/reject", h.HandleRejectUser)
		r.Post("/users/{id}/suspend", h.HandleSuspendUser)
		r.Delete("/users/{id}", h.HandleDeleteUser)

		r.Get("/audit", h.HandleListAudit)
	})
}

func (h *Handler) HandleListSpaces(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	spaces, err := h.service.ListSpaces(ctx)
	if err != nil {
		h.logFailure(ctx, "list parking spaces", err)
		httputil.WriteError(w, err)
		return
	}
	if spaces == nil {
		spaces = []*models.ParkingSpace{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"spaces": spaces})
}

func (h *Handler) HandleAddSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.AddSpaceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	sp, err := h.service.AddSpace(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "add parking space", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, sp)
}

func (h *Handler) HandleUpdateSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	spaceID, err := id.ParseSpaceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	var req models.UpdateSpaceRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	sp, err := h.service.UpdateSpace(ctx, spaceID, &req)
	if err != nil {
		h.logFailure(ctx, "update parking space", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, sp)
}

func (h *Handler) HandleDeleteSpace(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	spaceID, err := id.ParseSpaceID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := h.service.DeleteSpace(ctx, spaceID); err != nil {
		h.logFailure(ctx, "delete parking space", err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleParkingStats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats, err := h.service.ParkingStats(ctx)
	if err != nil {
		h.logFailure(ctx, "parking stats", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	settings, err := h.service.Settings(ctx)
	if err != nil {
		h.logFailure(ctx, "load settings", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) HandleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.UpdateSettingsRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	settings, err := h.service.UpdateSettings(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "update settings", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, settings)
}

func (h *Handler) HandleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	status := strings.TrimSpace(r.URL.Query().Get("status"))
	users, err := h.users.ListUsers(ctx, status)
	if err != nil {
		h.logFailure(ctx, "list users", err)
		httputil.WriteError(w, err)
		return
	}
	if users == nil {
		users = []*models.UserInfoResponse{}
	}
	httputil.WriteJSON(w, http.StatusOK, &models.UsersListResponse{Users: users, Total: len(users)})
}

func (h *Handler) HandleApproveUser(w http.ResponseWriter, r *http.Request) {
	h.changeUser(w, r, "approve user", h.users.ApproveUser)
}

func (h *Handler) HandleSuspendUser(w http.ResponseWriter, r *http.Request) {
	h.changeUser(w, r, "suspend user", h.users.SuspendUser)
}

func (h *Handler) changeUser(w http.ResponseWriter, r *http.Request, op string,
	change func(context.Context, id.UserID) (*models.UserInfoResponse, error)) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	u, err := change(ctx, userID)
	if err != nil {
		h.logFailure(ctx, op, err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, u)
}

func (h *Handler) HandleRejectUser(w http.ResponseWriter, r *http.Request) {
	h.removeUser(w, r, "reject user", h.users.RejectUser)
}

func (h *Handler) HandleDeleteUser(w http.ResponseWriter, r *http.Request) {
	h.removeUser(w, r, "delete user", h.users.DeleteUser)
}

func (h *Handler) removeUser(w http.ResponseWriter, r *http.Request, op string,
	remove func(context.Context, id.UserID) error) {
	ctx := r.Context()
	userID, err := id.ParseUserID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if err := remove(ctx, userID); err != nil {
		h.logFailure(ctx, op, err)
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleListAudit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxAuditLimit {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be between 1 and 500"))
			return
		}
		limit = n
	}
	events, err := h.audit.ListRecent(ctx, limit)
	if err != nil {
		err = dErrors.Wrap(err, dErrors.CodeInternal, "failed to list audit events")
		h.logFailure(ctx, "list audit events", err)
		httputil.WriteError(w, err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	httputil.WriteJSON(w, http.StatusOK, &models.AuditListResponse{Events: events, Total: len(events)})
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
