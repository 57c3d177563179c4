package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"gatehouse/internal/invitation/models"
	"gatehouse/internal/invitation/qrcode"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/platform/middleware/auth"
	"gatehouse/pkg/requestcontext"
)

// Service defines the invitation operations the handler depends on.
type Service interface {
	Create(ctx context.Context, req *models.CreateInvitationRequest) (*models.Invitation, error)
	List(ctx context.Context, residentID string) ([]*models.Invitation, error)
	Get(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error)
	Update(ctx context.Context, invitationID id.InvitationID, req *models.UpdateInvitationRequest) (*models.Invitation, error)
	Cancel(ctx context.Context, invitationID id.InvitationID, reason string) (*models.Invitation, error)
	Validate(ctx context.Context, code string) (*models.ValidationResult, error)
}

// Handler serves invitation endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the invitation routes. Authentication is applied by the
// parent router; role gates are applied here.
func (h *Handler) Register(r chi.Router) {
	issuers := auth.RequireRole(h.logger, id.RoleResident, id.RoleAdmin)
	desk := auth.RequireRole(h.logger, id.RoleReceptionist, id.RoleAdmin)
	anyone := auth.RequireRole(h.logger, id.RoleResident, id.RoleReceptionist, id.RoleAdmin)

	r.With(issuers).Post("/invitations", h.HandleCreate)
	r.With(anyone).Get("/invitations", h.HandleList)
	r.With(desk).Post("/invitations/validate", h.HandleValidate)
	r.With(anyone).Get("/invitations/{id}", h.HandleGet)
	r.With(issuers).Patch("/invitations/{id}", h.HandleUpdate)
	r.With(issuers).Post("/invitations/{id}/cancel", h.HandleCancel)
	r.With(anyone).Get("/invitations/{id}/qr.png", h.HandleQRCode)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.CreateInvitationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}

	// Residents always issue on their own behalf.
	if requestcontext.Role(ctx) == id.RoleResident || strings.TrimSpace(req.ResidentID) == "" {
		req.ResidentID = requestcontext.UserID(ctx).String()
		req.ResidentName = requestcontext.UserName(ctx)
	}

	inv, err := h.service.Create(ctx, &req)
	if err != nil {
		h.logFailure(ctx, "create invitation", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, inv)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	residentID := strings.TrimSpace(r.URL.Query().Get("resident_id"))
	if requestcontext.Role(ctx) == id.RoleResident {
		residentID = requestcontext.UserID(ctx).String()
	}

	invitations, err := h.service.List(ctx, residentID)
	if err != nil {
		h.logFailure(ctx, "list invitations", err)
		httputil.WriteError(w, err)
		return
	}
	if invitations == nil {
		invitations = []*models.Invitation{}
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"invitations": invitations})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	httputil.WriteJSON(w, http.StatusOK, inv)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	var req models.UpdateInvitationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	updated, err := h.service.Update(ctx, inv.ID, &req)
	if err != nil {
		h.logFailure(ctx, "update invitation", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	var req models.CancelInvitationRequest
	if err := httputil.DecodeOptionalJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	cancelled, err := h.service.Cancel(ctx, inv.ID, req.Reason)
	if err != nil {
		h.logFailure(ctx, "cancel invitation", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, cancelled)
}

func (h *Handler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req models.ValidateInvitationRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	result, err := h.service.Validate(ctx, req.Code)
	if err != nil {
		h.logFailure(ctx, "validate invitation", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) HandleQRCode(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inv, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	png, err := qrcode.PNG(inv.Code, qrcode.DefaultSize)
	if err != nil {
		h.logFailure(ctx, "render qr code", err)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render qr code"))
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// loadOwned fetches the invitation named in the path. Residents may only see
// their own invitations; others get a not-found so foreign ids stay hidden.
func (h *Handler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Invitation, bool) {
	ctx := r.Context()
	invitationID, err := id.ParseInvitationID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	inv, err := h.service.Get(ctx, invitationID)
	if err != nil {
		httputil.WriteError(w, err)
		return nil, false
	}
	if requestcontext.Role(ctx) == id.RoleResident && inv.ResidentID != requestcontext.UserID(ctx).String() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "Invitation not found"))
		return nil, false
	}
	return inv, true
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
