package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gatehouse/internal/audit"
	visitormetrics "gatehouse/internal/visitor/metrics"
	"gatehouse/internal/visitor/models"
	"gatehouse/pkg/attrs"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/middleware/metadata"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

var tracer = otel.Tracer("gatehouse/visitor")

// Store persists visitors.
type Store interface {
	Create(ctx context.Context, v *models.Visitor) error
	FindByID(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error)
	List(ctx context.Context, status models.Status) ([]*models.Visitor, error)
	Execute(ctx context.Context, visitorID id.VisitorID, validate func(*models.Visitor) error, mutate func(*models.Visitor)) (*models.Visitor, error)
	MarkCheckedOut(ctx context.Context, visitorID id.VisitorID, now time.Time) (*models.Visitor, error)
}

// TrayPool hands out trays. Acquire must be atomic: sentinel.ErrExhausted
// leaves every tray untouched.
type TrayPool interface {
	Acquire(ctx context.Context, assignee string, at time.Time) (*models.Tray, error)
	Release(ctx context.Context, number string) error
	List(ctx context.Context) ([]*models.Tray, error)
}

// PolicyProvider supplies the settings-driven check-in policy.
type PolicyProvider interface {
	CheckInPolicy(ctx context.Context) (models.Policy, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages visitor presence and the tray pool.
type Service struct {
	store          Store
	trays          TrayPool
	policy         PolicyProvider
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *visitormetrics.Metrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *visitormetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(p PolicyProvider) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func New(store Store, trays TrayPool, opts ...Option) *Service {
	s := &Service{store: store, trays: trays}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CheckIn registers an arriving visitor and assigns the first free tray.
func (s *Service) CheckIn(ctx context.Context, req *models.CheckInRequest) (*models.Visitor, error) {
	ctx, span := tracer.Start(ctx, "visitor.CheckIn")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.enforcePolicy(ctx, req); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	tray, err := s.trays.Acquire(ctx, req.Name, now)
	if err != nil {
		if errors.Is(err, sentinel.ErrExhausted) {
			if s.metrics != nil {
				s.metrics.IncrementExhausted()
			}
			return nil, dErrors.New(dErrors.CodeResourceExhausted, models.MsgNoTrays)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign tray")
	}
	span.SetAttributes(attribute.String("tray.number", tray.Number))

	v := &models.Visitor{
		ID:               id.NewVisitorID(),
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Company:          req.Company,
		Purpose:          req.Purpose,
		HostName:         req.HostName,
		HostID:           req.HostID,
		InvitationID:     req.InvitationID,
		HasInvitation:    req.HasInvitation,
		CheckInTime:      now,
		Status:           models.StatusCheckedIn,
		TrayNumber:       tray.Number,
		Notes:            req.Notes,
		GroupSize:        req.GroupSize,
		DocumentVerified: req.DocumentVerified,
		ParkingSpot:      req.ParkingSpot,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.Create(ctx, v); err != nil {
		s.releaseTray(ctx, tray.Number)
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check in visitor")
	}
	span.SetAttributes(attribute.String("visitor.id", v.ID.String()))

	s.logAudit(ctx, audit.EventVisitorCheckedIn,
		"subject", v.ID,
		"tray_number", v.TrayNumber,
		"host_name", v.HostName,
	)
	if s.metrics != nil {
		s.metrics.IncrementCheckIn()
	}
	return v, nil
}

func (s *Service) enforcePolicy(ctx context.Context, req *models.CheckInRequest) error {
	policy := models.DefaultPolicy()
	if s.policy != nil {
		p, err := s.policy.CheckInPolicy(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
		}
		policy = p
	}
	if !req.HasInvitation && !policy.AllowWalkIns {
		s.rejected("walk_in")
		return dErrors.New(dErrors.CodeValidation, "Walk-in visitors are not allowed")
	}
	if policy.MaxGroupSize > 0 && req.GroupSize > policy.MaxGroupSize {
		s.rejected("group_size")
		return dErrors.New(dErrors.CodeValidation, fmt.Sprintf("Group size cannot exceed %d", policy.MaxGroupSize))
	}
	return nil
}

// CheckOut marks a visitor as departed and releases the held tray.
func (s *Service) CheckOut(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	ctx, span := tracer.Start(ctx, "visitor.CheckOut", trace.WithAttributes(
		attribute.String("visitor.id", visitorID.String()),
	))
	defer span.End()

	v, err := s.store.MarkCheckedOut(ctx, visitorID, requestcontext.Now(ctx))
	if err != nil {
		return nil, wrapVisitorErr(err, "failed to check out visitor")
	}
	// Only the caller that won the transition reaches here, so the tray is
	// released exactly once.
	released := false
	if v.TrayNumber != "" {
		released = s.releaseTray(ctx, v.TrayNumber)
	}

	s.logAudit(ctx, audit.EventVisitorCheckedOut, "subject", v.ID, "tray_number", v.TrayNumber)
	if s.metrics != nil {
		s.metrics.IncrementCheckOut(released)
	}
	return v, nil
}

// BulkCheckOut checks out each id independently. Item failures are reported
// in the result and logged; the call itself never fails.
func (s *Service) BulkCheckOut(ctx context.Context, visitorIDs []string) *models.BulkCheckOutResult {
	ctx, span := tracer.Start(ctx, "visitor.BulkCheckOut", trace.WithAttributes(
		attribute.Int("visitor.count", len(visitorIDs)),
	))
	defer span.End()

	result := &models.BulkCheckOutResult{
		CheckedOut: []*models.Visitor{},
		Failures:   []models.BulkFailure{},
	}
	for _, raw := range visitorIDs {
		v, err := s.checkOutRaw(ctx, raw)
		if err != nil {
			reason := err.Error()
			if de, ok := dErrors.As(err); ok {
				reason = de.Message
			}
			result.Failures = append(result.Failures, models.BulkFailure{VisitorID: raw, Reason: reason})
			if s.logger != nil {
				s.logger.WarnContext(ctx, "bulk check-out item failed",
					"visitor_id", raw,
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
			}
			continue
		}
		result.CheckedOut = append(result.CheckedOut, v)
	}
	span.SetAttributes(attribute.Int("visitor.failed", len(result.Failures)))
	return result
}

func (s *Service) checkOutRaw(ctx context.Context, raw string) (*models.Visitor, error) {
	visitorID, err := id.ParseVisitorID(raw)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeNotFound, models.MsgVisitorNotFound)
	}
	return s.CheckOut(ctx, visitorID)
}

// List returns visitors newest first, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.Status) ([]*models.Visitor, error) {
	if status != "" && !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be checked-in, checked-out, or waiting")
	}
	visitors, err := s.store.List(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list visitors")
	}
	return visitors, nil
}

func (s *Service) Get(ctx context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	v, err := s.store.FindByID(ctx, visitorID)
	if err != nil {
		return nil, wrapVisitorErr(err, "failed to load visitor")
	}
	return v, nil
}

// Update edits contact details, notes, parking spot and the document flag.
func (s *Service) Update(ctx context.Context, visitorID id.VisitorID, req *models.UpdateVisitorRequest) (*models.Visitor, error) {
	ctx, span := tracer.Start(ctx, "visitor.Update", trace.WithAttributes(
		attribute.String("visitor.id", visitorID.String()),
	))
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	v, err := s.store.Execute(ctx, visitorID,
		func(*models.Visitor) error { return nil },
		func(v *models.Visitor) {
			req.Apply(v)
			v.UpdatedAt = now
		},
	)
	if err != nil {
		return nil, wrapVisitorErr(err, "failed to update visitor")
	}
	s.logAudit(ctx, audit.EventVisitorUpdated, "subject", v.ID)
	return v, nil
}

func (s *Service) ListTrays(ctx context.Context) ([]*models.Tray, error) {
	trays, err := s.trays.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list trays")
	}
	return trays, nil
}

func (s *Service) AvailableTrays(ctx context.Context) ([]*models.Tray, error) {
	trays, err := s.ListTrays(ctx)
	if err != nil {
		return nil, err
	}
	available := make([]*models.Tray, 0, len(trays))
	for _, t := range trays {
		if t.Available {
			available = append(available, t)
		}
	}
	return available, nil
}

func (s *Service) TrayStats(ctx context.Context) (*models.TrayStats, error) {
	trays, err := s.ListTrays(ctx)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeTrayStats(trays)
	return &stats, nil
}

// SyncMetrics sets the assigned-tray gauge from the pool, which may already
// hold trays when it is shared.
func (s *Service) SyncMetrics(ctx context.Context) error {
	if s.metrics == nil {
		return nil
	}
	stats, err := s.TrayStats(ctx)
	if err != nil {
		return err
	}
	s.metrics.SetAssigned(stats.Assigned)
	return nil
}

// releaseTray returns a tray to the pool. A failure leaves the tray held and is
// logged for an operator; it never fails the checkout.
func (s *Service) releaseTray(ctx context.Context, number string) bool {
	err := s.trays.Release(ctx, number)
	if err == nil {
		return true
	}
	if s.logger != nil {
		s.logger.ErrorContext(ctx, "failed to release tray",
			"tray_number", number,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
	return false
}

func (s *Service) rejected(reason string) {
	if s.metrics != nil {
		s.metrics.IncrementRejected(reason)
	}
}

func (s *Service) logAudit(ctx context.Context, event audit.AuditEvent, attributes ...any) {
	if requestID := requestcontext.RequestID(ctx); requestID != "" {
		attributes = append(attributes, "request_id", requestID)
	}
	args := append(attributes, "event", event.String(), "log_type", "audit")
	if s.logger != nil {
		s.logger.InfoContext(ctx, event.String(), args...)
	}
	if s.auditPublisher == nil {
		return
	}
	actor := requestcontext.UserID(ctx)
	evt := audit.Event{
		Category:  event.Category(),
		Timestamp: requestcontext.Now(ctx),
		Action:    event.String(),
		ActorRole: requestcontext.Role(ctx).String(),
		Subject:   attrs.ExtractString(attributes, "subject"),
		Resource:  attrs.ExtractString(attributes, "tray_number"),
		RequestID: requestcontext.RequestID(ctx),
		ClientIP:  metadata.GetClientIP(ctx),
	}
	if !actor.IsNil() {
		evt.ActorID = actor.String()
	}
	if err := s.auditPublisher.Emit(ctx, evt); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to emit audit event", "event", event.String(), "error", err)
	}
}

func wrapVisitorErr(err error, msg string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, models.MsgVisitorNotFound)
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeInvalidState, models.MsgAlreadyCheckedOut)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
