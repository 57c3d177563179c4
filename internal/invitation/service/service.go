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
	invitationmetrics "gatehouse/internal/invitation/metrics"
	"gatehouse/internal/invitation/models"
	"gatehouse/internal/notify"
	"gatehouse/pkg/attrs"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/middleware/metadata"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

var tracer = otel.Tracer("gatehouse/invitation")

// Store persists invitations.
type Store interface {
	FindByID(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error)
	FindByCode(ctx context.Context, code string) (*models.Invitation, error)
	List(ctx context.Context, residentID string) ([]*models.Invitation, error)
	// CreateWithinLimit inserts inv unless its resident already holds limit
	// outstanding invitations, returning sentinel.ErrExhausted in that case.
	// A limit of zero or less disables the check.
	CreateWithinLimit(ctx context.Context, inv *models.Invitation, limit int) error
	Execute(ctx context.Context, invitationID id.InvitationID, validate func(*models.Invitation) error, mutate func(*models.Invitation)) (*models.Invitation, error)
	ExpireScheduledBefore(ctx context.Context, cutoff, now time.Time) (int, error)
}

// PolicyProvider supplies the settings-driven invitation policy.
type PolicyProvider interface {
	InvitationPolicy(ctx context.Context) (models.Policy, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages the invitation lifecycle.
type Service struct {
	store          Store
	policy         PolicyProvider
	notifier       notify.Notifier
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *invitationmetrics.Metrics
	location       *time.Location
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

func WithMetrics(m *invitationmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithPolicy(p PolicyProvider) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLocation sets the timezone visit dates and times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.location = loc
		}
	}
}

// New constructs a Service.
func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, location: time.Local}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create issues a new pending invitation with a derived validation code.
func (s *Service) Create(ctx context.Context, req *models.CreateInvitationRequest) (*models.Invitation, error) {
	ctx, span := tracer.Start(ctx, "invitation.Create")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx).In(s.location)
	scheduledAt, err := models.ScheduleAt(req.VisitDate, req.VisitTime, s.location)
	if err != nil {
		return nil, err
	}
	if scheduledAt.Before(now) {
		return nil, dErrors.New(dErrors.CodeValidation, "Cannot create invitation for past dates")
	}

	policy, err := s.loadPolicy(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.enforcePolicy(policy, req, scheduledAt, now); err != nil {
		return nil, err
	}

	invitationID := id.NewInvitationID()
	inv := &models.Invitation{
		ID:               invitationID,
		Code:             models.ValidationCode(invitationID, now.Year()),
		VisitorName:      req.VisitorName,
		VisitorEmail:     req.VisitorEmail,
		VisitorPhone:     req.VisitorPhone,
		VisitDate:        req.VisitDate,
		VisitTime:        req.VisitTime,
		ScheduledAt:      scheduledAt,
		Purpose:          req.Purpose,
		ResidentID:       req.ResidentID,
		ResidentName:     req.ResidentName,
		Status:           models.StatusPending,
		ParkingReserved:  req.ParkingReserved,
		ParkingSpot:      req.ParkingSpot,
		DocumentAttached: req.DocumentAttached,
		DocumentURL:      req.DocumentURL,
		Notes:            req.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateWithinLimit(ctx, inv, policy.MaxOutstandingPerResident); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, "invitation code already issued")
		}
		if errors.Is(err, sentinel.ErrExhausted) {
			return nil, dErrors.New(dErrors.CodeConflict,
				fmt.Sprintf("Maximum of %d outstanding invitations reached", policy.MaxOutstandingPerResident))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create invitation")
	}
	span.SetAttributes(attribute.String("invitation.id", inv.ID.String()))

	s.logAudit(ctx, audit.EventInvitationCreated,
		"subject", inv.ID,
		"resident_id", inv.ResidentID,
		"visit_date", inv.VisitDate,
	)
	if s.metrics != nil {
		s.metrics.IncrementCreated()
	}
	if policy.NotificationsEnabled {
		s.notify(ctx, notify.Notification{
			Kind:         notify.KindInvitationCreated,
			To:           inv.VisitorEmail,
			Subject:      fmt.Sprintf("You are invited by %s", inv.ResidentName),
			Body:         fmt.Sprintf("Visit on %s at %s. Present code %s at the front desk.", inv.VisitDate, inv.VisitTime, inv.Code),
			InvitationID: inv.ID.String(),
			CreatedAt:    now,
		})
	}
	return inv, nil
}

func (s *Service) enforcePolicy(policy models.Policy, req *models.CreateInvitationRequest, scheduledAt, now time.Time) error {
	if req.ParkingReserved && !policy.ParkingReservationEnabled {
		return dErrors.New(dErrors.CodeValidation, "Parking reservations are disabled")
	}
	if policy.ValidityDays > 0 {
		latest := models.StartOfDay(now).AddDate(0, 0, policy.ValidityDays+1)
		if !scheduledAt.Before(latest) {
			return dErrors.New(dErrors.CodeValidation,
				fmt.Sprintf("Invitations can only be created up to %d days in advance", policy.ValidityDays))
		}
	}
	return nil
}

// List returns all invitations in creation order, or only one resident's when
// residentID is set.
func (s *Service) List(ctx context.Context, residentID string) ([]*models.Invitation, error) {
	invitations, err := s.store.List(ctx, residentID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list invitations")
	}
	return invitations, nil
}

func (s *Service) Get(ctx context.Context, invitationID id.InvitationID) (*models.Invitation, error) {
	inv, err := s.store.FindByID(ctx, invitationID)
	if err != nil {
		return nil, wrapInvitationErr(err, "failed to load invitation")
	}
	return inv, nil
}

// Update applies a partial update to the invitation's contact, parking,
// document and notes fields.
func (s *Service) Update(ctx context.Context, invitationID id.InvitationID, req *models.UpdateInvitationRequest) (*models.Invitation, error) {
	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.ParkingReserved != nil && *req.ParkingReserved {
		policy, err := s.loadPolicy(ctx)
		if err != nil {
			return nil, err
		}
		if !policy.ParkingReservationEnabled {
			return nil, dErrors.New(dErrors.CodeValidation, "Parking reservations are disabled")
		}
	}

	now := requestcontext.Now(ctx)
	inv, err := s.store.Execute(ctx, invitationID,
		func(*models.Invitation) error { return nil },
		func(inv *models.Invitation) {
			req.Apply(inv)
			inv.UpdatedAt = now
		},
	)
	if err != nil {
		return nil, wrapInvitationErr(err, "failed to update invitation")
	}
	s.logAudit(ctx, audit.EventInvitationUpdated, "subject", inv.ID)
	return inv, nil
}

// Cancel marks an invitation cancelled regardless of its current status.
func (s *Service) Cancel(ctx context.Context, invitationID id.InvitationID, reason string) (*models.Invitation, error) {
	ctx, span := tracer.Start(ctx, "invitation.Cancel", trace.WithAttributes(
		attribute.String("invitation.id", invitationID.String()),
	))
	defer span.End()

	now := requestcontext.Now(ctx)
	inv, err := s.store.Execute(ctx, invitationID,
		func(*models.Invitation) error { return nil },
		func(inv *models.Invitation) { inv.ApplyCancel(reason, now) },
	)
	if err != nil {
		return nil, wrapInvitationErr(err, "failed to cancel invitation")
	}

	s.logAudit(ctx, audit.EventInvitationCancelled, "subject", inv.ID, "reason", reason)
	if s.notificationsEnabled(ctx) {
		s.notify(ctx, notify.Notification{
			Kind:         notify.KindInvitationCancelled,
			To:           inv.VisitorEmail,
			Subject:      "Your visit has been cancelled",
			Body:         fmt.Sprintf("The visit on %s at %s has been cancelled.", inv.VisitDate, inv.VisitTime),
			InvitationID: inv.ID.String(),
			CreatedAt:    now,
		})
	}
	return inv, nil
}

// Validate answers whether code may be admitted now. It also writes: a valid
// outstanding invitation becomes active and a stale one becomes expired.
func (s *Service) Validate(ctx context.Context, code string) (*models.ValidationResult, error) {
	ctx, span := tracer.Start(ctx, "invitation.Validate")
	defer span.End()
	start := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.ObserveValidate(start)
		}
	}()

	found, err := s.store.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.recordValidation(ctx, "", models.MsgInvalidCode, false)
			return &models.ValidationResult{Message: models.MsgInvalidCode}, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up invitation")
	}

	now := requestcontext.Now(ctx).In(s.location)
	var result models.ValidationResult
	var expired bool
	inv, err := s.store.Execute(ctx, found.ID,
		func(*models.Invitation) error { return nil },
		func(inv *models.Invitation) {
			before := inv.Status
			result = models.Decide(inv, now)
			expired = before != models.StatusExpired && inv.Status == models.StatusExpired
		},
	)
	if err != nil {
		return nil, wrapInvitationErr(err, "failed to validate invitation")
	}
	result.Invitation = inv
	span.SetAttributes(
		attribute.String("invitation.id", inv.ID.String()),
		attribute.Bool("invitation.valid", result.Valid),
	)

	if expired && s.metrics != nil {
		s.metrics.AddExpired(1)
	}
	s.recordValidation(ctx, inv.ID.String(), result.Message, result.Valid)
	return &result, nil
}

// SweepExpired marks every outstanding invitation whose visit day has passed
// as expired and returns how many changed.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "invitation.SweepExpired")
	defer span.End()

	now := requestcontext.Now(ctx).In(s.location)
	n, err := s.store.ExpireScheduledBefore(ctx, models.StartOfDay(now), now)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to expire invitations")
	}
	span.SetAttributes(attribute.Int("invitation.expired", n))
	if n > 0 {
		s.logAudit(ctx, audit.EventInvitationsExpired, "subject", "invitations", "count", n)
		if s.metrics != nil {
			s.metrics.AddExpired(n)
		}
	}
	return n, nil
}

func (s *Service) recordValidation(ctx context.Context, subject, message string, valid bool) {
	outcome := "valid"
	event := audit.EventInvitationValidated
	if !valid {
		outcome = message
		event = audit.EventInvitationRejected
	}
	if s.metrics != nil {
		s.metrics.IncrementValidation(outcome)
	}
	s.logAudit(ctx, event, "subject", subject, "reason", message)
}

func (s *Service) loadPolicy(ctx context.Context) (models.Policy, error) {
	if s.policy == nil {
		return models.DefaultPolicy(), nil
	}
	p, err := s.policy.InvitationPolicy(ctx)
	if err != nil {
		return models.Policy{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return p, nil
}

func (s *Service) notificationsEnabled(ctx context.Context) bool {
	p, err := s.loadPolicy(ctx)
	if err != nil {
		if s.logger != nil {
			s.logger.WarnContext(ctx, "settings unavailable, skipping notification", "error", err)
		}
		return false
	}
	return p.NotificationsEnabled
}

// notify is best effort; a failed delivery never fails the operation.
func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if s.notifier == nil || n.To == "" {
		return
	}
	if err := s.notifier.Notify(ctx, n); err != nil && s.logger != nil {
		s.logger.WarnContext(ctx, "failed to send notification",
			"kind", n.Kind,
			"invitation_id", n.InvitationID,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
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
		Reason:    attrs.ExtractString(attributes, "reason"),
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

func wrapInvitationErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "Invitation not found")
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
