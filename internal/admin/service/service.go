package service

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gatehouse/internal/admin/models"
	"gatehouse/internal/audit"
	"gatehouse/pkg/attrs"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/middleware/metadata"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

var tracer = otel.Tracer("gatehouse/admin")

// ParkingStore persists parking spaces.
type ParkingStore interface {
	Create(ctx context.Context, sp *models.ParkingSpace) error
	List(ctx context.Context) ([]*models.ParkingSpace, error)
	Execute(ctx context.Context, spaceID id.SpaceID, validate func(*models.ParkingSpace) error, mutate func(*models.ParkingSpace)) (*models.ParkingSpace, error)
	Delete(ctx context.Context, spaceID id.SpaceID) error
}

// SettingsStore persists the single settings document.
type SettingsStore interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, mutate func(*models.Settings)) (*models.Settings, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service manages parking spaces and system settings.
type Service struct {
	parking        ParkingStore
	settings       SettingsStore
	logger         *slog.Logger
	auditPublisher AuditPublisher
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

func New(parking ParkingStore, settings SettingsStore, opts ...Option) *Service {
	s := &Service{parking: parking, settings: settings}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) AddSpace(ctx context.Context, req *models.AddSpaceRequest) (*models.ParkingSpace, error) {
	ctx, span := tracer.Start(ctx, "admin.AddSpace")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	sp := &models.ParkingSpace{
		ID:         id.NewSpaceID(),
		Number:     req.Number,
		Type:       req.Type,
		IsOccupied: req.IsOccupied,
		OccupiedBy: req.OccupiedBy,
		Location:   req.Location,
		Notes:      req.Notes,
	}
	if sp.IsOccupied {
		now := requestcontext.Now(ctx)
		sp.OccupiedAt = &now
	}
	if err := s.parking.Create(ctx, sp); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to add parking space")
	}
	span.SetAttributes(attribute.String("parking.space_id", sp.ID.String()))
	s.logAudit(ctx, audit.EventParkingSpaceAdded, "subject", sp.ID, "number", sp.Number)
	return sp, nil
}

// UpdateSpace applies a partial update. Claiming a space already held by a
// different occupant is a conflict, so a space has at most one holder.
func (s *Service) UpdateSpace(ctx context.Context, spaceID id.SpaceID, req *models.UpdateSpaceRequest) (*models.ParkingSpace, error) {
	ctx, span := tracer.Start(ctx, "admin.UpdateSpace", trace.WithAttributes(
		attribute.String("parking.space_id", spaceID.String()),
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
	sp, err := s.parking.Execute(ctx, spaceID,
		func(sp *models.ParkingSpace) error {
			if req.Occupies() && sp.IsOccupied && req.OccupiedBy != nil && *req.OccupiedBy != sp.OccupiedBy {
				return dErrors.New(dErrors.CodeConflict, "Parking space already occupied")
			}
			return nil
		},
		func(sp *models.ParkingSpace) { req.Apply(sp, now) },
	)
	if err != nil {
		return nil, wrapSpaceErr(err, "failed to update parking space")
	}
	s.logAudit(ctx, audit.EventParkingSpaceUpdated, "subject", sp.ID, "number", sp.Number)
	return sp, nil
}

func (s *Service) DeleteSpace(ctx context.Context, spaceID id.SpaceID) error {
	ctx, span := tracer.Start(ctx, "admin.DeleteSpace", trace.WithAttributes(
		attribute.String("parking.space_id", spaceID.String()),
	))
	defer span.End()

	if err := s.parking.Delete(ctx, spaceID); err != nil {
		return wrapSpaceErr(err, "failed to delete parking space")
	}
	s.logAudit(ctx, audit.EventParkingSpaceDeleted, "subject", spaceID)
	return nil
}

func (s *Service) ListSpaces(ctx context.Context) ([]*models.ParkingSpace, error) {
	spaces, err := s.parking.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list parking spaces")
	}
	return spaces, nil
}

func (s *Service) ParkingStats(ctx context.Context) (*models.ParkingStats, error) {
	spaces, err := s.ListSpaces(ctx)
	if err != nil {
		return nil, err
	}
	stats := models.ComputeParkingStats(spaces)
	return &stats, nil
}

func (s *Service) Settings(ctx context.Context) (*models.Settings, error) {
	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return settings, nil
}

func (s *Service) UpdateSettings(ctx context.Context, req *models.UpdateSettingsRequest) (*models.Settings, error) {
	ctx, span := tracer.Start(ctx, "admin.UpdateSettings")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	settings, err := s.settings.Update(ctx, func(st *models.Settings) {
		req.Apply(st)
		st.UpdatedAt = now
	})
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update settings")
	}
	s.logAudit(ctx, audit.EventSettingsUpdated, "subject", "settings")
	return settings, nil
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
		Resource:  attrs.ExtractString(attributes, "number"),
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

func wrapSpaceErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, models.MsgSpaceNotFound)
	}
	if _, ok := dErrors.As(err); ok {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
