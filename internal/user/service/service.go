package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"gatehouse/internal/audit"
	"gatehouse/internal/user/metrics"
	"gatehouse/internal/user/models"
	"gatehouse/internal/user/secrets"
	"gatehouse/pkg/attrs"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/platform/middleware/metadata"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/requestcontext"
)

var tracer = otel.Tracer("gatehouse/user")

const defaultTokenTTL = 12 * time.Hour

type Store interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context, status models.Status) ([]*models.User, error)
	Execute(ctx context.Context, userID id.UserID, mutate func(*models.User)) (*models.User, error)
	Delete(ctx context.Context, userID id.UserID) error
}

// TokenIssuer mints bearer tokens for signed-in users.
type TokenIssuer interface {
	IssueAccessToken(userID id.UserID, name string, role id.Role, issuedAt time.Time, ttl time.Duration) (string, time.Time, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, base audit.Event) error
}

// Service handles registration, sign-in and account administration.
type Service struct {
	store          Store
	tokens         TokenIssuer
	tokenTTL       time.Duration
	logger         *slog.Logger
	auditPublisher AuditPublisher
	metrics        *metrics.Metrics
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

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokenTTL = ttl
		}
	}
}

func New(store Store, tokens TokenIssuer, opts ...Option) *Service {
	s := &Service{store: store, tokens: tokens, tokenTTL: defaultTokenTTL}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates a pending account that an admin must approve.
func (s *Service) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.Register")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return nil, err
	}
	u := &models.User{
		ID:           id.NewUserID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
		Status:       models.StatusPending,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, u); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.New(dErrors.CodeConflict, models.MsgUserExists)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to register user")
	}
	span.SetAttributes(attribute.String("user.id", u.ID.String()))
	if s.metrics != nil {
		s.metrics.IncrementRegistration()
	}
	s.logAudit(ctx, audit.EventUserRegistered, "subject", u.ID, "role", u.Role)
	return u, nil
}

// Login verifies credentials for an active account and issues a token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResult, error) {
	ctx, span := tracer.Start(ctx, "user.Login")
	defer span.End()

	if req == nil {
		return nil, dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.store.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, s.loginFailed(ctx, "", "unknown email")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if err := secrets.Verify(req.Password, u.PasswordHash); err != nil {
		if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			return nil, s.loginFailed(ctx, u.ID.String(), "bad password")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify credentials")
	}
	if !u.IsActive() {
		s.loginFailed(ctx, u.ID.String(), "account "+string(u.Status))
		return nil, dErrors.New(dErrors.CodeForbidden, "Account is not active")
	}

	now := requestcontext.Now(ctx)
	token, expiresAt, err := s.tokens.IssueAccessToken(u.ID, u.Name, u.Role, now, s.tokenTTL)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	updated, err := s.store.Execute(ctx, u.ID, func(u *models.User) { u.LastLogin = &now })
	if err != nil {
		return nil, wrapUserErr(err, "failed to record login")
	}
	if s.metrics != nil {
		s.metrics.IncrementLogin(true)
	}
	s.logAudit(ctx, audit.EventUserLoggedIn, "subject", u.ID)
	return &models.LoginResult{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        updated,
	}, nil
}

func (s *Service) loginFailed(ctx context.Context, subject, reason string) error {
	if s.metrics != nil {
		s.metrics.IncrementLogin(false)
	}
	s.logAudit(ctx, audit.EventAuthFailed, "subject", subject, "reason", reason)
	return dErrors.New(dErrors.CodeUnauthorized, models.MsgInvalidCredentials)
}

// Me returns the signed-in user.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsNil() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.Get(ctx, userID)
}

// CheckActive reports whether a previously issued token may still act for
// userID. Removed accounts are unauthorized; non-active ones are forbidden.
func (s *Service) CheckActive(ctx context.Context, userID id.UserID) error {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeUnauthorized, models.MsgUserNotFound)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	if !u.IsActive() {
		return dErrors.New(dErrors.CodeForbidden, "Account is not active")
	}
	return nil
}

func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	u, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err, "failed to load user")
	}
	return u, nil
}

// List returns users, optionally filtered by status.
func (s *Service) List(ctx context.Context, status models.Status) ([]*models.User, error) {
	if status != "" && !status.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "status must be active, pending, or suspended")
	}
	users, err := s.store.List(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list users")
	}
	return users, nil
}

func (s *Service) ListPending(ctx context.Context) ([]*models.User, error) {
	return s.List(ctx, models.StatusPending)
}

// Approve activates an account whatever its current status.
func (s *Service) Approve(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.setStatus(ctx, userID, models.StatusActive, audit.EventUserApproved)
}

func (s *Service) Suspend(ctx context.Context, userID id.UserID) (*models.User, error) {
	return s.setStatus(ctx, userID, models.StatusSuspended, audit.EventUserSuspended)
}

// Reject discards a registration outright.
func (s *Service) Reject(ctx context.Context, userID id.UserID) error {
	return s.remove(ctx, userID, audit.EventUserRejected)
}

func (s *Service) Delete(ctx context.Context, userID id.UserID) error {
	return s.remove(ctx, userID, audit.EventUserDeleted)
}

func (s *Service) setStatus(ctx context.Context, userID id.UserID, status models.Status, event audit.AuditEvent) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "user.SetStatus", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
		attribute.String("user.status", string(status)),
	))
	defer span.End()

	u, err := s.store.Execute(ctx, userID, func(u *models.User) { u.Status = status })
	if err != nil {
		return nil, wrapUserErr(err, "failed to update user")
	}
	s.logAudit(ctx, event, "subject", u.ID)
	return u, nil
}

func (s *Service) remove(ctx context.Context, userID id.UserID, event audit.AuditEvent) error {
	ctx, span := tracer.Start(ctx, "user.Remove", trace.WithAttributes(
		attribute.String("user.id", userID.String()),
	))
	defer span.End()

	if err := s.store.Delete(ctx, userID); err != nil {
		return wrapUserErr(err, "failed to delete user")
	}
	s.logAudit(ctx, event, "subject", userID)
	return nil
}

// EnsureBootstrapAdmin creates an active admin unless the email is taken.
func (s *Service) EnsureBootstrapAdmin(ctx context.Context, name, email, password string) error {
	req := &models.RegisterRequest{Name: name, Email: email, Password: password, Role: id.RoleAdmin}
	req.Normalize()
	if err := req.Validate(); err != nil {
		return err
	}
	if _, err := s.store.FindByEmail(ctx, req.Email); err == nil {
		return nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up bootstrap admin")
	}
	hash, err := secrets.Hash(req.Password)
	if err != nil {
		return err
	}
	u := &models.User{
		ID:           id.NewUserID(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         id.RoleAdmin,
		Status:       models.StatusActive,
		CreatedAt:    requestcontext.Now(ctx),
	}
	if err := s.store.Create(ctx, u); err != nil && !errors.Is(err, sentinel.ErrAlreadyUsed) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to create bootstrap admin")
	}
	if s.logger != nil {
		s.logger.InfoContext(ctx, "bootstrap admin ensured", "email", req.Email)
	}
	return nil
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

func wrapUserErr(err error, msg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, models.MsgUserNotFound)
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, msg)
}
