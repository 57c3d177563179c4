package httpapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/suite"

	"gatehouse/internal/admin"
	adminadapters "gatehouse/internal/admin/adapters"
	adminmodels "gatehouse/internal/admin/models"
	adminservice "gatehouse/internal/admin/service"
	parkingstore "gatehouse/internal/admin/store/parking"
	settingsstore "gatehouse/internal/admin/store/settings"
	"gatehouse/internal/audit"
	auditmemory "gatehouse/internal/audit/store/memory"
	"gatehouse/internal/invitation"
	invitationadapters "gatehouse/internal/invitation/adapters"
	invitationmodels "gatehouse/internal/invitation/models"
	invitationservice "gatehouse/internal/invitation/service"
	invitationstore "gatehouse/internal/invitation/store/invitation"
	jwttoken "gatehouse/internal/jwt_token"
	platformmetrics "gatehouse/internal/platform/metrics"
	"gatehouse/internal/user"
	usermodels "gatehouse/internal/user/models"
	userservice "gatehouse/internal/user/service"
	userstore "gatehouse/internal/user/store/user"
	"gatehouse/internal/visitor"
	visitoradapters "gatehouse/internal/visitor/adapters"
	visitormetrics "gatehouse/internal/visitor/metrics"
	visitormodels "gatehouse/internal/visitor/models"
	visitorservice "gatehouse/internal/visitor/service"
	traystore "gatehouse/internal/visitor/store/tray"
	visitorstore "gatehouse/internal/visitor/store/visitor"
	"gatehouse/pkg/testutil"
)

const (
	adminEmail    = "admin@example.com"
	adminPassword = "admin-password"
)

type RouterSuite struct {
	suite.Suite
	router http.Handler
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func (s *RouterSuite) SetupTest() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := prometheus.NewRegistry()
	jwt := jwttoken.NewJWTService("router-test-key", "gatehouse", "gatehouse-api")
	auditor := audit.NewPublisher(auditmemory.NewInMemoryStore())

	adminSvc := adminservice.New(parkingstore.NewInMemory(), settingsstore.NewInMemory(adminmodels.DefaultSettings()),
		adminservice.WithLogger(logger), adminservice.WithAuditPublisher(auditor))
	userSvc := userservice.New(userstore.NewInMemory(), jwt,
		userservice.WithLogger(logger), userservice.WithAuditPublisher(auditor))
	s.Require().NoError(userSvc.EnsureBootstrapAdmin(context.Background(), "Admin", adminEmail, adminPassword))
	invitationSvc := invitationservice.New(invitationstore.NewInMemory(),
		invitationservice.WithLogger(logger),
		invitationservice.WithAuditPublisher(auditor),
		invitationservice.WithPolicy(invitationadapters.NewSettingsAdapter(adminSvc)),
	)
	visitorSvc := visitorservice.New(visitorstore.NewInMemory(), traystore.NewInMemory(3),
		visitorservice.WithLogger(logger),
		visitorservice.WithAuditPublisher(auditor),
		visitorservice.WithMetrics(visitormetrics.New(reg)),
		visitorservice.WithPolicy(visitoradapters.NewSettingsAdapter(adminSvc)),
	)

	userHandler := user.NewHandler(userSvc, logger)
	s.router = NewRouter(Deps{
		Logger:    logger,
		Validator: jwttoken.NewJWTServiceAdapter(jwt),
		Accounts:  userSvc,
		Latency:   platformmetrics.New(reg),
		Gatherer:  reg,
		Public:    []PublicRegistrar{userHandler},
		Modules: []RouteRegistrar{
			userHandler,
			invitation.NewHandler(invitationSvc, logger),
			visitor.NewHandler(visitorSvc, logger),
			admin.NewHandler(adminSvc, adminadapters.NewUserAdapter(userSvc), auditor, logger),
		},
		Health: []HealthCheck{{Name: "memory", Check: func(context.Context) error { return nil }}},
	})
}

func (s *RouterSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = testutil.NewRequestWithBody(s.T(), method, path, "")
	} else {
		req = testutil.NewJSONRequest(s.T(), method, path, body)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.DoRequest(s.router, req)
}

func (s *RouterSuite) login(email, password string) string {
	rr := s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": password})
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	return testutil.UnmarshalResponse[usermodels.LoginResult](s.T(), rr).AccessToken
}

func (s *RouterSuite) onboard(adminToken, name, email string, role string) string {
	rr := s.do(http.MethodPost, "/auth/register", "", map[string]any{
		"name": name, "email": email, "password": "password123", "role": role,
	})
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	u := testutil.UnmarshalResponse[usermodels.User](s.T(), rr)

	rr = s.do(http.MethodPost, "/auth/login", "", map[string]any{"email": email, "password": "password123"})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")

	rr = s.do(http.MethodPost, "/admin/users/"+u.ID.String()+"/approve", adminToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	return s.login(email, "password123")
}

func (s *RouterSuite) TestHealthAndMetrics() {
	rr := s.do(http.MethodGet, "/healthz", "", nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"status":"ok","checks":{"memory":"ok"}}`, rr.Body.String())

	rr = s.do(http.MethodGet, "/metrics", "", nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Contains(rr.Body.String(), "gatehouse_visitor_check_ins_total")
}

func (s *RouterSuite) TestProtectedRoutesNeedToken() {
	rr := s.do(http.MethodGet, "/visitors", "", nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")

	rr = s.do(http.MethodGet, "/visitors", "not-a-token", nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *RouterSuite) TestFrontDeskFlow() {
	adminToken := s.login(adminEmail, adminPassword)
	residentToken := s.onboard(adminToken, "Jane Resident", "jane@example.com", "resident")
	deskToken := s.onboard(adminToken, "Rita Reception", "rita@example.com", "receptionist")

	tomorrow := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	rr := s.do(http.MethodPost, "/invitations", residentToken, map[string]any{
		"visitor_name": "John Smith", "visit_date": tomorrow, "visit_time": "10:00", "purpose": "Dinner",
	})
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	inv := testutil.UnmarshalResponse[invitationmodels.Invitation](s.T(), rr)
	s.Equal("Jane Resident", inv.ResidentName)

	rr = s.do(http.MethodPost, "/invitations/validate", residentToken, map[string]any{"code": inv.Code})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")

	rr = s.do(http.MethodPost, "/invitations/validate", deskToken, map[string]any{"code": inv.Code})
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result := testutil.UnmarshalResponse[invitationmodels.ValidationResult](s.T(), rr)
	s.True(result.Valid)

	rr = s.do(http.MethodPost, "/visitors/check-in", deskToken, map[string]any{
		"name": "John Smith", "host_name": "Jane Resident", "purpose": "Dinner", "invitation_id": inv.ID.String(),
	})
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	v := testutil.UnmarshalResponse[visitormodels.Visitor](s.T(), rr)
	s.Equal("T-001", v.TrayNumber)
	s.True(v.HasInvitation)

	rr = s.do(http.MethodGet, "/visitors", residentToken, nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")

	rr = s.do(http.MethodPost, "/visitors/"+v.ID.String()+"/check-out", deskToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = s.do(http.MethodPost, "/visitors/"+v.ID.String()+"/check-out", deskToken, nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state")

	rr = s.do(http.MethodGet, "/trays/stats", deskToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	stats := testutil.UnmarshalResponse[visitormodels.TrayStats](s.T(), rr)
	s.Equal(3, stats.Available)

	rr = s.do(http.MethodGet, "/admin/audit?limit=1", adminToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	events := testutil.UnmarshalResponse[adminmodels.AuditListResponse](s.T(), rr)
	s.Require().Len(events.Events, 1)
	s.Equal(audit.EventVisitorCheckedOut.String(), events.Events[0].Action)
}

func (s *RouterSuite) TestSuspendedAndDeletedAccountsLoseAccess() {
	adminToken := s.login(adminEmail, adminPassword)
	deskToken := s.onboard(adminToken, "Rita Reception", "rita@example.com", "receptionist")

	rr := s.do(http.MethodGet, "/auth/me", deskToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	me := testutil.UnmarshalResponse[usermodels.User](s.T(), rr)

	rr = s.do(http.MethodPost, "/admin/users/"+me.ID.String()+"/suspend", adminToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = s.do(http.MethodPost, "/visitors/check-in", deskToken, map[string]any{
		"name": "John Smith", "host_name": "Jane Resident", "purpose": "Dinner",
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")

	rr = s.do(http.MethodGet, "/trays/stats", adminToken, nil)
	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.Equal(3, testutil.UnmarshalResponse[visitormodels.TrayStats](s.T(), rr).Available)

	rr = s.do(http.MethodDelete, "/admin/users/"+me.ID.String(), adminToken, nil)
	s.Equal(http.StatusNoContent, rr.Code)

	rr = s.do(http.MethodGet, "/visitors", deskToken, nil)
	testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
}

func (s *RouterSuite) TestSettingsDriveCheckInPolicy() {
	adminToken := s.login(adminEmail, adminPassword)

	rr := s.do(http.MethodPatch, "/admin/settings", adminToken, map[string]any{"allow_walk_in_visitors": false})
	testutil.AssertStatus(s.T(), rr, http.StatusOK)

	rr = s.do(http.MethodPost, "/visitors/check-in", adminToken, map[string]any{
		"name": "Walk In", "host_name": "Someone", "purpose": "Delivery",
	})
	testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "validation_error")
}

func (s *RouterSuite) TestHealthReportsFailingDependency() {
	h := NewRouter(Deps{
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Validator: jwttoken.NewJWTServiceAdapter(jwttoken.NewJWTService("k", "i", "a")),
		Health:    []HealthCheck{{Name: "postgres", Check: func(context.Context) error { return errors.New("down") }}},
	})
	rr := testutil.DoRequest(h, testutil.NewRequestWithBody(s.T(), http.MethodGet, "/healthz", ""))
	s.Equal(http.StatusServiceUnavailable, rr.Code)
	s.Contains(rr.Body.String(), "degraded")
}
