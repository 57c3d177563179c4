package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
	"gatehouse/pkg/testutil"
)

type stubValidator struct {
	claims *JWTClaims
	err    error
}

func (s stubValidator) ValidateToken(string) (*JWTClaims, error) {
	return s.claims, s.err
}

type stubChecker struct {
	err  error
	seen id.UserID
}

func (c *stubChecker) CheckActive(_ context.Context, userID id.UserID) error {
	c.seen = userID
	return c.err
}

type AuthMiddlewareSuite struct {
	suite.Suite
	logger *slog.Logger
}

func TestAuthMiddlewareSuite(t *testing.T) {
	suite.Run(t, new(AuthMiddlewareSuite))
}

func (s *AuthMiddlewareSuite) SetupTest() {
	s.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (s *AuthMiddlewareSuite) TestRequireAuth() {
	userID := uuid.New()
	var gotRole id.Role
	var gotUser id.UserID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotRole = requestcontext.Role(r.Context())
		gotUser = requestcontext.UserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	s.Run("missing header returns 401", func() {
		h := RequireAuth(stubValidator{}, s.logger)(next)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("invalid token returns 401", func() {
		h := RequireAuth(stubValidator{err: errors.New("expired")}, s.logger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer nope")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
		s.Contains(rec.Body.String(), "Invalid or expired token")
	})

	s.Run("unknown role returns 401", func() {
		h := RequireAuth(stubValidator{claims: &JWTClaims{UserID: userID.String(), Role: "janitor"}}, s.logger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("valid token sets principal", func() {
		h := RequireAuth(stubValidator{claims: &JWTClaims{UserID: userID.String(), Name: "Ana", Role: "receptionist"}}, s.logger)(next)
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer ok")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal(id.RoleReceptionist, gotRole)
		s.Equal(id.UserID(userID), gotUser)
	})
}

func (s *AuthMiddlewareSuite) TestRequireRole() {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	h := RequireRole(s.logger, id.RoleAdmin)(next)

	s.Run("no principal returns 401", func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("wrong role returns 403", func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.AsRole(httptest.NewRequest(http.MethodGet, "/", nil), id.RoleResident))
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("allowed role passes", func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, testutil.AsRole(httptest.NewRequest(http.MethodGet, "/", nil), id.RoleAdmin))
		assert.Equal(s.T(), http.StatusNoContent, rec.Code)
	})
}

func (s *AuthMiddlewareSuite) TestRequireActive() {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	userID := id.NewUserID()
	serve := func(checker *stubChecker) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(requestcontext.WithPrincipal(req.Context(), userID, "Ana", id.RoleReceptionist))
		rec := httptest.NewRecorder()
		RequireActive(checker, s.logger)(next).ServeHTTP(rec, req)
		return rec
	}

	s.Run("active account passes", func() {
		checker := &stubChecker{}
		rec := serve(checker)
		s.Equal(http.StatusNoContent, rec.Code)
		s.Equal(userID, checker.seen)
	})

	s.Run("suspended account returns 403", func() {
		rec := serve(&stubChecker{err: dErrors.New(dErrors.CodeForbidden, "Account is not active")})
		s.Equal(http.StatusForbidden, rec.Code)
		s.Contains(rec.Body.String(), "Account is not active")
	})

	s.Run("removed account returns 401", func() {
		rec := serve(&stubChecker{err: dErrors.New(dErrors.CodeUnauthorized, "User not found")})
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("lookup failure returns 500", func() {
		rec := serve(&stubChecker{err: errors.New("db down")})
		s.Equal(http.StatusInternalServerError, rec.Code)
		s.NotContains(rec.Body.String(), "db down")
	})

	s.Run("no principal returns 401", func() {
		rec := httptest.NewRecorder()
		RequireActive(&stubChecker{}, s.logger)(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})
}
