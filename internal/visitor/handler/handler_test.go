package handler

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

import (
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"gatehouse/internal/visitor/handler/mocks"
	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/testutil"
)

type VisitorHandlerSuite struct {
	suite.Suite
	service *mocks.MockService
	router  chi.Router
}

func TestVisitorHandlerSuite(t *testing.T) {
	suite.Run(t, new(VisitorHandlerSuite))
}

func (s *VisitorHandlerSuite) SetupTest() {
	ctrl := gomock.NewController(s.T())
	s.service = mocks.NewMockService(ctrl)
	s.router = chi.NewRouter()
	New(s.service, slog.New(slog.NewTextHandler(io.Discard, nil))).Register(s.router)
}

func (s *VisitorHandlerSuite) desk(req *http.Request) *http.Request {
	return testutil.AsRole(req, id.RoleReceptionist)
}

func (s *VisitorHandlerSuite) TestCheckIn() {
	s.Run("created with tray", func() {
		visitor := &models.Visitor{
			ID:          id.NewVisitorID(),
			Name:        "X",
			HostName:    "Y",
			Purpose:     "business",
			Status:      models.StatusCheckedIn,
			TrayNumber:  "T-001",
			CheckInTime: time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
		}
		s.service.EXPECT().CheckIn(gomock.Any(), &models.CheckInRequest{Name: "X", HostName: "Y", Purpose: "business"}).
			Return(visitor, nil)

		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/check-in",
			map[string]any{"name": "X", "host_name": "Y", "purpose": "business"}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		got := testutil.UnmarshalResponse[models.Visitor](s.T(), rr)
		s.Equal("T-001", got.TrayNumber)
		s.Equal(models.StatusCheckedIn, got.Status)
	})

	s.Run("no trays is a conflict", func() {
		s.service.EXPECT().CheckIn(gomock.Any(), gomock.Any()).
			Return(nil, dErrors.New(dErrors.CodeResourceExhausted, models.MsgNoTrays))

		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/check-in",
			map[string]any{"name": "X", "host_name": "Y", "purpose": "business"}))
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertErrorResponse(s.T(), rr, http.StatusConflict, "resource_exhausted", models.MsgNoTrays)
	})

	s.Run("residents are refused", func() {
		req := testutil.AsRole(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/check-in",
			map[string]any{"name": "X"}), id.RoleResident)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, "forbidden")
	})

	s.Run("unauthenticated is refused", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/check-in", map[string]any{"name": "X"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusUnauthorized, "unauthorized")
	})
}

func (s *VisitorHandlerSuite) TestCheckOut() {
	visitorID := id.NewVisitorID()

	s.Run("already checked out", func() {
		s.service.EXPECT().CheckOut(gomock.Any(), visitorID).
			Return(nil, dErrors.New(dErrors.CodeInvalidState, models.MsgAlreadyCheckedOut))

		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/"+visitorID.String()+"/check-out", nil))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusConflict, "invalid_state")
	})

	s.Run("malformed id never reaches the service", func() {
		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/nope/check-out", nil))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "invalid_input")
	})
}

func (s *VisitorHandlerSuite) TestBulkCheckOut() {
	a, b := id.NewVisitorID(), id.NewVisitorID()
	s.service.EXPECT().BulkCheckOut(gomock.Any(), []string{a.String(), b.String()}).
		Return(&models.BulkCheckOutResult{
			CheckedOut: []*models.Visitor{{ID: a, Status: models.StatusCheckedOut}},
			Failures:   []models.BulkFailure{{VisitorID: b.String(), Reason: models.MsgAlreadyCheckedOut}},
		})

	req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/bulk-check-out",
		map[string]any{"visitor_ids": []string{a.String(), b.String()}}))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result := testutil.UnmarshalResponse[models.BulkCheckOutResult](s.T(), rr)
	s.Require().Len(result.CheckedOut, 1)
	s.Equal(a, result.CheckedOut[0].ID)
	s.Require().Len(result.Failures, 1)
	s.Equal(b.String(), result.Failures[0].VisitorID)
}

func (s *VisitorHandlerSuite) TestBulkCheckOutEmptyList() {
	s.service.EXPECT().BulkCheckOut(gomock.Any(), []string{}).Return(&models.BulkCheckOutResult{
		CheckedOut: []*models.Visitor{},
		Failures:   []models.BulkFailure{},
	})

	req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/bulk-check-out",
		map[string]any{"visitor_ids": []string{}}))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"checked_out":[],"failures":[]}`, rr.Body.String())
}

func (s *VisitorHandlerSuite) TestBulkCheckOutKeepsRepeats() {
	a := id.NewVisitorID()
	s.service.EXPECT().BulkCheckOut(gomock.Any(), []string{a.String(), a.String()}).
		Return(&models.BulkCheckOutResult{
			CheckedOut: []*models.Visitor{{ID: a, Status: models.StatusCheckedOut}},
			Failures:   []models.BulkFailure{{VisitorID: a.String(), Reason: models.MsgAlreadyCheckedOut}},
		})

	req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodPost, "/visitors/bulk-check-out",
		map[string]any{"visitor_ids": []string{" " + a.String(), a.String()}}))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	result := testutil.UnmarshalResponse[models.BulkCheckOutResult](s.T(), rr)
	s.Len(result.CheckedOut, 1)
	s.Require().Len(result.Failures, 1)
	s.Equal(models.MsgAlreadyCheckedOut, result.Failures[0].Reason)
}

func (s *VisitorHandlerSuite) TestList() {
	s.service.EXPECT().List(gomock.Any(), models.StatusCheckedIn).Return(nil, nil)

	req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodGet, "/visitors?status=checked-in", nil))
	rr := testutil.DoRequest(s.router, req)

	testutil.AssertStatus(s.T(), rr, http.StatusOK)
	s.JSONEq(`{"visitors":[]}`, rr.Body.String())
}

func (s *VisitorHandlerSuite) TestTrays() {
	s.Run("available only", func() {
		s.service.EXPECT().AvailableTrays(gomock.Any()).Return([]*models.Tray{{Number: "T-002", Available: true}}, nil)

		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodGet, "/trays?available=true", nil))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{"trays":[{"number":"T-002","is_available":true}]}`, rr.Body.String())
	})

	s.Run("bad filter", func() {
		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodGet, "/trays?available=maybe", nil))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, "bad_request")
	})

	s.Run("stats", func() {
		s.service.EXPECT().TrayStats(gomock.Any()).Return(&models.TrayStats{Total: 50, Available: 48, Assigned: 2}, nil)

		req := s.desk(testutil.NewJSONRequest(s.T(), http.MethodGet, "/trays/stats", nil))
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		s.JSONEq(`{"total":50,"available":48,"assigned":2}`, rr.Body.String())
	})
}
