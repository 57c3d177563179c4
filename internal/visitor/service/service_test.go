package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/suite"

	"gatehouse/internal/audit"
	auditmemory "gatehouse/internal/audit/store/memory"
	visitormetrics "gatehouse/internal/visitor/metrics"
	"gatehouse/internal/visitor/models"
	traystore "gatehouse/internal/visitor/store/tray"
	visitorstore "gatehouse/internal/visitor/store/visitor"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

type staticPolicy struct {
	policy models.Policy
}

func (p staticPolicy) CheckInPolicy(context.Context) (models.Policy, error) {
	return p.policy, nil
}

// failingStore rejects every Create so the tray rollback path can be observed.
type failingStore struct {
	*visitorstore.InMemory
}

func (failingStore) Create(context.Context, *models.Visitor) error {
	return errors.New("disk full")
}

type VisitorServiceSuite struct {
	suite.Suite
	store   *visitorstore.InMemory
	trays   *traystore.InMemory
	audits  *auditmemory.InMemoryStore
	metrics *visitormetrics.Metrics
	policy  models.Policy
	service *Service
	ctx     context.Context
}

func TestVisitorServiceSuite(t *testing.T) {
	suite.Run(t, new(VisitorServiceSuite))
}

func (s *VisitorServiceSuite) SetupTest() {
	s.store = visitorstore.NewInMemory()
	s.trays = traystore.NewInMemory(50)
	s.audits = auditmemory.NewInMemoryStore()
	s.metrics = visitormetrics.New(prometheus.NewRegistry())
	s.policy = models.DefaultPolicy()
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC))
	s.rebuild()
}

func (s *VisitorServiceSuite) rebuild() {
	s.service = New(s.store, s.trays,
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.audits)),
		WithMetrics(s.metrics),
		WithPolicy(staticPolicy{policy: s.policy}),
	)
}

func (s *VisitorServiceSuite) checkIn(name string) *models.Visitor {
	v, err := s.service.CheckIn(s.ctx, &models.CheckInRequest{Name: name, HostName: "Y", Purpose: "business"})
	s.Require().NoError(err)
	return v
}

func (s *VisitorServiceSuite) TestCheckIn() {
	s.Run("first visitor gets T-001", func() {
		v := s.checkIn("X")
		s.Equal(models.StatusCheckedIn, v.Status)
		s.Equal("T-001", v.TrayNumber)
		s.Equal(1, v.GroupSize)
		s.False(v.CheckInTime.IsZero())

		trays, err := s.service.ListTrays(s.ctx)
		s.Require().NoError(err)
		s.False(trays[0].Available)
		s.Equal("X", trays[0].AssignedTo)
		s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.TraysAssigned))
	})

	s.Run("second visitor gets the next tray", func() {
		s.Equal("T-002", s.checkIn("Z").TrayNumber)
	})
}

func (s *VisitorServiceSuite) TestCheckInNoTrays() {
	s.trays = traystore.NewInMemory(2)
	s.rebuild()
	s.checkIn("A")
	s.checkIn("B")
	before, err := s.service.ListTrays(s.ctx)
	s.Require().NoError(err)

	_, err = s.service.CheckIn(s.ctx, &models.CheckInRequest{Name: "C", HostName: "Y", Purpose: "business"})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeResourceExhausted))
	s.Equal(models.MsgNoTrays, err.Error())

	after, err := s.service.ListTrays(s.ctx)
	s.Require().NoError(err)
	s.Equal(before, after, "no tray may change when the pool is exhausted")
	s.Equal(float64(1), promtestutil.ToFloat64(s.metrics.TrayPoolExhausts))
}

func (s *VisitorServiceSuite) TestCheckInPolicy() {
	s.Run("walk-ins refused when disabled", func() {
		s.policy.AllowWalkIns = false
		s.rebuild()
		_, err := s.service.CheckIn(s.ctx, &models.CheckInRequest{Name: "X", HostName: "Y", Purpose: "business"})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		v, err := s.service.CheckIn(s.ctx, &models.CheckInRequest{
			Name: "X", HostName: "Y", Purpose: "business", InvitationID: "inv-1",
		})
		s.Require().NoError(err)
		s.True(v.HasInvitation)
	})

	s.Run("oversized group refused before a tray is taken", func() {
		s.policy = models.DefaultPolicy()
		s.policy.MaxGroupSize = 3
		s.rebuild()
		before, err := s.service.TrayStats(s.ctx)
		s.Require().NoError(err)

		_, err = s.service.CheckIn(s.ctx, &models.CheckInRequest{Name: "X", HostName: "Y", Purpose: "business", GroupSize: 4})
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))

		after, err := s.service.TrayStats(s.ctx)
		s.Require().NoError(err)
		s.Equal(before, after)
	})
}

func (s *VisitorServiceSuite) TestCheckInReleasesTrayWhenCreateFails() {
	s.service = New(failingStore{s.store}, s.trays)
	_, err := s.service.CheckIn(s.ctx, &models.CheckInRequest{Name: "X", HostName: "Y", Purpose: "business"})
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))

	stats, err := s.service.TrayStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(0, stats.Assigned)
}

func (s *VisitorServiceSuite) TestCheckOut() {
	v := s.checkIn("X")

	s.Run("releases the tray", func() {
		out, err := s.service.CheckOut(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusCheckedOut, out.Status)
		s.NotNil(out.CheckOutTime)

		available, err := s.service.AvailableTrays(s.ctx)
		s.Require().NoError(err)
		s.Len(available, 50)
	})

	s.Run("second checkout is a state conflict with no mutation", func() {
		before, err := s.service.Get(s.ctx, v.ID)
		s.Require().NoError(err)

		_, err = s.service.CheckOut(s.ctx, v.ID)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
		s.Equal(models.MsgAlreadyCheckedOut, err.Error())

		after, err := s.service.Get(s.ctx, v.ID)
		s.Require().NoError(err)
		s.Equal(before, after)
	})

	s.Run("unknown visitor", func() {
		_, err := s.service.CheckOut(s.ctx, id.NewVisitorID())
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
		s.Equal(models.MsgVisitorNotFound, err.Error())
	})
}

func (s *VisitorServiceSuite) TestBulkCheckOut() {
	a := s.checkIn("A")
	b := s.checkIn("B")
	_, err := s.service.CheckOut(s.ctx, b.ID)
	s.Require().NoError(err)

	result := s.service.BulkCheckOut(s.ctx, []string{a.ID.String(), b.ID.String(), "garbage"})
	s.Require().Len(result.CheckedOut, 1)
	s.Equal(a.ID, result.CheckedOut[0].ID)
	s.Require().Len(result.Failures, 2)
	s.Equal(models.BulkFailure{VisitorID: b.ID.String(), Reason: models.MsgAlreadyCheckedOut}, result.Failures[0])
	s.Equal(models.BulkFailure{VisitorID: "garbage", Reason: models.MsgVisitorNotFound}, result.Failures[1])

	stats, err := s.service.TrayStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.TrayStats{Total: 50, Available: 50, Assigned: 0}, *stats)
}

func (s *VisitorServiceSuite) TestUpdate() {
	v := s.checkIn("X")
	notes := "VIP visitor"
	verified := true

	updated, err := s.service.Update(s.ctx, v.ID, &models.UpdateVisitorRequest{Notes: &notes, DocumentVerified: &verified})
	s.Require().NoError(err)
	s.Equal("VIP visitor", updated.Notes)
	s.True(updated.DocumentVerified)
	s.Equal("T-001", updated.TrayNumber)

	_, err = s.service.Update(s.ctx, id.NewVisitorID(), &models.UpdateVisitorRequest{Notes: &notes})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *VisitorServiceSuite) TestListFilters() {
	a := s.checkIn("A")
	s.checkIn("B")
	_, err := s.service.CheckOut(s.ctx, a.ID)
	s.Require().NoError(err)

	in, err := s.service.List(s.ctx, models.StatusCheckedIn)
	s.Require().NoError(err)
	s.Len(in, 1)

	_, err = s.service.List(s.ctx, "gone")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *VisitorServiceSuite) TestAuditTrail() {
	v := s.checkIn("X")
	_, err := s.service.CheckOut(s.ctx, v.ID)
	s.Require().NoError(err)

	events, err := s.audits.ListRecent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.EventVisitorCheckedOut.String(), events[0].Action)
	s.Equal(audit.EventVisitorCheckedIn.String(), events[1].Action)
	s.Equal(v.ID.String(), events[1].Subject)
	s.Equal(v.TrayNumber, events[1].Resource)
	s.Empty(events[1].Reason)
}
