//go:build integration

package invitation_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/internal/invitation/models"
	"gatehouse/internal/invitation/store/invitation"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
	"gatehouse/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *invitation.PostgresStore
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = invitation.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.Truncate(s.ctx, "invitations"))
}

func newTestInvitation(residentID string, scheduled time.Time) *models.Invitation {
	now := time.Now().UTC().Truncate(time.Microsecond)
	invID := id.NewInvitationID()
	return &models.Invitation{
		ID:          invID,
		Code:        models.ValidationCode(invID, now.Year()),
		VisitorName: "John Smith",
		VisitDate:   scheduled.Format(models.DateLayout),
		VisitTime:   scheduled.Format(models.TimeLayout),
		ScheduledAt: scheduled,
		ResidentID:  residentID,
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	inv := newTestInvitation("res-1", time.Now().UTC().Add(time.Hour).Truncate(time.Minute))
	s.Require().NoError(s.store.Create(s.ctx, inv))

	byCode, err := s.store.FindByCode(s.ctx, inv.Code)
	s.Require().NoError(err)
	s.Equal(inv.ID, byCode.ID)
	s.True(inv.ScheduledAt.Equal(byCode.ScheduledAt))

	s.ErrorIs(s.store.Create(s.ctx, inv), sentinel.ErrAlreadyUsed)

	_, err = s.store.FindByID(s.ctx, id.NewInvitationID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestListAndCount() {
	first := newTestInvitation("res-1", time.Now().UTC().Add(time.Hour))
	second := newTestInvitation("res-2", time.Now().UTC().Add(time.Hour))
	third := newTestInvitation("res-1", time.Now().UTC().Add(time.Hour))
	for _, inv := range []*models.Invitation{first, second, third} {
		s.Require().NoError(s.store.Create(s.ctx, inv))
	}

	all, err := s.store.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(first.ID, all[0].ID)
	s.Equal(third.ID, all[2].ID)

	count, err := s.store.CountOutstanding(s.ctx, "res-1")
	s.Require().NoError(err)
	s.Equal(2, count)
}

func (s *PostgresStoreSuite) TestExecuteAndExpire() {
	now := time.Now().UTC()
	stale := newTestInvitation("res-1", now.Add(-48*time.Hour))
	fresh := newTestInvitation("res-1", now.Add(time.Hour))
	s.Require().NoError(s.store.Create(s.ctx, stale))
	s.Require().NoError(s.store.Create(s.ctx, fresh))

	updated, err := s.store.Execute(s.ctx, fresh.ID,
		func(*models.Invitation) error { return nil },
		func(i *models.Invitation) { i.ApplyCancel("weather", now) },
	)
	s.Require().NoError(err)
	s.Equal("Cancelled: weather", updated.Notes)

	n, err := s.store.ExpireScheduledBefore(s.ctx, models.StartOfDay(now), now)
	s.Require().NoError(err)
	s.Equal(1, n)

	found, err := s.store.FindByID(s.ctx, stale.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusExpired, found.Status)
}

func (s *PostgresStoreSuite) TestCreateWithinLimitIsAtomic() {
	var (
		wg      sync.WaitGroup
		created atomic.Int32
		refused atomic.Int32
	)
	for range 12 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.store.CreateWithinLimit(s.ctx, newTestInvitation("res-1", time.Now().UTC().Add(time.Hour)), 3)
			switch {
			case err == nil:
				created.Add(1)
			case errors.Is(err, sentinel.ErrExhausted):
				refused.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(3), created.Load())
	s.Equal(int32(9), refused.Load())

	count, err := s.store.CountOutstanding(s.ctx, "res-1")
	s.Require().NoError(err)
	s.Equal(3, count)

	s.NoError(s.store.CreateWithinLimit(s.ctx, newTestInvitation("res-2", time.Now().UTC().Add(time.Hour)), 3), "other residents are unaffected")
	s.NoError(s.store.CreateWithinLimit(s.ctx, newTestInvitation("res-1", time.Now().UTC().Add(time.Hour)), 0), "zero disables the limit")
}
