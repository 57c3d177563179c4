package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/internal/admin/models"
	parkingstore "gatehouse/internal/admin/store/parking"
	settingsstore "gatehouse/internal/admin/store/settings"
	"gatehouse/internal/audit"
	auditmemory "gatehouse/internal/audit/store/memory"
	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

type AdminServiceSuite struct {
	suite.Suite
	audits  *auditmemory.InMemoryStore
	service *Service
	now     time.Time
	ctx     context.Context
}

func TestAdminServiceSuite(t *testing.T) {
	suite.Run(t, new(AdminServiceSuite))
}

func (s *AdminServiceSuite) SetupTest() {
	s.audits = auditmemory.NewInMemoryStore()
	s.now = time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	s.ctx = requestcontext.WithTime(context.Background(), s.now)
	s.service = New(parkingstore.NewInMemory(), settingsstore.NewInMemory(models.DefaultSettings()),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithAuditPublisher(audit.NewPublisher(s.audits)),
	)
}

func (s *AdminServiceSuite) addSpace(number string, typ models.SpaceType) *models.ParkingSpace {
	sp, err := s.service.AddSpace(s.ctx, &models.AddSpaceRequest{Number: number, Type: typ})
	s.Require().NoError(err)
	return sp
}

func ptr[T any](v T) *T { return &v }

func (s *AdminServiceSuite) TestAddSpaceReflectedInStats() {
	s.addSpace("p-001", models.SpaceVisitor)
	s.addSpace("P-002", "")

	stats, err := s.service.ParkingStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, stats.Total)
	s.Equal(0, stats.Occupied)
	s.Equal(2, stats.Available)
	s.Equal(1, stats.ByType[models.SpaceVisitor].Total)
	s.Equal(1, stats.ByType[models.SpaceStandard].Total)

	spaces, err := s.service.ListSpaces(s.ctx)
	s.Require().NoError(err)
	s.Equal("P-001", spaces[0].Number)
}

func (s *AdminServiceSuite) TestAddSpaceValidation() {
	_, err := s.service.AddSpace(s.ctx, &models.AddSpaceRequest{Number: " "})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = s.service.AddSpace(s.ctx, &models.AddSpaceRequest{Number: "P-9", Type: "boat"})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AdminServiceSuite) TestUpdateSpaceOccupancy() {
	sp := s.addSpace("P-001", models.SpaceVisitor)

	updated, err := s.service.UpdateSpace(s.ctx, sp.ID, &models.UpdateSpaceRequest{
		IsOccupied: ptr(true), OccupiedBy: ptr("ABC-123"),
	})
	s.Require().NoError(err)
	s.True(updated.IsOccupied)
	s.Equal("ABC-123", updated.OccupiedBy)
	s.Require().NotNil(updated.OccupiedAt)
	s.True(updated.OccupiedAt.Equal(s.now))

	s.Run("different occupant is rejected", func() {
		_, err := s.service.UpdateSpace(s.ctx, sp.ID, &models.UpdateSpaceRequest{
			IsOccupied: ptr(true), OccupiedBy: ptr("XYZ-999"),
		})
		s.True(dErrors.HasCode(err, dErrors.CodeConflict))
	})

	s.Run("vacating clears the occupant", func() {
		vacated, err := s.service.UpdateSpace(s.ctx, sp.ID, &models.UpdateSpaceRequest{IsOccupied: ptr(false)})
		s.Require().NoError(err)
		s.False(vacated.IsOccupied)
		s.Empty(vacated.OccupiedBy)
		s.Nil(vacated.OccupiedAt)
	})

	stats, err := s.service.ParkingStats(s.ctx)
	s.Require().NoError(err)
	s.Equal(1, stats.Available)
}

func (s *AdminServiceSuite) TestUnknownSpace() {
	missing := id.NewSpaceID()

	_, err := s.service.UpdateSpace(s.ctx, missing, &models.UpdateSpaceRequest{Notes: ptr("x")})
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	err = s.service.DeleteSpace(s.ctx, missing)
	s.Require().Error(err)
	de, ok := dErrors.As(err)
	s.Require().True(ok)
	s.Equal(models.MsgSpaceNotFound, de.Message)
}

func (s *AdminServiceSuite) TestDeleteSpace() {
	sp := s.addSpace("P-001", models.SpaceStandard)
	s.Require().NoError(s.service.DeleteSpace(s.ctx, sp.ID))

	spaces, err := s.service.ListSpaces(s.ctx)
	s.Require().NoError(err)
	s.Empty(spaces)
}

func (s *AdminServiceSuite) TestSettings() {
	current, err := s.service.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(models.DefaultSettings().MaxGroupSize, current.MaxGroupSize)

	updated, err := s.service.UpdateSettings(s.ctx, &models.UpdateSettingsRequest{
		MaxGroupSize:        ptr(4),
		AllowWalkInVisitors: ptr(false),
	})
	s.Require().NoError(err)
	s.Equal(4, updated.MaxGroupSize)
	s.False(updated.AllowWalkInVisitors)
	s.True(updated.UpdatedAt.Equal(s.now))
	s.Equal(models.DefaultSettings().MaxVisitorInvitations, updated.MaxVisitorInvitations)

	_, err = s.service.UpdateSettings(s.ctx, &models.UpdateSettingsRequest{MaxGroupSize: ptr(0)})
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))

	again, err := s.service.Settings(s.ctx)
	s.Require().NoError(err)
	s.Equal(4, again.MaxGroupSize)
}

func (s *AdminServiceSuite) TestAuditTrail() {
	sp := s.addSpace("P-001", models.SpaceStandard)
	s.Require().NoError(s.service.DeleteSpace(s.ctx, sp.ID))

	events, err := s.audits.ListRecent(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(events, 2)
	s.Equal(audit.EventParkingSpaceDeleted.String(), events[0].Action)
	s.Equal(audit.EventParkingSpaceAdded.String(), events[1].Action)
	s.Equal(sp.ID.String(), events[1].Subject)
	s.Equal("P-001", events[1].Resource)
	s.Empty(events[1].Reason)
}
