package user

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/internal/user/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func newUser(email string, status models.Status, createdAt time.Time) *models.User {
	return &models.User{
		ID:           id.NewUserID(),
		Name:         "Jane Doe",
		Email:        email,
		PasswordHash: "hash",
		Role:         id.RoleResident,
		Status:       status,
		CreatedAt:    createdAt,
	}
}

func (s *InMemoryUserStoreSuite) TestLookupBehavior() {
	user := newUser("jane.doe@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(s.ctx, user))

	s.Run("returns user by ID when exists", func() {
		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user, found)
	})

	s.Run("email lookup ignores case", func() {
		found, err := s.store.FindByEmail(s.ctx, "Jane.Doe@Example.com")
		s.Require().NoError(err)
		s.Equal(user.ID, found.ID)
	})

	s.Run("duplicate email is rejected", func() {
		err := s.store.Create(s.ctx, newUser("JANE.DOE@example.com", models.StatusPending, time.Now()))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("returns ErrNotFound when user ID does not exist", func() {
		_, err := s.store.FindByID(s.ctx, id.NewUserID())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returns ErrNotFound when email does not exist", func() {
		_, err := s.store.FindByEmail(s.ctx, "missing@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *InMemoryUserStoreSuite) TestListFiltersByStatus() {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	first := newUser("a@example.com", models.StatusActive, base)
	second := newUser("b@example.com", models.StatusPending, base.Add(time.Hour))
	s.Require().NoError(s.store.Create(s.ctx, second))
	s.Require().NoError(s.store.Create(s.ctx, first))

	all, err := s.store.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(first.ID, all[0].ID)

	pending, err := s.store.List(s.ctx, models.StatusPending)
	s.Require().NoError(err)
	s.Require().Len(pending, 1)
	s.Equal(second.ID, pending[0].ID)
}

func (s *InMemoryUserStoreSuite) TestExecuteAndDelete() {
	user := newUser("delete.me@example.com", models.StatusPending, time.Now())
	s.Require().NoError(s.store.Create(s.ctx, user))

	updated, err := s.store.Execute(s.ctx, user.ID, func(u *models.User) { u.Status = models.StatusActive })
	s.Require().NoError(err)
	s.Equal(models.StatusActive, updated.Status)

	s.Require().NoError(s.store.Delete(s.ctx, user.ID))
	_, err = s.store.FindByEmail(s.ctx, user.Email)
	s.ErrorIs(err, sentinel.ErrNotFound)
	s.ErrorIs(s.store.Delete(s.ctx, user.ID), sentinel.ErrNotFound)

	_, err = s.store.Execute(s.ctx, user.ID, func(*models.User) {})
	s.ErrorIs(err, sentinel.ErrNotFound)
}
