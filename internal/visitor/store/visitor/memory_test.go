package visitor

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

type InMemoryVisitorSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryVisitorSuite(t *testing.T) {
	suite.Run(t, new(InMemoryVisitorSuite))
}

func (s *InMemoryVisitorSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryVisitorSuite) checkedIn(name string, at time.Time) *models.Visitor {
	v := &models.Visitor{
		ID:          id.NewVisitorID(),
		Name:        name,
		Status:      models.StatusCheckedIn,
		CheckInTime: at,
		TrayNumber:  "T-001",
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	s.Require().NoError(s.store.Create(s.ctx, v))
	return v
}

func (s *InMemoryVisitorSuite) TestCreateAndFind() {
	v := s.checkedIn("X", s.now)

	found, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(v.Name, found.Name)

	s.ErrorIs(s.store.Create(s.ctx, v), sentinel.ErrAlreadyUsed)

	_, err = s.store.FindByID(s.ctx, id.NewVisitorID())
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemoryVisitorSuite) TestListNewestFirst() {
	early := s.checkedIn("early", s.now)
	late := s.checkedIn("late", s.now.Add(time.Hour))
	_, err := s.store.MarkCheckedOut(s.ctx, early.ID, s.now.Add(2*time.Hour))
	s.Require().NoError(err)

	all, err := s.store.List(s.ctx, "")
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal(late.ID, all[0].ID)

	in, err := s.store.List(s.ctx, models.StatusCheckedIn)
	s.Require().NoError(err)
	s.Require().Len(in, 1)
	s.Equal(late.ID, in[0].ID)
}

func (s *InMemoryVisitorSuite) TestMarkCheckedOut() {
	v := s.checkedIn("X", s.now)
	out := s.now.Add(3 * time.Hour)

	updated, err := s.store.MarkCheckedOut(s.ctx, v.ID, out)
	s.Require().NoError(err)
	s.Equal(models.StatusCheckedOut, updated.Status)
	s.Equal(out, *updated.CheckOutTime)

	_, err = s.store.MarkCheckedOut(s.ctx, v.ID, out.Add(time.Hour))
	s.ErrorIs(err, sentinel.ErrInvalidState)

	stored, err := s.store.FindByID(s.ctx, v.ID)
	s.Require().NoError(err)
	s.Equal(out, *stored.CheckOutTime, "second checkout must not mutate")
}

func (s *InMemoryVisitorSuite) TestConcurrentCheckOutSucceedsOnce() {
	v := s.checkedIn("X", s.now)
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := s.store.MarkCheckedOut(s.ctx, v.ID, s.now); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, successes)
}
