package tray

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"gatehouse/pkg/platform/sentinel"
)

type InMemoryTraySuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
	now   time.Time
}

func TestInMemoryTraySuite(t *testing.T) {
	suite.Run(t, new(InMemoryTraySuite))
}

func (s *InMemoryTraySuite) SetupTest() {
	s.store = NewInMemory(3)
	s.ctx = context.Background()
	s.now = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)
}

func (s *InMemoryTraySuite) TestAcquireLowestFirst() {
	t1, err := s.store.Acquire(s.ctx, "X", s.now)
	s.Require().NoError(err)
	s.Equal("T-001", t1.Number)
	s.False(t1.Available)
	s.Equal("X", t1.AssignedTo)
	s.Require().NotNil(t1.AssignedAt)

	t2, err := s.store.Acquire(s.ctx, "Y", s.now)
	s.Require().NoError(err)
	s.Equal("T-002", t2.Number)

	s.Require().NoError(s.store.Release(s.ctx, "T-001"))
	again, err := s.store.Acquire(s.ctx, "Z", s.now)
	s.Require().NoError(err)
	s.Equal("T-001", again.Number, "released low tray is handed out before higher ones")
}

func (s *InMemoryTraySuite) TestExhaustedLeavesPoolUntouched() {
	for range 3 {
		_, err := s.store.Acquire(s.ctx, "X", s.now)
		s.Require().NoError(err)
	}
	before, err := s.store.List(s.ctx)
	s.Require().NoError(err)

	_, err = s.store.Acquire(s.ctx, "late", s.now)
	s.ErrorIs(err, sentinel.ErrExhausted)

	after, err := s.store.List(s.ctx)
	s.Require().NoError(err)
	s.Equal(before, after)
}

func (s *InMemoryTraySuite) TestRelease() {
	s.Run("unknown tray", func() {
		s.ErrorIs(s.store.Release(s.ctx, "T-099"), sentinel.ErrNotFound)
		s.ErrorIs(s.store.Release(s.ctx, "bogus"), sentinel.ErrNotFound)
	})

	s.Run("releasing an available tray is rejected", func() {
		s.ErrorIs(s.store.Release(s.ctx, "T-002"), sentinel.ErrInvalidState)
	})

	s.Run("release clears the holder", func() {
		held, err := s.store.Acquire(s.ctx, "X", s.now)
		s.Require().NoError(err)
		s.Require().NoError(s.store.Release(s.ctx, held.Number))

		trays, err := s.store.List(s.ctx)
		s.Require().NoError(err)
		s.True(trays[0].Available)
		s.Empty(trays[0].AssignedTo)
		s.Nil(trays[0].AssignedAt)
	})
}

func (s *InMemoryTraySuite) TestConcurrentAcquireNeverSharesTray() {
	s.store = NewInMemory(20)
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		seen = map[string]int{}
		full int
	)
	for range 30 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			t, err := s.store.Acquire(s.ctx, "X", s.now)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				full++
				return
			}
			seen[t.Number]++
		}()
	}
	wg.Wait()

	s.Len(seen, 20)
	s.Equal(10, full)
	for number, count := range seen {
		s.Equal(1, count, number)
	}
}
