package tray

import (
	"container/heap"
	"context"
	"sync"
	"time"

	"gatehouse/internal/visitor/models"
	"gatehouse/pkg/platform/sentinel"
)

// ordinalHeap is a min-heap of available tray ordinals.
type ordinalHeap []int

func (h ordinalHeap) Len() int           { return len(h) }
func (h ordinalHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h ordinalHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *ordinalHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *ordinalHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// InMemory is a fixed-size tray pool. Acquire always hands out the lowest
// available ordinal, so a fresh pool assigns T-001 first.
type InMemory struct {
	mu        sync.Mutex
	trays     []*models.Tray
	available ordinalHeap
}

// NewInMemory seeds size trays, all available.
func NewInMemory(size int) *InMemory {
	s := &InMemory{
		trays:     make([]*models.Tray, size),
		available: make(ordinalHeap, 0, size),
	}
	for i := 1; i <= size; i++ {
		s.trays[i-1] = &models.Tray{Number: models.TrayNumber(i), Ordinal: i, Available: true}
		s.available = append(s.available, i)
	}
	heap.Init(&s.available)
	return s
}

// Acquire marks the lowest available tray as held by assignee.
// Returns sentinel.ErrExhausted without mutation when none are free.
func (s *InMemory) Acquire(_ context.Context, assignee string, at time.Time) (*models.Tray, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.available.Len() == 0 {
		return nil, sentinel.ErrExhausted
	}
	ordinal := heap.Pop(&s.available).(int)
	t := s.trays[ordinal-1]
	t.Available = false
	t.AssignedTo = assignee
	assignedAt := at
	t.AssignedAt = &assignedAt
	out := *t
	return &out, nil
}

// Release returns a held tray to the pool. Releasing an available tray
// returns sentinel.ErrInvalidState.
func (s *InMemory) Release(_ context.Context, number string) error {
	ordinal, ok := models.TrayOrdinal(number)
	s.mu.Lock()
	defer s.mu.Unlock()
	if !ok || ordinal > len(s.trays) {
		return sentinel.ErrNotFound
	}
	t := s.trays[ordinal-1]
	if t.Available {
		return sentinel.ErrInvalidState
	}
	t.Available = true
	t.AssignedTo = ""
	t.AssignedAt = nil
	heap.Push(&s.available, ordinal)
	return nil
}

// List returns every tray in ordinal order.
func (s *InMemory) List(_ context.Context) ([]*models.Tray, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Tray, len(s.trays))
	for i, t := range s.trays {
		c := *t
		out[i] = &c
	}
	return out, nil
}
