package visitor

import (
	"context"
	"sort"
	"sync"
	"time"

	"gatehouse/internal/visitor/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded visitor store.
type InMemory struct {
	mu       sync.RWMutex
	visitors map[id.VisitorID]*models.Visitor
}

func NewInMemory() *InMemory {
	return &InMemory{visitors: make(map[id.VisitorID]*models.Visitor)}
}

func (s *InMemory) Create(_ context.Context, v *models.Visitor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.visitors[v.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	stored := *v
	s.visitors[v.ID] = &stored
	return nil
}

func (s *InMemory) FindByID(_ context.Context, visitorID id.VisitorID) (*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *v
	return &out, nil
}

// List returns visitors newest check-in first, optionally filtered by status.
func (s *InMemory) List(_ context.Context, status models.Status) ([]*models.Visitor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Visitor, 0, len(s.visitors))
	for _, v := range s.visitors {
		if status != "" && v.Status != status {
			continue
		}
		c := *v
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CheckInTime.Equal(out[j].CheckInTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].CheckInTime.After(out[j].CheckInTime)
	})
	return out, nil
}

// Execute runs validate then mutate on the stored record under the write lock.
func (s *InMemory) Execute(_ context.Context, visitorID id.VisitorID, validate func(*models.Visitor) error, mutate func(*models.Visitor)) (*models.Visitor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := *v
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	s.visitors[visitorID] = &working
	out := working
	return &out, nil
}

// MarkCheckedOut transitions a checked-in visitor to checked-out. A visitor
// already checked out yields sentinel.ErrInvalidState and is left untouched.
func (s *InMemory) MarkCheckedOut(ctx context.Context, visitorID id.VisitorID, now time.Time) (*models.Visitor, error) {
	return s.Execute(ctx, visitorID, rejectCheckedOut, func(v *models.Visitor) {
		v.ApplyCheckOut(now)
	})
}

func rejectCheckedOut(v *models.Visitor) error {
	if v.IsCheckedOut() {
		return sentinel.ErrInvalidState
	}
	return nil
}
