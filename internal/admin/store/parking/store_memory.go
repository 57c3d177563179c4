package parking

import (
	"context"
	"slices"
	"sync"

	"gatehouse/internal/admin/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemory keeps parking spaces keyed by id, listed in insertion order.
type InMemory struct {
	mu     sync.RWMutex
	spaces map[id.SpaceID]*models.ParkingSpace
	order  []id.SpaceID
}

func NewInMemory() *InMemory {
	return &InMemory{spaces: make(map[id.SpaceID]*models.ParkingSpace)}
}

func (s *InMemory) Create(_ context.Context, sp *models.ParkingSpace) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.spaces[sp.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	stored := *sp
	s.spaces[sp.ID] = &stored
	s.order = append(s.order, sp.ID)
	return nil
}

func (s *InMemory) List(_ context.Context) ([]*models.ParkingSpace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ParkingSpace, 0, len(s.order))
	for _, spaceID := range s.order {
		c := *s.spaces[spaceID]
		out = append(out, &c)
	}
	return out, nil
}

// Execute runs validate then mutate on the stored record under the write lock.
func (s *InMemory) Execute(_ context.Context, spaceID id.SpaceID, validate func(*models.ParkingSpace) error, mutate func(*models.ParkingSpace)) (*models.ParkingSpace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sp, ok := s.spaces[spaceID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := *sp
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	s.spaces[spaceID] = &working
	out := working
	return &out, nil
}

func (s *InMemory) Delete(_ context.Context, spaceID id.SpaceID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.spaces[spaceID]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.spaces, spaceID)
	s.order = slices.DeleteFunc(s.order, func(v id.SpaceID) bool { return v == spaceID })
	return nil
}
