package invitation

import (
	"context"
	"sync"
	"time"

	"gatehouse/internal/invitation/models"
	id "gatehouse/pkg/domain"
	"gatehouse/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded invitation store keyed by id, with a secondary
// index on the validation code and an insertion-order slice for listings.
type InMemory struct {
	mu     sync.RWMutex
	byID   map[id.InvitationID]*models.Invitation
	byCode map[string]id.InvitationID
	order  []id.InvitationID
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:   make(map[id.InvitationID]*models.Invitation),
		byCode: make(map[string]id.InvitationID),
	}
}

func (s *InMemory) Create(_ context.Context, inv *models.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(inv)
}

// CreateWithinLimit inserts inv unless its resident already holds limit
// outstanding invitations. A limit of zero or less disables the check.
func (s *InMemory) CreateWithinLimit(_ context.Context, inv *models.Invitation, limit int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit > 0 && s.countOutstandingLocked(inv.ResidentID) >= limit {
		return sentinel.ErrExhausted
	}
	return s.insertLocked(inv)
}

func (s *InMemory) insertLocked(inv *models.Invitation) error {
	if _, exists := s.byID[inv.ID]; exists {
		return sentinel.ErrAlreadyUsed
	}
	if _, exists := s.byCode[inv.Code]; exists {
		return sentinel.ErrAlreadyUsed
	}
	stored := *inv
	s.byID[inv.ID] = &stored
	s.byCode[inv.Code] = inv.ID
	s.order = append(s.order, inv.ID)
	return nil
}

func (s *InMemory) FindByID(_ context.Context, invitationID id.InvitationID) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.byID[invitationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *inv
	return &out, nil
}

func (s *InMemory) FindByCode(_ context.Context, code string) (*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	invitationID, ok := s.byCode[code]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	out := *s.byID[invitationID]
	return &out, nil
}

// List returns invitations in creation order, optionally for one resident.
func (s *InMemory) List(_ context.Context, residentID string) ([]*models.Invitation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Invitation, 0, len(s.order))
	for _, invitationID := range s.order {
		inv := s.byID[invitationID]
		if residentID != "" && inv.ResidentID != residentID {
			continue
		}
		c := *inv
		out = append(out, &c)
	}
	return out, nil
}

func (s *InMemory) CountOutstanding(_ context.Context, residentID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.countOutstandingLocked(residentID), nil
}

func (s *InMemory) countOutstandingLocked(residentID string) int {
	count := 0
	for _, inv := range s.byID {
		if inv.ResidentID == residentID && inv.Status.IsOutstanding() {
			count++
		}
	}
	return count
}

// Execute runs validate then mutate on the stored record under the write lock.
// A validate error aborts without mutation.
func (s *InMemory) Execute(_ context.Context, invitationID id.InvitationID, validate func(*models.Invitation) error, mutate func(*models.Invitation)) (*models.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byID[invitationID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	working := *inv
	if err := validate(&working); err != nil {
		return nil, err
	}
	mutate(&working)
	s.byID[invitationID] = &working
	out := working
	return &out, nil
}

// ExpireScheduledBefore marks outstanding invitations scheduled before cutoff
// as expired and returns how many changed.
func (s *InMemory) ExpireScheduledBefore(_ context.Context, cutoff, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, inv := range s.byID {
		if inv.Status.IsOutstanding() && inv.ScheduledAt.Before(cutoff) {
			inv.ApplyExpiry(now)
			count++
		}
	}
	return count, nil
}
