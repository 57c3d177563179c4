package settings

import (
	"context"
	"sync"

	"gatehouse/internal/admin/models"
)

// InMemory holds the single settings document.
type InMemory struct {
	mu       sync.RWMutex
	settings models.Settings
}

// NewInMemory starts from initial.
func NewInMemory(initial models.Settings) *InMemory {
	return &InMemory{settings: clone(initial)}
}

func (s *InMemory) Get(_ context.Context) (*models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := clone(s.settings)
	return &out, nil
}

// Update applies mutate to the current document atomically.
func (s *InMemory) Update(_ context.Context, mutate func(*models.Settings)) (*models.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	working := clone(s.settings)
	mutate(&working)
	s.settings = working
	out := clone(working)
	return &out, nil
}

func clone(s models.Settings) models.Settings {
	s.BusinessHours.Days = append([]string(nil), s.BusinessHours.Days...)
	return s
}
