package adapters

import (
	"context"

	adminmodels "gatehouse/internal/admin/models"
	"gatehouse/internal/visitor/models"
)

// SettingsReader is the admin service capability the visitor module needs.
type SettingsReader interface {
	Settings(ctx context.Context) (*adminmodels.Settings, error)
}

// SettingsAdapter projects system settings onto the check-in policy.
type SettingsAdapter struct {
	settings SettingsReader
}

func NewSettingsAdapter(settings SettingsReader) *SettingsAdapter {
	return &SettingsAdapter{settings: settings}
}

func (a *SettingsAdapter) CheckInPolicy(ctx context.Context) (models.Policy, error) {
	s, err := a.settings.Settings(ctx)
	if err != nil {
		return models.Policy{}, err
	}
	return models.Policy{
		AllowWalkIns: s.AllowWalkInVisitors,
		MaxGroupSize: s.MaxGroupSize,
	}, nil
}
