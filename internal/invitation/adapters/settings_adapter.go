package adapters

import (
	"context"

	adminmodels "gatehouse/internal/admin/models"
	"gatehouse/internal/invitation/models"
)

// SettingsReader is the admin service capability the invitation module needs.
type SettingsReader interface {
	Settings(ctx context.Context) (*adminmodels.Settings, error)
}

// SettingsAdapter projects system settings onto the invitation policy.
type SettingsAdapter struct {
	settings SettingsReader
}

func NewSettingsAdapter(settings SettingsReader) *SettingsAdapter {
	return &SettingsAdapter{settings: settings}
}

func (a *SettingsAdapter) InvitationPolicy(ctx context.Context) (models.Policy, error) {
	s, err := a.settings.Settings(ctx)
	if err != nil {
		return models.Policy{}, err
	}
	return models.Policy{
		MaxOutstandingPerResident: s.MaxVisitorInvitations,
		ValidityDays:              s.InvitationValidityDays,
		ParkingReservationEnabled: s.ParkingReservationEnabled,
		NotificationsEnabled:      s.EmailNotificationsEnabled,
	}, nil
}
