package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adminmodels "gatehouse/internal/admin/models"
	adminservice "gatehouse/internal/admin/service"
	parkingstore "gatehouse/internal/admin/store/parking"
	settingsstore "gatehouse/internal/admin/store/settings"
	"gatehouse/pkg/requestcontext"
)

func TestInvitationPolicyFollowsSettings(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	admin := adminservice.New(parkingstore.NewInMemory(), settingsstore.NewInMemory(adminmodels.DefaultSettings()))
	adapter := NewSettingsAdapter(admin)

	policy, err := adapter.InvitationPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, policy.MaxOutstandingPerResident)
	assert.Equal(t, 7, policy.ValidityDays)
	assert.True(t, policy.ParkingReservationEnabled)

	limit, off := 2, false
	_, err = admin.UpdateSettings(ctx, &adminmodels.UpdateSettingsRequest{
		MaxVisitorInvitations:     &limit,
		ParkingReservationEnabled: &off,
		EmailNotificationsEnabled: &off,
	})
	require.NoError(t, err)

	policy, err = adapter.InvitationPolicy(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, policy.MaxOutstandingPerResident)
	assert.False(t, policy.ParkingReservationEnabled)
	assert.False(t, policy.NotificationsEnabled)
}
