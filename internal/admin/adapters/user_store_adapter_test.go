package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	jwttoken "gatehouse/internal/jwt_token"
	usermodels "gatehouse/internal/user/models"
	userservice "gatehouse/internal/user/service"
	userstore "gatehouse/internal/user/store/user"
	dErrors "gatehouse/pkg/domain-errors"
	"gatehouse/pkg/requestcontext"
)

func TestUserAdapter(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC))
	users := userservice.New(userstore.NewInMemory(), jwttoken.NewJWTService("k", "gatehouse", "gatehouse-api"))
	adapter := NewUserAdapter(users)

	u, err := users.Register(ctx, &usermodels.RegisterRequest{
		Name: "Jane", Email: "jane@example.com", Password: "password123",
	})
	require.NoError(t, err)

	pending, err := adapter.ListUsers(ctx, "pending")
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, u.ID.String(), pending[0].ID)
	assert.Equal(t, "resident", pending[0].Role)

	approved, err := adapter.ApproveUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", approved.Status)

	suspended, err := adapter.SuspendUser(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "suspended", suspended.Status)

	require.NoError(t, adapter.DeleteUser(ctx, u.ID))
	err = adapter.RejectUser(ctx, u.ID)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

	all, err := adapter.ListUsers(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, all)
}
