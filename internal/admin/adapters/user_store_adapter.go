package adapters

import (
	"context"

	"gatehouse/internal/admin/models"
	usermodels "gatehouse/internal/user/models"
	id "gatehouse/pkg/domain"
)

// UserAccounts is the account administration surface of the user service.
type UserAccounts interface {
	List(ctx context.Context, status usermodels.Status) ([]*usermodels.User, error)
	Approve(ctx context.Context, userID id.UserID) (*usermodels.User, error)
	Suspend(ctx context.Context, userID id.UserID) (*usermodels.User, error)
	Reject(ctx context.Context, userID id.UserID) error
	Delete(ctx context.Context, userID id.UserID) error
}

// UserAdapter adapts the user service to the admin handler's view of users.
type UserAdapter struct {
	accounts UserAccounts
}

func NewUserAdapter(accounts UserAccounts) *UserAdapter {
	return &UserAdapter{accounts: accounts}
}

// ListUsers returns accounts mapped to admin types; an empty status means all.
func (a *UserAdapter) ListUsers(ctx context.Context, status string) ([]*models.UserInfoResponse, error) {
	users, err := a.accounts.List(ctx, usermodels.Status(status))
	if err != nil {
		return nil, err
	}
	result := make([]*models.UserInfoResponse, len(users))
	for i, u := range users {
		result[i] = mapUser(u)
	}
	return result, nil
}

func (a *UserAdapter) ApproveUser(ctx context.Context, userID id.UserID) (*models.UserInfoResponse, error) {
	u, err := a.accounts.Approve(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (a *UserAdapter) SuspendUser(ctx context.Context, userID id.UserID) (*models.UserInfoResponse, error) {
	u, err := a.accounts.Suspend(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mapUser(u), nil
}

func (a *UserAdapter) RejectUser(ctx context.Context, userID id.UserID) error {
	return a.accounts.Reject(ctx, userID)
}

func (a *UserAdapter) DeleteUser(ctx context.Context, userID id.UserID) error {
	return a.accounts.Delete(ctx, userID)
}

func mapUser(u *usermodels.User) *models.UserInfoResponse {
	return &models.UserInfoResponse{
		ID:        u.ID.String(),
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role.String(),
		Status:    string(u.Status),
		CreatedAt: u.CreatedAt,
		LastLogin: u.LastLogin,
	}
}
