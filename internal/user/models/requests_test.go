package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	id "gatehouse/pkg/domain"
	dErrors "gatehouse/pkg/domain-errors"
)

func TestRegisterRequest(t *testing.T) {
	t.Run("normalize fills defaults", func(t *testing.T) {
		req := &RegisterRequest{Email: " Jane.Doe@Example.com ", Password: "password123"}
		req.Normalize()
		assert.Equal(t, "jane.doe@example.com", req.Email)
		assert.Equal(t, "Jane Doe", req.Name)
		assert.Equal(t, id.RoleResident, req.Role)
		assert.NoError(t, req.Validate())
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		req := &RegisterRequest{Name: "X", Email: "x@example.com", Password: "password123", Role: "janitor"}
		req.Normalize()
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("rejects overlong password", func(t *testing.T) {
		long := make([]byte, 73)
		for i := range long {
			long[i] = 'a'
		}
		req := &RegisterRequest{Name: "X", Email: "x@example.com", Password: string(long)}
		req.Normalize()
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})

	t.Run("missing email", func(t *testing.T) {
		req := &RegisterRequest{Password: "password123"}
		req.Normalize()
		assert.True(t, dErrors.HasCode(req.Validate(), dErrors.CodeValidation))
	})
}

func TestLoginRequest(t *testing.T) {
	req := &LoginRequest{Email: " A@B.com ", Password: "pw"}
	req.Normalize()
	assert.Equal(t, "a@b.com", req.Email)
	assert.NoError(t, req.Validate())

	assert.True(t, dErrors.HasCode((&LoginRequest{Email: "a@b.com"}).Validate(), dErrors.CodeValidation))
}
