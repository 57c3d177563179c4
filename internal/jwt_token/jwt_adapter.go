package jwttoken

import (
	authmw "gatehouse/pkg/platform/middleware/auth"
)

// JWTServiceAdapter satisfies auth.JWTValidator so the middleware stays free
// of jwt types.
type JWTServiceAdapter struct {
	service *JWTService
}

func NewJWTServiceAdapter(service *JWTService) *JWTServiceAdapter {
	return &JWTServiceAdapter{service: service}
}

func (a *JWTServiceAdapter) ValidateToken(tokenString string) (*authmw.JWTClaims, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	return &authmw.JWTClaims{UserID: claims.UserID, Name: claims.Name, Role: claims.Role}, nil
}
