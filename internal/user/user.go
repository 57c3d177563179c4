package user

import (
	"log/slog"

	"gatehouse/internal/user/handler"
	"gatehouse/internal/user/service"
)

// Service exposes registration, sign-in and account administration.
type Service = service.Service

// Handler wires the /auth endpoints to the user service.
type Handler = handler.Handler

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
