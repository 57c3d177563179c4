package visitor

import (
	"log/slog"

	"gatehouse/internal/visitor/handler"
	"gatehouse/internal/visitor/service"
)

// Service exposes visitor check-in/out and the tray pool.
type Service = service.Service

// Handler wires HTTP endpoints to the visitor service.
type Handler = handler.Handler

func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}
