package admin

import (
	"log/slog"

	"gatehouse/internal/admin/handler"
	"gatehouse/internal/admin/service"
)

// Service exposes parking and settings administration.
type Service = service.Service

// Handler wires the /admin endpoints.
type Handler = handler.Handler

func NewHandler(s *Service, users handler.Users, auditLister handler.AuditLister, logger *slog.Logger) *Handler {
	return handler.New(s, users, auditLister, logger)
}
