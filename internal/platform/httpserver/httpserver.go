package httpserver

import (
	"log/slog"
	"net/http"
	"time"
)

// New builds the API server. Timeouts bound slow clients at the front desk
// kiosks; net/http's own errors (TLS handshakes, malformed requests) are
// routed into the structured log at WARN.
func New(addr string, handler http.Handler, logger *slog.Logger) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
