package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gatehouse/pkg/platform/httputil"
	"gatehouse/pkg/platform/middleware/auth"
	"gatehouse/pkg/platform/middleware/metadata"
	"gatehouse/pkg/platform/middleware/request"
	"gatehouse/pkg/platform/middleware/requesttime"
)

const healthTimeout = 2 * time.Second

// RouteRegistrar mounts a module's authenticated routes.
type RouteRegistrar interface {
	Register(r chi.Router)
}

// PublicRegistrar mounts routes that are reachable without a token.
type PublicRegistrar interface {
	RegisterPublic(r chi.Router)
}

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps is everything the router needs from main.
type Deps struct {
	Logger    *slog.Logger
	Validator auth.JWTValidator
	Accounts  auth.PrincipalChecker
	Latency   request.LatencyObserver
	Gatherer  prometheus.Gatherer
	Public    []PublicRegistrar
	Modules   []RouteRegistrar
	Health    []HealthCheck
}

// NewRouter wires middleware and mounts every module. Public routes sit
// outside the bearer-token group; everything else requires a valid token and
// applies its own role gates.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(request.Recovery(d.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(d.Logger))
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	if d.Latency != nil {
		r.Use(request.Latency(d.Latency))
	}

	r.Get("/healthz", healthHandler(d.Health))
	if d.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	}

	for _, m := range d.Public {
		m.RegisterPublic(r)
	}
	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Validator, d.Logger))
		if d.Accounts != nil {
			r.Use(auth.RequireActive(d.Accounts, d.Logger))
		}
		for _, m := range d.Modules {
			m.Register(r)
		}
	})
	return r
}

func healthHandler(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for _, c := range checks {
			if err := c.Check(ctx); err != nil {
				status = http.StatusServiceUnavailable
				results[c.Name] = err.Error()
				continue
			}
			results[c.Name] = "ok"
		}
		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		httputil.WriteJSON(w, status, map[string]any{"status": overall, "checks": results})
	}
}
