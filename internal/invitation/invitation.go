package invitation

import (
	"context"
	"log/slog"
	"time"

	"gatehouse/internal/invitation/handler"
	"gatehouse/internal/invitation/service"
	"gatehouse/pkg/requestcontext"
)

// Service exposes the invitation lifecycle.
type Service = service.Service

// Handler wires HTTP endpoints to the invitation service.
type Handler = handler.Handler

// NewHandler constructs the HTTP handler for invitation routes.
func NewHandler(s *Service, logger *slog.Logger) *Handler {
	return handler.New(s, logger)
}

// Expirer is the sweep capability of the invitation service.
type Expirer interface {
	SweepExpired(ctx context.Context) (int, error)
}

// Sweeper periodically expires invitations whose visit day has passed, so
// stale invitations do not linger until someone happens to validate them.
type Sweeper struct {
	expirer  Expirer
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

func NewSweeper(expirer Expirer, interval time.Duration, logger *slog.Logger) *Sweeper {
	return &Sweeper{expirer: expirer, interval: interval, logger: logger, now: time.Now}
}

// Run sweeps once immediately and then on every tick until ctx is cancelled.
// Sweep failures are logged and retried on the next tick.
func (w *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.sweep(ctx)
	for {
		select {
		case <-ticker.C:
			w.sweep(ctx)
		case <-ctx.Done():
			return nil
		}
	}
}

func (w *Sweeper) sweep(ctx context.Context) {
	sweepCtx := requestcontext.WithTime(ctx, w.now())
	n, err := w.expirer.SweepExpired(sweepCtx)
	if err != nil {
		w.logger.ErrorContext(ctx, "invitation sweep failed", "error", err)
		return
	}
	if n > 0 {
		w.logger.InfoContext(ctx, "expired stale invitations", "count", n)
	}
}
