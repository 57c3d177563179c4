package audit

import (
	"context"
	"errors"
	"time"
)

// Store persists audit events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListRecent(ctx context.Context, limit int) ([]Event, error)
}

// ErrBufferFull is returned by Emit when the async buffer cannot accept more events.
var ErrBufferFull = errors.New("audit buffer full")

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily. With a buffer
// configured, events are handed to a Worker instead of being written inline.
type Publisher struct {
	store Store
	inbox chan Event
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store}
}

// NewAsyncPublisher returns a publisher that buffers up to size events for a Worker.
func NewAsyncPublisher(store Store, size int) *Publisher {
	return &Publisher{store: store, inbox: make(chan Event, size)}
}

// Inbox exposes the async buffer for the worker; nil for synchronous publishers.
func (p *Publisher) Inbox() <-chan Event {
	return p.inbox
}

func (p *Publisher) Emit(ctx context.Context, base Event) error {
	if base.Timestamp.IsZero() {
		base.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, base)
	}
	select {
	case p.inbox <- base:
		return nil
	default:
		return ErrBufferFull
	}
}

func (p *Publisher) ListRecent(ctx context.Context, limit int) ([]Event, error) {
	return p.store.ListRecent(ctx, limit)
}
