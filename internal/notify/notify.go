// Package notify delivers visitor-facing notifications such as invitation
// emails. Delivery is best effort: callers log failures and carry on.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"gatehouse/pkg/platform/circuit"
)

// Kind names the notification template.
type Kind string

const (
	KindInvitationCreated   Kind = "invitation_created"
	KindInvitationCancelled Kind = "invitation_cancelled"
)

// Notification is one outbound message.
type Notification struct {
	Kind         Kind      `json:"kind"`
	To           string    `json:"to"`
	Subject      string    `json:"subject"`
	Body         string    `json:"body"`
	InvitationID string    `json:"invitation_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Notifier sends notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log. Used when no
// message broker is configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(ctx context.Context, msg Notification) error {
	n.logger.InfoContext(ctx, "notification sent",
		"kind", msg.Kind,
		"to", msg.To,
		"subject", msg.Subject,
		"invitation_id", msg.InvitationID,
	)
	return nil
}

// Publisher is the subset of the Kafka producer used here.
type Publisher interface {
	Publish(ctx context.Context, topic string, key, value []byte) error
}

// KafkaNotifier publishes notifications as JSON for a mail relay to consume.
type KafkaNotifier struct {
	producer Publisher
	topic    string
}

func NewKafkaNotifier(producer Publisher, topic string) *KafkaNotifier {
	return &KafkaNotifier{producer: producer, topic: topic}
}

func (n *KafkaNotifier) Notify(ctx context.Context, msg Notification) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	return n.producer.Publish(ctx, n.topic, []byte(msg.InvitationID), payload)
}

// FallbackNotifier sends through the primary notifier and switches to the
// fallback once the breaker opens. The primary is still attempted while open
// so that recovery closes the circuit again.
type FallbackNotifier struct {
	primary  Notifier
	fallback Notifier
	breaker  *circuit.Breaker
	logger   *slog.Logger
}

func NewFallbackNotifier(primary, fallback Notifier, breaker *circuit.Breaker, logger *slog.Logger) *FallbackNotifier {
	return &FallbackNotifier{primary: primary, fallback: fallback, breaker: breaker, logger: logger}
}

func (n *FallbackNotifier) Notify(ctx context.Context, msg Notification) error {
	err := n.primary.Notify(ctx, msg)
	if err == nil {
		usePrimary, change := n.breaker.RecordSuccess()
		if change.Closed {
			n.logger.InfoContext(ctx, "notification circuit closed", "breaker", n.breaker.Name())
		}
		if usePrimary {
			return nil
		}
		return n.fallback.Notify(ctx, msg)
	}

	useFallback, change := n.breaker.RecordFailure()
	if change.Opened {
		n.logger.WarnContext(ctx, "notification circuit opened", "breaker", n.breaker.Name(), "error", err)
	}
	if !useFallback {
		return err
	}
	return n.fallback.Notify(ctx, msg)
}
