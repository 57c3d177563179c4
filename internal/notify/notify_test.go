package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gatehouse/pkg/platform/circuit"
)

type capturePublisher struct {
	topic string
	key   []byte
	value []byte
}

func (c *capturePublisher) Publish(_ context.Context, topic string, key, value []byte) error {
	c.topic, c.key, c.value = topic, key, value
	return nil
}

func TestKafkaNotifier(t *testing.T) {
	pub := &capturePublisher{}
	n := NewKafkaNotifier(pub, "gatehouse.notifications")

	err := n.Notify(context.Background(), Notification{
		Kind:         KindInvitationCreated,
		To:           "guest@example.com",
		InvitationID: "inv-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "gatehouse.notifications", pub.topic)
	assert.Equal(t, "inv-1", string(pub.key))
	var decoded Notification
	require.NoError(t, json.Unmarshal(pub.value, &decoded))
	assert.Equal(t, KindInvitationCreated, decoded.Kind)
	assert.Equal(t, "guest@example.com", decoded.To)
}

func TestLogNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewLogNotifier(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, n.Notify(context.Background(), Notification{Kind: KindInvitationCancelled, To: "a@b.c"}))
	assert.Contains(t, buf.String(), "notification sent")
	assert.Contains(t, buf.String(), "invitation_cancelled")
}

type flakyNotifier struct {
	err   error
	calls int
}

func (f *flakyNotifier) Notify(context.Context, Notification) error {
	f.calls++
	return f.err
}

func TestFallbackNotifier(t *testing.T) {
	primary := &flakyNotifier{err: errors.New("broker down")}
	fallback := &flakyNotifier{}
	breaker := circuit.New("notify", circuit.WithFailureThreshold(2), circuit.WithSuccessThreshold(2))
	n := NewFallbackNotifier(primary, fallback, breaker, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()
	msg := Notification{Kind: KindInvitationCreated, To: "guest@example.com"}

	err := n.Notify(ctx, msg)
	require.Error(t, err, "below threshold the primary error surfaces")
	assert.Equal(t, 0, fallback.calls)

	require.NoError(t, n.Notify(ctx, msg))
	assert.True(t, breaker.IsOpen())
	assert.Equal(t, 1, fallback.calls)

	primary.err = nil
	require.NoError(t, n.Notify(ctx, msg))
	assert.Equal(t, 2, fallback.calls, "still open after one success")

	require.NoError(t, n.Notify(ctx, msg))
	assert.False(t, breaker.IsOpen())
	assert.Equal(t, 2, fallback.calls)
	assert.Equal(t, 4, primary.calls)
}
