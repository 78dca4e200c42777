package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// recv asserts an envelope is waiting in the subscriber's buffer.
func recv(t *testing.T, sub *Subscriber) Envelope {
	t.Helper()
	select {
	case env := <-sub.C():
		return env
	default:
		t.Fatal("expected an envelope, channel is empty")
		return Envelope{}
	}
}

func assertEmpty(t *testing.T, sub *Subscriber) {
	t.Helper()
	select {
	case env := <-sub.C():
		t.Fatalf("expected no envelope, got %q", env.Event)
	default:
	}
}

func TestHubPublishTo(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	aliceID := uuid.New()
	bobID := uuid.New()

	alice := hub.Subscribe(aliceID)
	bob := hub.Subscribe(bobID)

	err := hub.PublishTo(context.Background(), bobID, "taskAssigned", map[string]string{"id": "42"})
	require.NoError(t, err)

	// Only bob's channel sees a targeted publish
	env := recv(t, bob)
	assert.Equal(t, "taskAssigned", env.Event)

	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "42", data["id"])

	assertEmpty(t, alice)
}

func TestHubPublishToNoSubscribers(t *testing.T) {
	t.Parallel()

	hub := newTestHub()

	// Publishing into an empty room succeeds and delivers nothing
	err := hub.PublishTo(context.Background(), uuid.New(), "taskAssigned", "payload")
	assert.NoError(t, err)
}

func TestHubPublishAll(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	alice := hub.Subscribe(uuid.New())
	bob := hub.Subscribe(uuid.New())
	bobSecondTab := hub.Subscribe(bob.UserID())

	err := hub.PublishAll(context.Background(), "taskUpdated", map[string]string{"id": "7"})
	require.NoError(t, err)

	for _, sub := range []*Subscriber{alice, bob, bobSecondTab} {
		env := recv(t, sub)
		assert.Equal(t, "taskUpdated", env.Event)
	}
}

func TestHubMultipleSubscribersPerIdentity(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	userID := uuid.New()
	first := hub.Subscribe(userID)
	second := hub.Subscribe(userID)

	require.NoError(t, hub.PublishTo(context.Background(), userID, "taskAssigned", "x"))

	recv(t, first)
	recv(t, second)
}

func TestHubUnsubscribe(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	userID := uuid.New()
	sub := hub.Subscribe(userID)

	hub.Unsubscribe(sub)

	// The channel is closed
	_, open := <-sub.C()
	assert.False(t, open)

	// Publishing afterwards is a no-op
	assert.NoError(t, hub.PublishTo(context.Background(), userID, "taskAssigned", "x"))

	// Unsubscribing again is safe
	hub.Unsubscribe(sub)
}

func TestHubSlowSubscriberDoesNotBlock(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	userID := uuid.New()
	sub := hub.Subscribe(userID)

	// Overfill the subscriber buffer; the surplus publishes drop instead of
	// blocking.
	for i := 0; i < subscriberBuffer+5; i++ {
		require.NoError(t, hub.PublishTo(context.Background(), userID, "taskAssigned", i))
	}

	received := 0
	for {
		select {
		case <-sub.C():
			received++
			continue
		default:
		}
		break
	}
	assert.Equal(t, subscriberBuffer, received)
}

func TestHubRejectsUnencodablePayload(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	assert.Error(t, hub.PublishTo(context.Background(), uuid.New(), "taskAssigned", func() {}))
	assert.Error(t, hub.PublishAll(context.Background(), "taskUpdated", func() {}))
}

func TestHubClose(t *testing.T) {
	t.Parallel()

	hub := newTestHub()
	sub := hub.Subscribe(uuid.New())

	hub.Close()

	_, open := <-sub.C()
	assert.False(t, open)

	// Subscriptions after close get an already closed channel
	late := hub.Subscribe(uuid.New())
	_, open = <-late.C()
	assert.False(t, open)

	// Closing twice is safe
	hub.Close()
}
