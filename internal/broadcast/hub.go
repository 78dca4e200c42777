package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber outbound queue depth. A subscriber
// whose buffer is full has the message dropped rather than blocking the
// publisher.
const subscriberBuffer = 16

// Envelope is the wire format of a published event.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Subscriber receives published envelopes for one connection.
type Subscriber struct {
	userID uuid.UUID
	ch     chan Envelope
}

// C returns the channel on which the subscriber receives envelopes. It is
// closed when the subscriber is removed from the hub.
func (s *Subscriber) C() <-chan Envelope {
	return s.ch
}

// UserID returns the identity the subscriber is registered under.
func (s *Subscriber) UserID() uuid.UUID {
	return s.userID
}

// Hub is an in-memory Broadcaster: a registry of subscribers grouped by
// identity. Publishes are non-blocking; a slow subscriber misses messages
// rather than stalling the caller.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Subscriber]struct{}
	closed bool
	logger *slog.Logger
}

// Ensure Hub implements Broadcaster interface
var _ Broadcaster = (*Hub)(nil)

// NewHub creates an empty Hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*Subscriber]struct{}),
		logger: logger.With("component", "broadcast_hub"),
	}
}

// Subscribe registers a new subscriber under the given identity.
func (h *Hub) Subscribe(userID uuid.UUID) *Subscriber {
	sub := &Subscriber{
		userID: userID,
		ch:     make(chan Envelope, subscriberBuffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(sub.ch)
		return sub
	}
	room, ok := h.rooms[userID]
	if !ok {
		room = make(map[*Subscriber]struct{})
		h.rooms[userID] = room
	}
	room[sub] = struct{}{}

	return sub
}

// Unsubscribe removes the subscriber and closes its channel. Safe to call
// more than once.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[sub.userID]
	if !ok {
		return
	}
	if _, ok := room[sub]; !ok {
		return
	}
	delete(room, sub)
	if len(room) == 0 {
		delete(h.rooms, sub.userID)
	}
	close(sub.ch)
}

// PublishTo implements Broadcaster. Delivery to an identity with no
// subscribers is a successful no-op.
func (h *Hub) PublishTo(ctx context.Context, userID uuid.UUID, event string, payload any) error {
	env, err := encode(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.rooms[userID] {
		h.send(sub, env)
	}

	return nil
}

// PublishAll implements Broadcaster.
func (h *Hub) PublishAll(ctx context.Context, event string, payload any) error {
	env, err := encode(event, payload)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, room := range h.rooms {
		for sub := range room {
			h.send(sub, env)
		}
	}

	return nil
}

// Close removes all subscribers and closes their channels. Further
// subscriptions get an already-closed channel.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for userID, room := range h.rooms {
		for sub := range room {
			close(sub.ch)
		}
		delete(h.rooms, userID)
	}
}

// send delivers the envelope without blocking. Must be called with at least
// the read lock held.
func (h *Hub) send(sub *Subscriber, env Envelope) {
	select {
	case sub.ch <- env:
	default:
		h.logger.Warn("dropping event for slow subscriber",
			"event", env.Event,
			"user_id", sub.userID)
	}
}

// encode marshals the payload into an envelope.
func encode(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("failed to encode %s payload: %w", event, err)
	}
	return Envelope{Event: event, Data: data}, nil
}
