// Package broadcast provides the real-time publish/subscribe channel used to
// push task events to connected clients, keyed per identity ("room") or
// global.
package broadcast

import (
	"context"

	"github.com/google/uuid"
)

// Broadcaster is the publish side of the real-time channel. Targeted and
// global publishes are deliberately two operations, not one parameterized
// call: their failure handling is the same shape but their intent differs,
// and conflating them invites silent drift between the two.
type Broadcaster interface {
	// PublishTo delivers the event to subscribers of the given identity's
	// channel.
	PublishTo(ctx context.Context, userID uuid.UUID, event string, payload any) error

	// PublishAll delivers the event to every connected subscriber.
	PublishAll(ctx context.Context, event string, payload any) error
}
