package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Publish records a single publish call made against the mock broadcaster.
type Publish struct {
	UserID  uuid.UUID // uuid.Nil for global broadcasts
	Event   string
	Payload any
}

// MockBroadcaster implements broadcast.Broadcaster for testing
type MockBroadcaster struct {
	// Function fields for customizable behavior
	PublishToFn  func(ctx context.Context, userID uuid.UUID, event string, payload any) error
	PublishAllFn func(ctx context.Context, event string, payload any) error

	// Default errors returned when functions aren't explicitly defined
	PublishToErr  error
	PublishAllErr error

	mu sync.Mutex

	// Call tracking for verification
	TargetedPublishes []Publish
	GlobalPublishes   []Publish
}

// PublishTo implements the broadcast.Broadcaster interface
func (m *MockBroadcaster) PublishTo(
	ctx context.Context,
	userID uuid.UUID,
	event string,
	payload any,
) error {
	m.mu.Lock()
	m.TargetedPublishes = append(m.TargetedPublishes, Publish{
		UserID:  userID,
		Event:   event,
		Payload: payload,
	})
	m.mu.Unlock()

	if m.PublishToFn != nil {
		return m.PublishToFn(ctx, userID, event, payload)
	}

	return m.PublishToErr
}

// PublishAll implements the broadcast.Broadcaster interface
func (m *MockBroadcaster) PublishAll(ctx context.Context, event string, payload any) error {
	m.mu.Lock()
	m.GlobalPublishes = append(m.GlobalPublishes, Publish{
		Event:   event,
		Payload: payload,
	})
	m.mu.Unlock()

	if m.PublishAllFn != nil {
		return m.PublishAllFn(ctx, event, payload)
	}

	return m.PublishAllErr
}
