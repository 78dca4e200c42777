package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// MockNotificationStore implements store.NotificationStore for testing
type MockNotificationStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, notification *domain.Notification) error
	ListForUserFn func(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)
	MarkReadFn    func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)

	// Data for default implementation
	Notifications []*domain.Notification
	CreateError   error
}

// NewMockNotificationStore creates a new mock store with initialized defaults
func NewMockNotificationStore() *MockNotificationStore {
	return &MockNotificationStore{}
}

// Create implements the NotificationStore interface
func (m *MockNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, notification)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Notifications = append(m.Notifications, notification)
	return nil
}

// ListForUser implements the NotificationStore interface
func (m *MockNotificationStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	if m.ListForUserFn != nil {
		return m.ListForUserFn(ctx, userID)
	}

	var notifications []*domain.Notification
	for _, n := range m.Notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}

	sort.Slice(notifications, func(i, j int) bool {
		return notifications[i].CreatedAt.After(notifications[j].CreatedAt)
	})

	return notifications, nil
}

// MarkRead implements the NotificationStore interface
func (m *MockNotificationStore) MarkRead(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Notification, error) {
	if m.MarkReadFn != nil {
		return m.MarkReadFn(ctx, id)
	}

	for _, n := range m.Notifications {
		if n.ID == id {
			n.Read = true
			return n, nil
		}
	}

	return nil, store.ErrNotificationNotFound
}
