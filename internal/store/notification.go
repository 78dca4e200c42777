package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	// Returns validation errors from the domain Notification if data is invalid.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListForUser retrieves all notifications for the given recipient,
	// ordered newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Notification, error)

	// MarkRead sets the read flag on the notification with the given ID.
	// Returns ErrNotificationNotFound if the notification does not exist.
	MarkRead(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}
