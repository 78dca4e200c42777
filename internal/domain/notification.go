package domain

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Notification type tags emitted by the task pipeline.
const (
	NotificationTaskAssigned = "taskAssigned"
)

// Notification validation errors
var (
	ErrEmptyNotificationID   = fmt.Errorf("%w: notification ID cannot be empty", ErrValidation)
	ErrEmptyRecipientID      = fmt.Errorf("%w: notification recipient ID cannot be empty", ErrValidation)
	ErrEmptyNotificationType = fmt.Errorf("%w: notification type cannot be empty", ErrValidation)
)

// Notification is a durable record of something that happened to a user:
// a task was assigned, a comment was left, and so on. It is created as a
// side effect of a domain mutation and only ever mutated by marking it read.
type Notification struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	ActorID   *uuid.UUID      `json:"actor_id,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewNotification creates a Notification for userID with the given type tag
// and payload. actorID may be uuid.Nil when no acting user applies.
func NewNotification(
	userID uuid.UUID,
	notifType string,
	payload json.RawMessage,
	actorID uuid.UUID,
) (*Notification, error) {
	n := &Notification{
		ID:        uuid.New(),
		UserID:    userID,
		Type:      notifType,
		Payload:   payload,
		Read:      false,
		CreatedAt: time.Now().UTC(),
	}

	if actorID != uuid.Nil {
		n.ActorID = &actorID
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks if the Notification has valid data.
func (n *Notification) Validate() error {
	if n.ID == uuid.Nil {
		return ErrEmptyNotificationID
	}

	if n.UserID == uuid.Nil {
		return ErrEmptyRecipientID
	}

	if n.Type == "" {
		return ErrEmptyNotificationType
	}

	return nil
}
