package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// CommentStore defines the interface for task comment persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	// Returns validation errors from the domain Comment if data is invalid.
	Create(ctx context.Context, comment *domain.Comment) error

	// GetByID retrieves a comment by its unique ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)

	// ListForTask retrieves all comments on the given task, ordered newest
	// first.
	ListForTask(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)

	// Delete removes a comment from the store by its ID.
	// Returns ErrCommentNotFound if the comment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
