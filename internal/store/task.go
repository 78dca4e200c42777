package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// TaskUpdate is a partial patch applied to an existing task. Nil fields are
// left unchanged.
type TaskUpdate struct {
	Title        *string
	Description  *string
	DueDate      *time.Time
	Priority     *domain.TaskPriority
	Status       *domain.TaskStatus
	AssignedToID *uuid.UUID
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store and returns it as written.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves all tasks the user created or is assigned to.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update applies the patch to the task identified by id and returns the
	// updated task. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, id uuid.UUID, patch TaskUpdate) (*domain.Task, error)

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}
