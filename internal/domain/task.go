package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency of a task.
type TaskPriority string

// Valid task priorities.
const (
	PriorityLow    TaskPriority = "Low"
	PriorityMedium TaskPriority = "Medium"
	PriorityHigh   TaskPriority = "High"
	PriorityUrgent TaskPriority = "Urgent"
)

// TaskStatus represents where a task sits on the board.
type TaskStatus string

// Valid task statuses.
const (
	StatusToDo       TaskStatus = "To_Do"
	StatusInProgress TaskStatus = "In_Progress"
	StatusReview     TaskStatus = "Review"
	StatusCompleted  TaskStatus = "Completed"
)

// Task validation errors
var (
	ErrEmptyTaskID       = fmt.Errorf("%w: task ID cannot be empty", ErrValidation)
	ErrEmptyTaskTitle    = fmt.Errorf("%w: task title cannot be empty", ErrValidation)
	ErrTaskTitleTooLong  = fmt.Errorf("%w: task title cannot exceed 100 characters", ErrValidation)
	ErrEmptyCreatorID    = fmt.Errorf("%w: task creator ID cannot be empty", ErrValidation)
	ErrInvalidPriority   = fmt.Errorf("%w: invalid task priority", ErrValidation)
	ErrInvalidTaskStatus = fmt.Errorf("%w: invalid task status", ErrValidation)
)

// Task represents a tracked unit of work on the board. Every task has a
// creator; the assignee defaults to the creator when none is given.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	DueDate      time.Time    `json:"due_date"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	CreatorID    uuid.UUID    `json:"creator_id"`
	AssignedToID uuid.UUID    `json:"assigned_to_id"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Comments is populated on reads that load the task's comments,
	// newest first. Task writes never touch it.
	Comments []*Comment `json:"comments,omitempty"`
}

// NewTask creates a new Task owned by creatorID. Status starts at To_Do.
// If assignedTo is the zero UUID the assignee defaults to the creator.
func NewTask(
	title, description string,
	dueDate time.Time,
	priority TaskPriority,
	creatorID, assignedTo uuid.UUID,
) (*Task, error) {
	if assignedTo == uuid.Nil {
		assignedTo = creatorID
	}

	now := time.Now().UTC()
	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       StatusToDo,
		CreatorID:    creatorID,
		AssignedToID: assignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > 100 {
		return ErrTaskTitleTooLong
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyCreatorID
	}

	if !t.Priority.Valid() {
		return ErrInvalidPriority
	}

	if !t.Status.Valid() {
		return ErrInvalidTaskStatus
	}

	return nil
}

// Valid reports whether p is one of the known priorities.
func (p TaskPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusToDo, StatusInProgress, StatusReview, StatusCompleted:
		return true
	}
	return false
}
