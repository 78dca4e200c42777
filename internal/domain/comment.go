package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Comment validation errors
var (
	ErrEmptyCommentID      = fmt.Errorf("%w: comment ID cannot be empty", ErrValidation)
	ErrEmptyCommentTaskID  = fmt.Errorf("%w: comment task ID cannot be empty", ErrValidation)
	ErrEmptyCommentAuthor  = fmt.Errorf("%w: comment author ID cannot be empty", ErrValidation)
	ErrEmptyCommentContent = fmt.Errorf("%w: comment content cannot be empty", ErrValidation)
)

// Comment is a remark a user leaves on a task. Comments are immutable once
// written; the only mutation is deletion, and only by their author.
type Comment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	UserID    uuid.UUID `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewComment creates a Comment on taskID authored by userID.
func NewComment(taskID, userID uuid.UUID, content string) (*Comment, error) {
	comment := &Comment{
		ID:        uuid.New(),
		TaskID:    taskID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the Comment has valid data.
func (c *Comment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}

	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTaskID
	}

	if c.UserID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}

	if c.Content == "" {
		return ErrEmptyCommentContent
	}

	return nil
}
