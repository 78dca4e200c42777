package mocks

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// MockCommentStore implements store.CommentStore for testing
type MockCommentStore struct {
	// Function fields for customizable behavior
	CreateFn      func(ctx context.Context, comment *domain.Comment) error
	GetByIDFn     func(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
	ListForTaskFn func(ctx context.Context, taskID uuid.UUID) ([]*domain.Comment, error)
	DeleteFn      func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation
	Comments    []*domain.Comment
	CreateError error
}

// NewMockCommentStore creates a new mock store with initialized defaults
func NewMockCommentStore() *MockCommentStore {
	return &MockCommentStore{}
}

// Create implements the CommentStore interface
func (m *MockCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, comment)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.Comments = append(m.Comments, comment)
	return nil
}

// GetByID implements the CommentStore interface
func (m *MockCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	for _, comment := range m.Comments {
		if comment.ID == id {
			return comment, nil
		}
	}

	return nil, store.ErrCommentNotFound
}

// ListForTask implements the CommentStore interface
func (m *MockCommentStore) ListForTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Comment, error) {
	if m.ListForTaskFn != nil {
		return m.ListForTaskFn(ctx, taskID)
	}

	var comments []*domain.Comment
	for _, comment := range m.Comments {
		if comment.TaskID == taskID {
			comments = append(comments, comment)
		}
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.After(comments[j].CreatedAt)
	})

	return comments, nil
}

// Delete implements the CommentStore interface
func (m *MockCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	for i, comment := range m.Comments {
		if comment.ID == id {
			m.Comments = append(m.Comments[:i], m.Comments[i+1:]...)
			return nil
		}
	}

	return store.ErrCommentNotFound
}
