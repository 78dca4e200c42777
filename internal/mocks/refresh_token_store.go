package mocks

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// MockRefreshTokenStore implements store.RefreshTokenStore for testing.
// The default implementation is an in-memory map keyed by token value,
// guarded by a mutex so rotation races can be exercised concurrently.
type MockRefreshTokenStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, token *domain.RefreshToken) error
	GetByTokenFn    func(ctx context.Context, token string) (*domain.RefreshToken, error)
	DeleteFn        func(ctx context.Context, token string, userID uuid.UUID) (int64, error)
	DeleteForUserFn func(ctx context.Context, userID uuid.UUID) error

	mu     sync.Mutex
	Tokens map[string]*domain.RefreshToken

	CreateError error
	DeleteError error
}

// NewMockRefreshTokenStore creates a new mock store with initialized defaults
func NewMockRefreshTokenStore() *MockRefreshTokenStore {
	return &MockRefreshTokenStore{
		Tokens: make(map[string]*domain.RefreshToken),
	}
}

// Create implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, token)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Tokens[token.Token]; exists {
		return store.ErrRefreshTokenExists
	}

	m.Tokens[token.Token] = token
	return nil
}

// GetByToken implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) GetByToken(
	ctx context.Context,
	token string,
) (*domain.RefreshToken, error) {
	if m.GetByTokenFn != nil {
		return m.GetByTokenFn(ctx, token)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.Tokens[token]
	if !exists {
		return nil, store.ErrRefreshTokenNotFound
	}

	return record, nil
}

// Delete implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) Delete(
	ctx context.Context,
	token string,
	userID uuid.UUID,
) (int64, error) {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, token, userID)
	}

	if m.DeleteError != nil {
		return 0, m.DeleteError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	record, exists := m.Tokens[token]
	if !exists {
		return 0, nil
	}
	if userID != uuid.Nil && record.UserID != userID {
		return 0, nil
	}

	delete(m.Tokens, token)
	return 1, nil
}

// DeleteForUser implements the RefreshTokenStore interface
func (m *MockRefreshTokenStore) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	if m.DeleteForUserFn != nil {
		return m.DeleteForUserFn(ctx, userID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for value, record := range m.Tokens {
		if record.UserID == userID {
			delete(m.Tokens, value)
		}
	}

	return nil
}
