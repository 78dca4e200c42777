package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenStore is an in-memory store.RefreshTokenStore with the same
// uniqueness and delete-count semantics as the Postgres implementation.
type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]*domain.RefreshToken

	createErr error
	deleteErr error
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*domain.RefreshToken)}
}

func (s *fakeTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tokens[token.Token]; exists {
		return store.ErrRefreshTokenExists
	}
	s.tokens[token.Token] = token
	return nil
}

func (s *fakeTokenStore) GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, exists := s.tokens[token]
	if !exists {
		return nil, store.ErrRefreshTokenNotFound
	}
	return record, nil
}

func (s *fakeTokenStore) Delete(ctx context.Context, token string, userID uuid.UUID) (int64, error) {
	if s.deleteErr != nil {
		return 0, s.deleteErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	record, exists := s.tokens[token]
	if !exists {
		return 0, nil
	}
	if userID != uuid.Nil && record.UserID != userID {
		return 0, nil
	}
	delete(s.tokens, token)
	return 1, nil
}

func (s *fakeTokenStore) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for value, record := range s.tokens {
		if record.UserID == userID {
			delete(s.tokens, value)
		}
	}
	return nil
}

func newTestRefreshService(tokens store.RefreshTokenStore, now time.Time) *RefreshTokenService {
	svc := NewRefreshTokenService(tokens, testAuthConfig("test-secret-that-is-32-chars-long!!"))
	svc.timeFunc = func() time.Time { return now }
	return svc
}

func TestRefreshTokenIssue(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	tokens := newFakeTokenStore()
	svc := newTestRefreshService(tokens, fixedTime)

	token, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)

	// 48 random bytes hex-encode to 96 characters
	assert.Len(t, token.Token, 96)
	assert.Equal(t, userID, token.UserID)
	assert.Equal(t, fixedTime.Add(30*24*time.Hour), token.ExpiresAt)

	// The record is persisted and findable
	found, err := svc.Find(context.Background(), token.Token)
	require.NoError(t, err)
	assert.Equal(t, token.Token, found.Token)
}

func TestRefreshTokenIssueUniqueValues(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestRefreshService(newFakeTokenStore(), fixedTime)

	first, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)

	assert.NotEqual(t, first.Token, second.Token)
}

func TestRefreshTokenFindUnknown(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := newTestRefreshService(newFakeTokenStore(), fixedTime)

	_, err := svc.Find(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
}

func TestRefreshTokenRotate(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("rotation invalidates the old token", func(t *testing.T) {
		t.Parallel()
		tokens := newFakeTokenStore()
		svc := newTestRefreshService(tokens, fixedTime)

		old, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		rotated, err := svc.Rotate(context.Background(), old.Token, userID)
		require.NoError(t, err)
		assert.NotEqual(t, old.Token, rotated.Token)
		assert.Equal(t, userID, rotated.UserID)

		// The old value is now terminal
		_, err = svc.Find(context.Background(), old.Token)
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
	})

	t.Run("replay of a rotated token is rejected", func(t *testing.T) {
		t.Parallel()
		tokens := newFakeTokenStore()
		svc := newTestRefreshService(tokens, fixedTime)

		old, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		_, err = svc.Rotate(context.Background(), old.Token, userID)
		require.NoError(t, err)

		// Presenting the same value again deletes nothing, which is the
		// replay signal.
		_, err = svc.Rotate(context.Background(), old.Token, userID)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})

	t.Run("rotation scoped to a different user is rejected", func(t *testing.T) {
		t.Parallel()
		tokens := newFakeTokenStore()
		svc := newTestRefreshService(tokens, fixedTime)

		old, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		_, err = svc.Rotate(context.Background(), old.Token, uuid.New())
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)

		// The original token survives a rejected rotation
		_, err = svc.Find(context.Background(), old.Token)
		assert.NoError(t, err)
	})

	t.Run("rotation of an unknown token is rejected", func(t *testing.T) {
		t.Parallel()
		svc := newTestRefreshService(newFakeTokenStore(), fixedTime)

		_, err := svc.Rotate(context.Background(), "never-issued", userID)
		assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	})
}

func TestRefreshTokenRevoke(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("revocation removes the record", func(t *testing.T) {
		t.Parallel()
		tokens := newFakeTokenStore()
		svc := newTestRefreshService(tokens, fixedTime)

		token, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(context.Background(), token.Token))

		_, err = svc.Find(context.Background(), token.Token)
		assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
	})

	t.Run("revocation is idempotent", func(t *testing.T) {
		t.Parallel()
		tokens := newFakeTokenStore()
		svc := newTestRefreshService(tokens, fixedTime)

		token, err := svc.Issue(context.Background(), userID)
		require.NoError(t, err)

		require.NoError(t, svc.Revoke(context.Background(), token.Token))
		assert.NoError(t, svc.Revoke(context.Background(), token.Token))
		assert.NoError(t, svc.Revoke(context.Background(), "never-issued"))
	})
}

func TestRefreshTokenRevokeAll(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	otherID := uuid.New()
	tokens := newFakeTokenStore()
	svc := newTestRefreshService(tokens, fixedTime)

	first, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)
	second, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)
	other, err := svc.Issue(context.Background(), otherID)
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAll(context.Background(), userID))

	_, err = svc.Find(context.Background(), first.Token)
	assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)
	_, err = svc.Find(context.Background(), second.Token)
	assert.ErrorIs(t, err, store.ErrRefreshTokenNotFound)

	// Other users' sessions are untouched
	found, err := svc.Find(context.Background(), other.Token)
	require.NoError(t, err)
	assert.Equal(t, otherID, found.UserID)
}

func TestRefreshTokenExpiry(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := newTestRefreshService(newFakeTokenStore(), fixedTime)

	token, err := svc.Issue(context.Background(), userID)
	require.NoError(t, err)

	assert.False(t, token.IsExpired(fixedTime))
	assert.False(t, token.IsExpired(token.ExpiresAt.Add(-time.Second)))
	// Expiry boundary is inclusive
	assert.True(t, token.IsExpired(token.ExpiresAt))
	assert.True(t, token.IsExpired(token.ExpiresAt.Add(time.Hour)))
}
