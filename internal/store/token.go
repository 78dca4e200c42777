package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// RefreshTokenStore defines the interface for refresh token persistence.
// Records are keyed by the opaque token value; at most one active record
// exists per value, backed by a unique constraint so concurrent rotations
// of the same value cannot both succeed.
type RefreshTokenStore interface {
	// Create persists a new refresh token record.
	// Returns ErrRefreshTokenExists if the token value already exists.
	Create(ctx context.Context, token *domain.RefreshToken) error

	// GetByToken retrieves the record for the given token value.
	// Returns ErrRefreshTokenNotFound if no record exists.
	GetByToken(ctx context.Context, token string) (*domain.RefreshToken, error)

	// Delete removes the record for the given token value, optionally scoped
	// to a user. Deleting a nonexistent record is not an error; the returned
	// count reports how many records were actually removed, which rotation
	// uses to detect a concurrent delete of the same value.
	Delete(ctx context.Context, token string, userID uuid.UUID) (int64, error)

	// DeleteForUser removes all refresh token records belonging to the user.
	// Used on account deletion.
	DeleteForUser(ctx context.Context, userID uuid.UUID) error
}
