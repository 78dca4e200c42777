package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RefreshToken validation errors
var (
	ErrEmptyTokenValue = fmt.Errorf("%w: refresh token value cannot be empty", ErrValidation)
	ErrEmptyTokenOwner = fmt.Errorf("%w: refresh token owner cannot be empty", ErrValidation)
)

// RefreshToken is the server-side record of an opaque refresh token. The
// token value itself is a high-entropy random secret; the record is keyed by
// that value and bound to exactly one user. Rotation or revocation deletes
// the record, so a value with no record is invalid by definition. Expiry is
// enforced lazily by comparing ExpiresAt against the current time.
type RefreshToken struct {
	Token     string    `json:"-"` // The opaque secret; never serialized
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRefreshToken creates a RefreshToken record binding the given token value
// to userID, expiring after ttl.
func NewRefreshToken(token string, userID uuid.UUID, ttl time.Duration) (*RefreshToken, error) {
	now := time.Now().UTC()
	rt := &RefreshToken{
		Token:     token,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	if err := rt.Validate(); err != nil {
		return nil, err
	}

	return rt, nil
}

// Validate checks if the RefreshToken has valid data.
func (rt *RefreshToken) Validate() error {
	if rt.Token == "" {
		return ErrEmptyTokenValue
	}

	if rt.UserID == uuid.Nil {
		return ErrEmptyTokenOwner
	}

	return nil
}

// IsExpired reports whether the token has passed its expiry at the given time.
func (rt *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(rt.ExpiresAt)
}
