package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for issuing and verifying JWT access tokens.
// Access tokens are short-lived, stateless credentials: validity is decided
// purely by signature and expiry, so they cannot be revoked before they
// expire. The short lifetime bounds that exposure.
type JWTService interface {
	// GenerateAccessToken creates a signed JWT access token for the user.
	// Returns the token string or an error if signing fails.
	GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateAccessToken verifies the token's signature and expiry and
	// extracts the claims. Any verification failure returns ErrInvalidToken;
	// the reason is logged, never returned.
	ValidateAccessToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// UserID is the subject the token was issued for.
	UserID uuid.UUID

	// Standard registered JWT claims
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
