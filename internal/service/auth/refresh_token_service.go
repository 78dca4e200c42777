package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/config"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/platform/logger"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// refreshTokenBytes is the entropy of a refresh token value. 48 random bytes
// hex-encode to a 96-character opaque secret.
const refreshTokenBytes = 48

// RefreshTokenService manages the lifecycle of opaque refresh tokens:
// issuance, lookup, rotation, and revocation. Unlike access tokens, refresh
// tokens are stateful: each active token is a persisted record keyed by the
// token value, and rotation or revocation deletes that record.
type RefreshTokenService struct {
	tokens   store.RefreshTokenStore
	lifetime time.Duration
	timeFunc func() time.Time // Injectable for testing
}

// NewRefreshTokenService creates a RefreshTokenService backed by the given
// refresh token store.
func NewRefreshTokenService(tokens store.RefreshTokenStore, cfg config.AuthConfig) *RefreshTokenService {
	return &RefreshTokenService{
		tokens:   tokens,
		lifetime: time.Duration(cfg.RefreshTokenLifetimeDays) * 24 * time.Hour,
		timeFunc: time.Now,
	}
}

// Issue generates a cryptographically random token value, persists it with
// the configured expiry, and returns the record.
func (s *RefreshTokenService) Issue(ctx context.Context, userID uuid.UUID) (*domain.RefreshToken, error) {
	value, err := generateTokenValue()
	if err != nil {
		return nil, err
	}

	now := s.timeFunc().UTC()
	token := &domain.RefreshToken{
		Token:     value,
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.lifetime),
	}
	if err := token.Validate(); err != nil {
		return nil, err
	}

	if err := s.tokens.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return token, nil
}

// Find looks up the record for the given token value. It is a pure lookup:
// expiry is the caller's concern, checked against the record's ExpiresAt.
// Returns store.ErrRefreshTokenNotFound when no active record exists.
func (s *RefreshTokenService) Find(ctx context.Context, token string) (*domain.RefreshToken, error) {
	return s.tokens.GetByToken(ctx, token)
}

// Rotate invalidates the old token record for the given user and issues a
// new one. The delete and insert are not a single transaction; the unique
// constraint on token values keeps concurrent rotations of the same value
// from both succeeding. A rotation whose delete removed nothing lost that
// race (or presented a terminal token) and is rejected as
// ErrInvalidRefreshToken.
func (s *RefreshTokenService) Rotate(
	ctx context.Context,
	oldToken string,
	userID uuid.UUID,
) (*domain.RefreshToken, error) {
	log := logger.FromContext(ctx)

	deleted, err := s.tokens.Delete(ctx, oldToken, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to invalidate old refresh token: %w", err)
	}
	if deleted == 0 {
		log.Warn("refresh token rotation replay detected",
			"user_id", userID)
		return nil, ErrInvalidRefreshToken
	}

	token, err := s.Issue(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenExists) {
			// Astronomically unlikely for fresh entropy; treat as replay.
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	return token, nil
}

// Revoke deletes the record for the given token value. Revoking a token that
// no longer exists is a no-op, so revocation is idempotent.
func (s *RefreshTokenService) Revoke(ctx context.Context, token string) error {
	if _, err := s.tokens.Delete(ctx, token, uuid.Nil); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// RevokeAll deletes every refresh token record belonging to the user,
// ending all of their sessions at once. Used on account deletion.
func (s *RefreshTokenService) RevokeAll(ctx context.Context, userID uuid.UUID) error {
	if err := s.tokens.DeleteForUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return nil
}

// generateTokenValue reads refreshTokenBytes from crypto/rand and returns the
// hex encoding. A general-purpose PRNG is not acceptable here.
func generateTokenValue() (string, error) {
	b := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
