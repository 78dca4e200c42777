package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/service/auth"
)

// MockJWTService implements auth.JWTService for testing
type MockJWTService struct {
	// GenerateAccessTokenFn allows test cases to mock the GenerateAccessToken behavior
	GenerateAccessTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateAccessTokenFn allows test cases to mock the ValidateAccessToken behavior
	ValidateAccessTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)

	// Default values used when functions aren't explicitly defined
	Token       string
	Err         error
	ValidateErr error
	Claims      *auth.Claims
}

// GenerateAccessToken implements the auth.JWTService interface
func (m *MockJWTService) GenerateAccessToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.GenerateAccessTokenFn != nil {
		return m.GenerateAccessTokenFn(ctx, userID)
	}

	return m.Token, m.Err
}

// ValidateAccessToken implements the auth.JWTService interface
func (m *MockJWTService) ValidateAccessToken(
	ctx context.Context,
	tokenString string,
) (*auth.Claims, error) {
	if m.ValidateAccessTokenFn != nil {
		return m.ValidateAccessTokenFn(ctx, tokenString)
	}

	return m.Claims, m.ValidateErr
}
