package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewRefreshToken(t *testing.T) {
	userID := uuid.New()
	ttl := 30 * 24 * time.Hour

	rt, err := NewRefreshToken("opaque-token-value", userID, ttl)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if rt.UserID != userID {
		t.Errorf("Expected owner %s, got %s", userID, rt.UserID)
	}

	if got := rt.ExpiresAt.Sub(rt.CreatedAt); got != ttl {
		t.Errorf("Expected lifetime %v, got %v", ttl, got)
	}
}

func TestNewRefreshTokenValidation(t *testing.T) {
	_, err := NewRefreshToken("", uuid.New(), time.Hour)
	if !errors.Is(err, ErrEmptyTokenValue) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTokenValue, err)
	}

	_, err = NewRefreshToken("opaque-token-value", uuid.Nil, time.Hour)
	if !errors.Is(err, ErrEmptyTokenOwner) {
		t.Errorf("Expected error %v, got %v", ErrEmptyTokenOwner, err)
	}
}

func TestRefreshTokenIsExpired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	rt := RefreshToken{
		Token:     "opaque-token-value",
		UserID:    uuid.New(),
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}

	if rt.IsExpired(now) {
		t.Error("Expected fresh token to not be expired")
	}

	if rt.IsExpired(rt.ExpiresAt.Add(-time.Nanosecond)) {
		t.Error("Expected token to be valid just before expiry")
	}

	if !rt.IsExpired(rt.ExpiresAt) {
		t.Error("Expected token to be expired exactly at expiry")
	}

	if !rt.IsExpired(rt.ExpiresAt.Add(time.Hour)) {
		t.Error("Expected token to be expired after expiry")
	}
}

func TestRefreshTokenValueNeverSerialized(t *testing.T) {
	rt := RefreshToken{
		Token:     "opaque-token-value",
		UserID:    uuid.New(),
		CreatedAt: time.Now().UTC(),
		ExpiresAt: time.Now().UTC().Add(time.Hour),
	}

	data, err := json.Marshal(rt)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if strings.Contains(string(data), "opaque-token-value") {
		t.Errorf("Expected token value to be excluded from JSON, got %s", data)
	}
}
