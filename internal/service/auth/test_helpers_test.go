package auth

import "github.com/kanbanlab/taskboard-api/internal/config"

// testAuthConfig returns an auth configuration with the given secret and
// short, test-friendly lifetimes.
func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:                secret,
		TokenLifetimeMinutes:     15,
		RefreshTokenLifetimeDays: 30,
	}
}
