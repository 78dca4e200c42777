package api

import (
	"net/http"
	"time"

	"github.com/kanbanlab/taskboard-api/internal/api/shared"
)

// Cookie names for token transport, aliased from the shared package so the
// auth middleware's cookie fallback reads the same names this file writes.
const (
	// AccessTokenCookie carries the short-lived access token.
	AccessTokenCookie = shared.AccessTokenCookie

	// RefreshTokenCookie carries the opaque refresh token.
	RefreshTokenCookie = shared.RefreshTokenCookie
)

// setTokenCookies writes both token cookies: HttpOnly, SameSite=Lax, Secure
// in production. Max-age matches each token's lifetime.
func setTokenCookies(
	w http.ResponseWriter,
	accessToken string,
	accessTTL time.Duration,
	refreshToken string,
	refreshExpiresAt time.Time,
	secure bool,
) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   int(accessTTL.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   int(time.Until(refreshExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearTokenCookies expires both token cookies.
func clearTokenCookies(w http.ResponseWriter, secure bool) {
	for _, name := range []string{AccessTokenCookie, RefreshTokenCookie} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
	}
}
