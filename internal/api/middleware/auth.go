package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api/shared"
	"github.com/kanbanlab/taskboard-api/internal/platform/logger"
	"github.com/kanbanlab/taskboard-api/internal/service/auth"
)

// AccessTokenCookie is the name of the HttpOnly cookie that can carry the
// access token when no Authorization header is present.
const AccessTokenCookie = shared.AccessTokenCookie

// AuthMiddleware is the authentication gate applied to every protected
// request. It resolves an identity from the access token or rejects:
// 401 when no credential was presented at all, 403 when one was presented
// but failed verification. The distinction is deliberate and load-bearing
// for clients deciding whether to attempt a refresh.
type AuthMiddleware struct {
	jwtService auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(jwtService auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
	}
}

// Authenticate validates the request's access token and adds the user ID to
// the request context for authorized requests. The bearer token in the
// Authorization header takes precedence; the accessToken cookie is the
// fallback.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verification failures must never escape as anything but a
		// structured response; an unexpected panic in the gate maps to a
		// generic 500 with no internal detail.
		defer func() {
			if p := recover(); p != nil {
				logger.FromContext(r.Context()).Error("auth middleware panic",
					"panic", p)
				shared.RespondWithError(w, r, http.StatusInternalServerError,
					"Internal authentication error")
			}
		}()

		token := extractToken(r)
		if token == "" {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
			return
		}

		claims, err := m.jwtService.ValidateAccessToken(r.Context(), token)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidToken) {
				shared.RespondWithError(w, r, http.StatusForbidden, "Invalid or expired token")
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
				"Internal authentication error", err)
			return
		}

		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// extractToken pulls the access token from the request: a well-formed
// Authorization bearer header wins, the accessToken cookie is the fallback.
// Returns "" when neither path yields a token.
func extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" && parts[1] != "" {
			return parts[1]
		}
	}

	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}

// GetUserID extracts the authenticated user ID from the request context.
// Returns the user ID and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
