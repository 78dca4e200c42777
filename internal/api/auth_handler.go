package api

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api/middleware"
	"github.com/kanbanlab/taskboard-api/internal/api/shared"
	"github.com/kanbanlab/taskboard-api/internal/config"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/platform/logger"
	"github.com/kanbanlab/taskboard-api/internal/redact"
	"github.com/kanbanlab/taskboard-api/internal/service/auth"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// AuthHandler handles authentication-related API requests: registration,
// login, token refresh, and logout. Token pairs travel as HttpOnly cookies.
type AuthHandler struct {
	userStore        store.UserStore
	jwtService       auth.JWTService
	refreshService   *auth.RefreshTokenService
	passwordVerifier auth.PasswordVerifier
	cfg              *config.Config
	validator        *validator.Validate
	timeFunc         func() time.Time // Injectable for testing
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userStore store.UserStore,
	jwtService auth.JWTService,
	refreshService *auth.RefreshTokenService,
	passwordVerifier auth.PasswordVerifier,
	cfg *config.Config,
) *AuthHandler {
	return &AuthHandler{
		userStore:        userStore,
		jwtService:       jwtService,
		refreshService:   refreshService,
		passwordVerifier: passwordVerifier,
		cfg:              cfg,
		validator:        validator.New(),
		timeFunc:         time.Now,
	}
}

// accessTTL is the configured access token lifetime, mirrored into the
// access cookie's max-age.
func (h *AuthHandler) accessTTL() time.Duration {
	return time.Duration(h.cfg.Auth.TokenLifetimeMinutes) * time.Minute
}

// startSession issues a token pair for userID and writes the cookies,
// responding with a 500 and returning false if issuance fails.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uuid.UUID) bool {
	accessToken, err := h.jwtService.GenerateAccessToken(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return false
	}

	refreshToken, err := h.refreshService.Issue(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to generate authentication token", err)
		return false
	}

	setTokenCookies(w, accessToken, h.accessTTL(),
		refreshToken.Token, refreshToken.ExpiresAt, h.cfg.Server.IsProduction())
	return true
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := domain.NewUser(req.Email, req.Name, req.Password)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user data: "+err.Error())
		return
	}

	if err := h.userStore.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			shared.RespondWithError(w, r, http.StatusConflict, "Email already exists")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Registration failed", err)
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, AuthResponse{User: newUserResponse(user)})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Login failed", err)
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	if !h.startSession(w, r, user.ID) {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{User: newUserResponse(user)})
}

// Refresh handles POST /api/auth/refresh: validates the cookie-carried
// refresh token against its stored record, rotates it, and issues a new
// token pair. Any terminal-state token (rotated, revoked, expired, never
// issued) is rejected with 403 and the client must log in again.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Refresh token required")
		return
	}

	record, err := h.refreshService.Find(r.Context(), cookie.Value)
	if err != nil {
		if errors.Is(err, store.ErrRefreshTokenNotFound) {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid refresh token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Refresh failed", err)
		return
	}

	if record.IsExpired(h.timeFunc()) {
		shared.RespondWithError(w, r, http.StatusForbidden, "Invalid refresh token")
		return
	}

	rotated, err := h.refreshService.Rotate(r.Context(), cookie.Value, record.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefreshToken) {
			shared.RespondWithError(w, r, http.StatusForbidden, "Invalid refresh token")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Refresh failed", err)
		return
	}

	accessToken, err := h.jwtService.GenerateAccessToken(r.Context(), record.UserID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Refresh failed", err)
		return
	}

	setTokenCookies(w, accessToken, h.accessTTL(),
		rotated.Token, rotated.ExpiresAt, h.cfg.Server.IsProduction())

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshResponse{UserID: record.UserID})
}

// Logout handles POST /api/auth/logout: revokes the refresh token (a no-op
// when none is presented or it is already gone) and clears both cookies.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.refreshService.Revoke(r.Context(), cookie.Value); err != nil {
			// Revocation failure still clears cookies; the record expires on
			// its own.
			logger.FromContextOrDefault(r.Context(), nil).Error("failed to revoke refresh token on logout",
				slog.String("error", redact.Error(err)))
		}
	}

	clearTokenCookies(w, h.cfg.Server.IsProduction())
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}

// Me handles GET /api/auth/me for the authenticated user.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to get user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// UpdateMe handles PUT /api/auth/me: updates the authenticated user's
// profile fields.
func (h *AuthHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	var req UpdateMeRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	user, err := h.userStore.GetByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update user", err)
		return
	}

	user.Name = req.Name
	if err := h.userStore.Update(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update user", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newUserResponse(user))
}

// DeleteMe handles DELETE /api/auth/me: ends every session, deletes the
// account, and clears the cookies. The user's tasks, comments, and
// notifications go with the user row via foreign key cascades.
func (h *AuthHandler) DeleteMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	if err := h.refreshService.RevokeAll(r.Context(), userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete user", err)
		return
	}

	if err := h.userStore.Delete(r.Context(), userID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "User not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to delete user", err)
		return
	}

	clearTokenCookies(w, h.cfg.Server.IsProduction())
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"ok": true})
}
