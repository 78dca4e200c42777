package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api/middleware"
	"github.com/kanbanlab/taskboard-api/internal/api/shared"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// NotificationHandler handles notification-related API requests.
type NotificationHandler struct {
	notificationStore store.NotificationStore
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notificationStore store.NotificationStore) *NotificationHandler {
	return &NotificationHandler{notificationStore: notificationStore}
}

// List handles GET /api/notifications for the authenticated user, newest
// first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Access token required")
		return
	}

	notifications, err := h.notificationStore.ListForUser(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list notifications", err)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, newNotificationResponse(n))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// MarkRead handles POST /api/notifications/{id}/read.
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	notificationID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	notification, err := h.notificationStore.MarkRead(r.Context(), notificationID)
	if err != nil {
		if errors.Is(err, store.ErrNotificationNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, "Notification not found")
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to update notification", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, newNotificationResponse(notification))
}

// newNotificationResponse maps a domain notification to its wire form,
// passing the stored payload through untouched.
func newNotificationResponse(n *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Payload:   json.RawMessage(n.Payload),
		ActorID:   n.ActorID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}
