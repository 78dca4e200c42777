package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Name     string `json:"name"     validate:"required,min=1"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// UpdateMeRequest defines the payload for updating the authenticated user's
// profile. Email and password are not updatable through this endpoint.
type UpdateMeRequest struct {
	Name string `json:"name" validate:"required,min=1"`
}

// CreateCommentRequest defines the payload for commenting on a task.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required,min=1"`
}

// UserResponse is the public view of a user returned by auth endpoints.
type UserResponse struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// AuthResponse defines the successful response for authentication endpoints.
// Tokens travel in HttpOnly cookies, not the body.
type AuthResponse struct {
	User UserResponse `json:"user"`
}

// RefreshResponse defines the successful response for the token refresh
// endpoint.
type RefreshResponse struct {
	UserID uuid.UUID `json:"userId"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	Title        string     `json:"title"        validate:"required,max=100"`
	Description  string     `json:"description"`
	DueDate      time.Time  `json:"due_date"     validate:"required"`
	Priority     string     `json:"priority"     validate:"required,oneof=Low Medium High Urgent"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
}

// UpdateTaskRequest defines the payload for patching a task. All fields are
// optional; absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title        *string    `json:"title,omitempty"        validate:"omitempty,max=100"`
	Description  *string    `json:"description,omitempty"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	Priority     *string    `json:"priority,omitempty"     validate:"omitempty,oneof=Low Medium High Urgent"`
	Status       *string    `json:"status,omitempty"       validate:"omitempty,oneof=To_Do In_Progress Review Completed"`
	AssignedToID *uuid.UUID `json:"assigned_to_id,omitempty"`
}

// NotificationResponse is the wire form of a notification.
type NotificationResponse struct {
	ID        uuid.UUID  `json:"id"`
	Type      string     `json:"type"`
	Payload   any        `json:"payload"`
	ActorID   *uuid.UUID `json:"actor_id,omitempty"`
	Read      bool       `json:"read"`
	CreatedAt time.Time  `json:"created_at"`
}

// newUserResponse maps a domain user to its public view.
func newUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
	}
}
