package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/api"
	apiMiddleware "github.com/kanbanlab/taskboard-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. It accepts the application dependencies to create handlers
// and register routes. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(
		app.userStore,
		app.jwtService,
		app.refreshService,
		app.passwordVerifier,
		app.config,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.taskStore, app.commentStore)
	notificationHandler := api.NewNotificationHandler(app.notificationStore)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	// Register routes
	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/logout", authHandler.Logout)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Get("/auth/me", authHandler.Me)
			r.Put("/auth/me", authHandler.UpdateMe)
			r.Delete("/auth/me", authHandler.DeleteMe)

			// Task endpoints
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)

			// Comment endpoints
			r.Post("/tasks/{id}/comments", taskHandler.CreateComment)
			r.Delete("/tasks/{id}/comments/{commentId}", taskHandler.DeleteComment)

			// Notification endpoints
			r.Get("/notifications", notificationHandler.List)
			r.Post("/notifications/{id}/read", notificationHandler.MarkRead)

			// Real-time channel
			r.Get("/ws", app.wsHandler.ServeHTTP)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte("OK"))
		if err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}

// wsIdentity resolves the websocket identity from the request context. The
// websocket route is registered behind the auth middleware, so by the time a
// connection reaches the handler the identity has already been verified.
func wsIdentity(r *http.Request) (uuid.UUID, bool) {
	return apiMiddleware.GetUserID(r)
}
