package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/kanbanlab/taskboard-api/internal/broadcast"
	"github.com/kanbanlab/taskboard-api/internal/config"
	"github.com/kanbanlab/taskboard-api/internal/platform/postgres"
	"github.com/kanbanlab/taskboard-api/internal/service"
	"github.com/kanbanlab/taskboard-api/internal/service/auth"
	"github.com/kanbanlab/taskboard-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	// Configuration
	config *config.Config

	// Core services
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore         store.UserStore
	taskStore         store.TaskStore
	commentStore      store.CommentStore
	notificationStore store.NotificationStore
	refreshTokenStore store.RefreshTokenStore

	// Service interfaces
	jwtService       auth.JWTService
	refreshService   *auth.RefreshTokenService
	passwordVerifier auth.PasswordVerifier
	taskService      *service.TaskService

	// Real-time channel
	hub       *broadcast.Hub
	wsHandler *broadcast.WSHandler
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(
	ctx context.Context,
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	// Initialize JWT service
	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	// Initialize password verifier
	app.passwordVerifier = auth.NewBcryptVerifier()

	// Initialize stores
	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost)
	app.taskStore = postgres.NewPostgresTaskStore(db)
	app.commentStore = postgres.NewPostgresCommentStore(db)
	app.notificationStore = postgres.NewPostgresNotificationStore(db)
	app.refreshTokenStore = postgres.NewPostgresRefreshTokenStore(db)

	// Initialize refresh token service
	app.refreshService = auth.NewRefreshTokenService(app.refreshTokenStore, cfg.Auth)
	logger.Info("Refresh token service initialized",
		"refresh_token_lifetime_days", cfg.Auth.RefreshTokenLifetimeDays)

	// Initialize the broadcast hub and its websocket handler. The handler
	// sits behind the auth middleware, so identity resolution is just a
	// context read.
	app.hub = broadcast.NewHub(logger)
	app.wsHandler = broadcast.NewWSHandler(app.hub, wsIdentity, logger)

	// Initialize task service
	app.taskService, err = service.NewTaskService(
		app.taskStore,
		app.notificationStore,
		app.hub,
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	logger.Info("Application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	// Close the hub so pending websocket writers drain and exit
	if app.hub != nil {
		app.hub.Close()
	}

	// Close database connection
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("Error closing database connection", "error", err)
		}
	}

	app.logger.Info("Application shutdown completed")
}
