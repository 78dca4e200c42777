package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using PostgreSQL.
type PostgresNotificationStore struct {
	db store.DBTX
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// NewPostgresNotificationStore creates a new PostgresNotificationStore.
func NewPostgresNotificationStore(db store.DBTX) *PostgresNotificationStore {
	return &PostgresNotificationStore{
		db: db,
	}
}

// Create implements store.NotificationStore.Create.
func (s *PostgresNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if err := notification.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, user_id, type, payload, actor_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		notification.ID,
		notification.UserID,
		notification.Type,
		[]byte(notification.Payload),
		notification.ActorID,
		notification.Read,
		notification.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// ListForUser implements store.NotificationStore.ListForUser. Results are
// ordered newest first.
func (s *PostgresNotificationStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Notification, error) {
	query := `
		SELECT id, user_id, type, payload, actor_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	notifications := make([]*domain.Notification, 0)
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, MapError(err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return notifications, nil
}

// MarkRead implements store.NotificationStore.MarkRead.
func (s *PostgresNotificationStore) MarkRead(
	ctx context.Context,
	id uuid.UUID,
) (*domain.Notification, error) {
	query := `
		UPDATE notifications
		SET read = TRUE
		WHERE id = $1
		RETURNING id, user_id, type, payload, actor_id, read, created_at
	`
	n, err := scanNotification(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotificationNotFound
		}
		return nil, MapError(err)
	}

	return n, nil
}

// scanNotification reads one notification row.
func scanNotification(row rowScanner) (*domain.Notification, error) {
	var (
		n       domain.Notification
		payload []byte
		actorID uuid.NullUUID
	)
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Type,
		&payload,
		&actorID,
		&n.Read,
		&n.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	n.Payload = payload
	if actorID.Valid {
		n.ActorID = &actorID.UUID
	}

	return &n, nil
}
