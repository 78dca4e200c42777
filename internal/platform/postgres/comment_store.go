package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface using
// PostgreSQL.
type PostgresCommentStore struct {
	db store.DBTX
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// NewPostgresCommentStore creates a new PostgresCommentStore.
func NewPostgresCommentStore(db store.DBTX) *PostgresCommentStore {
	return &PostgresCommentStore{
		db: db,
	}
}

// Create implements store.CommentStore.Create.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO comments (id, task_id, user_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query,
		comment.ID,
		comment.TaskID,
		comment.UserID,
		comment.Content,
		comment.CreatedAt,
	)
	if err != nil {
		return MapError(err)
	}

	return nil
}

// GetByID implements store.CommentStore.GetByID.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error) {
	query := `
		SELECT id, task_id, user_id, content, created_at
		FROM comments
		WHERE id = $1
	`
	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCommentNotFound
		}
		return nil, MapError(err)
	}

	return comment, nil
}

// ListForTask implements store.CommentStore.ListForTask. Results are ordered
// newest first.
func (s *PostgresCommentStore) ListForTask(
	ctx context.Context,
	taskID uuid.UUID,
) ([]*domain.Comment, error) {
	query := `
		SELECT id, task_id, user_id, content, created_at
		FROM comments
		WHERE task_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	comments := make([]*domain.Comment, 0)
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, MapError(err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return comments, nil
}

// Delete implements store.CommentStore.Delete.
func (s *PostgresCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrCommentNotFound)
}

// scanComment reads one comment row.
func scanComment(row rowScanner) (*domain.Comment, error) {
	var comment domain.Comment
	err := row.Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.UserID,
		&comment.Content,
		&comment.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &comment, nil
}
