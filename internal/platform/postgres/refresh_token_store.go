package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/kanbanlab/taskboard-api/internal/domain"
	"github.com/kanbanlab/taskboard-api/internal/store"
)

// PostgresRefreshTokenStore implements the store.RefreshTokenStore interface
// using PostgreSQL. The token value is the primary key, which is the unique
// constraint rotation relies on for replay detection.
type PostgresRefreshTokenStore struct {
	db store.DBTX
}

// Ensure PostgresRefreshTokenStore implements store.RefreshTokenStore interface
var _ store.RefreshTokenStore = (*PostgresRefreshTokenStore)(nil)

// NewPostgresRefreshTokenStore creates a new PostgresRefreshTokenStore.
func NewPostgresRefreshTokenStore(db store.DBTX) *PostgresRefreshTokenStore {
	return &PostgresRefreshTokenStore{
		db: db,
	}
}

// Create implements store.RefreshTokenStore.Create.
func (s *PostgresRefreshTokenStore) Create(ctx context.Context, token *domain.RefreshToken) error {
	if err := token.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO refresh_tokens (token, user_id, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := s.db.ExecContext(ctx, query,
		token.Token,
		token.UserID,
		token.CreatedAt,
		token.ExpiresAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return store.ErrRefreshTokenExists
		}
		return MapError(err)
	}

	return nil
}

// GetByToken implements store.RefreshTokenStore.GetByToken.
func (s *PostgresRefreshTokenStore) GetByToken(
	ctx context.Context,
	token string,
) (*domain.RefreshToken, error) {
	query := `
		SELECT token, user_id, created_at, expires_at
		FROM refresh_tokens
		WHERE token = $1
	`
	var rt domain.RefreshToken
	err := s.db.QueryRowContext(ctx, query, token).Scan(
		&rt.Token,
		&rt.UserID,
		&rt.CreatedAt,
		&rt.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrRefreshTokenNotFound
		}
		return nil, MapError(err)
	}

	return &rt, nil
}

// Delete implements store.RefreshTokenStore.Delete. A uuid.Nil userID
// deletes by token value alone; otherwise the delete is scoped to the token
// owner. The affected-row count is returned so callers can distinguish a
// real delete from a no-op.
func (s *PostgresRefreshTokenStore) Delete(
	ctx context.Context,
	token string,
	userID uuid.UUID,
) (int64, error) {
	var (
		result sql.Result
		err    error
	)
	if userID == uuid.Nil {
		result, err = s.db.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE token = $1`, token)
	} else {
		result, err = s.db.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE token = $1 AND user_id = $2`, token, userID)
	}
	if err != nil {
		return 0, MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, MapError(err)
	}

	return affected, nil
}

// DeleteForUser implements store.RefreshTokenStore.DeleteForUser.
func (s *PostgresRefreshTokenStore) DeleteForUser(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	if err != nil {
		return MapError(err)
	}
	return nil
}
