package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/avitali/borsellino/internal/logger"
)

// sessionRowID pins the session table to a single row: the client holds at
// most one bearer token at a time.
const sessionRowID = 1

type tokenRepository struct {
	*DB
	logger *logger.Logger
}

func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	return &tokenRepository{
		DB:     db,
		logger: logger,
	}
}

func (r *tokenRepository) Get(ctx context.Context) (string, error) {
	query, args, err := sq.Select("token").
		From("session").
		Where(sq.Eq{"id": sessionRowID}).
		ToSql()
	if err != nil {
		return "", fmt.Errorf("build session select: %w", err)
	}

	var token string
	err = r.DB.QueryRowContext(ctx, query, args...).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		r.logger.Err(err).
			Str("func", "tokenRepository.Get").
			Msg("failed to query stored session token")
		return "", fmt.Errorf("failed to query session token: %w", err)
	}

	return token, nil
}

func (r *tokenRepository) Set(ctx context.Context, token string) error {
	query, args, err := sq.Insert("session").
		Columns("id", "token", "updated_at").
		Values(sessionRowID, token, time.Now().UTC()).
		Suffix("ON CONFLICT(id) DO UPDATE SET token = excluded.token, updated_at = excluded.updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build session upsert: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "tokenRepository.Set").
			Msg("failed to persist session token")
		return fmt.Errorf("failed to save session token: %w", err)
	}

	return nil
}

func (r *tokenRepository) Clear(ctx context.Context) error {
	query, args, err := sq.Delete("session").
		Where(sq.Eq{"id": sessionRowID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build session delete: %w", err)
	}

	if _, err = r.DB.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).
			Str("func", "tokenRepository.Clear").
			Msg("failed to clear session token")
		return fmt.Errorf("failed to clear session token: %w", err)
	}

	return nil
}
