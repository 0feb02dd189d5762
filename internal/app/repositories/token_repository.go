package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/db"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

// TokenRepository handles refresh token database operations
type TokenRepository struct {
	db db.DBTX
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(pool *pgxpool.Pool) *TokenRepository {
	return &TokenRepository{db: pool}
}

// Create stores a refresh token
func (r *TokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	sql, args, err := psql.Insert("refresh_tokens").
		Columns("token", "user_id", "expires_at").
		Values(token.Token, token.UserID, token.ExpiresAt).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create token query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&token.ID, &token.CreatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "refresh_tokens_token_key") {
			logger.Warn().Int64("userID", token.UserID).Msg("Attempted to create duplicate token")
			return apperrors.ErrTokenInvalid
		}
		logger.Error().Err(err).Int64("userID", token.UserID).Msg("Error executing create token query")
		return fmt.Errorf("error creating token: %w", err)
	}
	return nil
}

// GetByValue retrieves a refresh token row. Expiry is left to the caller.
func (r *TokenRepository) GetByValue(ctx context.Context, token string) (*models.RefreshToken, error) {
	row, err := getOne[models.RefreshToken](ctx, r.db, psql.
		Select("id", "token", "user_id", "expires_at", "created_at").
		From("refresh_tokens").
		Where(squirrel.Eq{"token": token}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrTokenNotFound
		}
		return nil, fmt.Errorf("error retrieving token: %w", err)
	}
	return row, nil
}

// Delete removes a refresh token; deleting an unknown token is not an error
func (r *TokenRepository) Delete(ctx context.Context, token string) error {
	if _, err := exec(ctx, r.db, psql.Delete("refresh_tokens").Where(squirrel.Eq{"token": token})); err != nil {
		return fmt.Errorf("error deleting token: %w", err)
	}
	return nil
}

// DeleteAllForUser removes every refresh token of a user
func (r *TokenRepository) DeleteAllForUser(ctx context.Context, userID int64) error {
	if _, err := exec(ctx, r.db, psql.Delete("refresh_tokens").Where(squirrel.Eq{"user_id": userID})); err != nil {
		return fmt.Errorf("error deleting user tokens: %w", err)
	}
	return nil
}

// DeleteExpired removes tokens that expired before now
func (r *TokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := exec(ctx, r.db, psql.Delete("refresh_tokens").Where(squirrel.LtOrEq{"expires_at": now}))
	if err != nil {
		logger.Error().Err(err).Msg("Error executing cleanup tokens query")
		return 0, fmt.Errorf("error cleaning up tokens: %w", err)
	}
	return n, nil
}
