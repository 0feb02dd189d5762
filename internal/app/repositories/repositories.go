package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/hireboard/internal/db"
)

// psql builds PostgreSQL statements with $n placeholders
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Repositories holds all the repository instances
type Repositories struct {
	Users        *UserRepository
	Tokens       *TokenRepository
	Companies    *CompanyRepository
	Jobs         *JobRepository
	Applications *ApplicationRepository
	Chats        *ChatRepository
	Messages     *MessageRepository
	Communities  *CommunityRepository
	Stats        *StatsRepository
}

// NewRepositories initializes all repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	return &Repositories{
		Users:        NewUserRepository(database.Pool),
		Tokens:       NewTokenRepository(database.Pool),
		Companies:    NewCompanyRepository(database.Pool),
		Jobs:         NewJobRepository(database.Pool),
		Applications: NewApplicationRepository(database.Pool),
		Chats:        NewChatRepository(database),
		Messages:     NewMessageRepository(database.Pool),
		Communities:  NewCommunityRepository(database),
		Stats:        NewStatsRepository(database.Pool),
	}
}

// getOne runs a query expected to return one row and maps it onto T by db tags.
// pgx.ErrNoRows is returned unchanged so callers can translate it.
func getOne[T any](ctx context.Context, q db.DBTX, b squirrel.Sqlizer) (*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[T])
}

// getAll runs a query and maps every row onto T by db tags.
func getAll[T any](ctx context.Context, q db.DBTX, b squirrel.Sqlizer) ([]*T, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	items, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[T])
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*T{}
	}
	return items, nil
}

// exec runs a statement and returns the number of affected rows.
func exec(ctx context.Context, q db.DBTX, b squirrel.Sqlizer) (int64, error) {
	sql, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build statement: %w", err)
	}
	tag, err := q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// scalar runs a query returning a single value.
func scalar[T any](ctx context.Context, q db.DBTX, b squirrel.Sqlizer) (T, error) {
	var v T
	sql, args, err := b.ToSql()
	if err != nil {
		return v, fmt.Errorf("failed to build query: %w", err)
	}
	err = q.QueryRow(ctx, sql, args...).Scan(&v)
	return v, err
}

func idsOf[T any](items []*T, id func(*T) int64) []int64 {
	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		v := id(item)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		ids = append(ids, v)
	}
	return ids
}
