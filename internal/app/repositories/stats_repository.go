package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/db"
)

// StatsRepository aggregates platform counters
type StatsRepository struct {
	db db.DBTX
}

// NewStatsRepository creates a new StatsRepository
func NewStatsRepository(pool *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: pool}
}

func (r *StatsRepository) groupCount(ctx context.Context, table, column string) (map[string]int, error) {
	sql, args, err := psql.Select(column+"::text", "COUNT(*)").From(table).GroupBy(column).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build %s stats query: %w", table, err)
	}
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error counting %s: %w", table, err)
	}
	defer rows.Close()

	counts := map[string]int{}
	total := 0
	for rows.Next() {
		var key string
		var n int
		if err := rows.Scan(&key, &n); err != nil {
			return nil, fmt.Errorf("error scanning %s stats: %w", table, err)
		}
		counts[key] = n
		total += n
	}
	counts["TOTAL"] = total
	return counts, rows.Err()
}

// Stats collects per-status counts of the main entities
func (r *StatsRepository) Stats(ctx context.Context) (*dto.StatsResponse, error) {
	stats := &dto.StatsResponse{}
	var err error
	if stats.Users, err = r.groupCount(ctx, "users", "role"); err != nil {
		return nil, err
	}
	if stats.Companies, err = r.groupCount(ctx, "companies", "CASE WHEN is_verified THEN 'VERIFIED' ELSE 'PENDING' END"); err != nil {
		return nil, err
	}
	if stats.Jobs, err = r.groupCount(ctx, "jobs", "status"); err != nil {
		return nil, err
	}
	if stats.Applications, err = r.groupCount(ctx, "applications", "status"); err != nil {
		return nil, err
	}
	if stats.Communities, err = scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("communities")); err != nil {
		return nil, fmt.Errorf("error counting communities: %w", err)
	}
	if stats.Messages, err = scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("messages").Where("NOT is_deleted")); err != nil {
		return nil, fmt.Errorf("error counting messages: %w", err)
	}
	return stats, nil
}
