package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/db"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/dberrors"
	"github.com/yigit/hireboard/internal/pkg/logger"
)

var applicationColumns = []string{
	"id", "user_id", "job_id", "status", "cover_letter", "resume_url", "created_at", "updated_at",
}

// ApplicationRepository handles application database operations
type ApplicationRepository struct {
	db db.DBTX
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{db: pool}
}

// Create inserts an application; one per (user, job)
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	sql, args, err := psql.Insert("applications").
		Columns("user_id", "job_id", "status", "cover_letter", "resume_url").
		Values(app.UserID, app.JobID, app.Status, app.CoverLetter, app.ResumeURL).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create application query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "applications_user_job_key") {
			return apperrors.ErrAlreadyApplied
		}
		logger.Error().Err(err).Int64("userID", app.UserID).Int64("jobID", app.JobID).Msg("Error creating application")
		return fmt.Errorf("error creating application: %w", dberrors.Classify(err))
	}
	return nil
}

// GetByID retrieves an application
func (r *ApplicationRepository) GetByID(ctx context.Context, id int64) (*models.Application, error) {
	app, err := getOne[models.Application](ctx, r.db, psql.Select(applicationColumns...).From("applications").
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

func (r *ApplicationRepository) list(ctx context.Context, where squirrel.Sqlizer, offset, limit int) ([]*models.Application, int, error) {
	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("applications").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}
	apps, err := getAll[models.Application](ctx, r.db, psql.Select(applicationColumns...).From("applications").
		Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(offset)).Limit(uint64(limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing applications: %w", err)
	}
	return apps, total, nil
}

// ListByUser returns one page of a user's applications
func (r *ApplicationRepository) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*models.Application, int, error) {
	return r.list(ctx, squirrel.Eq{"user_id": userID}, offset, limit)
}

// ListByJob returns one page of a job's applications
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID int64, offset, limit int) ([]*models.Application, int, error) {
	return r.list(ctx, squirrel.Eq{"job_id": jobID}, offset, limit)
}

// UpdateStatus moves an application to status
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) error {
	n, err := exec(ctx, r.db, psql.Update("applications").
		Set("status", status).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error updating application: %w", dberrors.Classify(err))
	}
	if n == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}

// Delete removes an application
func (r *ApplicationRepository) Delete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.db, psql.Delete("applications").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting application: %w", err)
	}
	if n == 0 {
		return apperrors.ErrApplicationNotFound
	}
	return nil
}
