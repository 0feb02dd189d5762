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
	"github.com/yigit/hireboard/internal/pkg/textnorm"
)

var jobColumns = []string{
	"id", "company_id", "title", "description", "requirements", "location", "employment_type",
	"salary_min", "salary_max", "status", "search_text", "expires_at", "created_at", "updated_at",
}

// JobRepository handles job database operations
type JobRepository struct {
	db db.DBTX
}

// NewJobRepository creates a new JobRepository
func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{db: pool}
}

func jobSearchText(job *models.Job) string {
	location := ""
	if job.Location != nil {
		location = *job.Location
	}
	parts := append([]string{job.Title, job.Description, location}, job.Requirements...)
	return textnorm.SearchText(parts...)
}

// Create inserts a job and derives its folded search text
func (r *JobRepository) Create(ctx context.Context, job *models.Job) error {
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	job.SearchText = jobSearchText(job)

	sql, args, err := psql.Insert("jobs").
		Columns("company_id", "title", "description", "requirements", "location", "employment_type",
			"salary_min", "salary_max", "status", "search_text", "expires_at").
		Values(job.CompanyID, job.Title, job.Description, job.Requirements, job.Location, job.EmploymentType,
			job.SalaryMin, job.SalaryMax, job.Status, job.SearchText, job.ExpiresAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create job query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt); err != nil {
		logger.Error().Err(err).Int64("companyID", job.CompanyID).Msg("Error creating job")
		return fmt.Errorf("error creating job: %w", dberrors.Classify(err))
	}
	return nil
}

// GetByID retrieves a job
func (r *JobRepository) GetByID(ctx context.Context, id int64) (*models.Job, error) {
	job, err := getOne[models.Job](ctx, r.db, psql.Select(jobColumns...).From("jobs").Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, fmt.Errorf("error retrieving job: %w", err)
	}
	return job, nil
}

// GetByIDs returns jobs keyed by ID
func (r *JobRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Job, error) {
	result := make(map[int64]*models.Job, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	jobs, err := getAll[models.Job](ctx, r.db, psql.Select(jobColumns...).From("jobs").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, fmt.Errorf("error retrieving jobs: %w", err)
	}
	for _, j := range jobs {
		result[j.ID] = j
	}
	return result, nil
}

// Update persists the editable fields of job and refreshes its search text
func (r *JobRepository) Update(ctx context.Context, job *models.Job) error {
	if job.Requirements == nil {
		job.Requirements = []string{}
	}
	job.SearchText = jobSearchText(job)
	return r.update(ctx, job.ID, map[string]interface{}{
		"title":           job.Title,
		"description":     job.Description,
		"requirements":    job.Requirements,
		"location":        job.Location,
		"employment_type": job.EmploymentType,
		"salary_min":      job.SalaryMin,
		"salary_max":      job.SalaryMax,
		"search_text":     job.SearchText,
		"expires_at":      job.ExpiresAt,
	})
}

// UpdateStatus moves a job to status
func (r *JobRepository) UpdateStatus(ctx context.Context, id int64, status models.JobStatus) error {
	return r.update(ctx, id, map[string]interface{}{"status": status})
}

func (r *JobRepository) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	n, err := exec(ctx, r.db, psql.Update("jobs").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("jobID", id).Msg("Error updating job")
		return fmt.Errorf("error updating job: %w", dberrors.Classify(err))
	}
	if n == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// Delete removes a job and, by cascade, its applications
func (r *JobRepository) Delete(ctx context.Context, id int64) error {
	n, err := exec(ctx, r.db, psql.Delete("jobs").Where(squirrel.Eq{"id": id}))
	if err != nil {
		return fmt.Errorf("error deleting job: %w", err)
	}
	if n == 0 {
		return apperrors.ErrJobNotFound
	}
	return nil
}

// List returns one page of jobs matching filter and the total match count
func (r *JobRepository) List(ctx context.Context, filter models.JobFilter) ([]*models.Job, int, error) {
	where := squirrel.And{}
	if len(filter.Statuses) > 0 {
		where = append(where, squirrel.Eq{"status": filter.Statuses})
	}
	if filter.Search != "" {
		where = append(where, squirrel.Expr("search_text LIKE ?", textnorm.LikePattern(filter.Search)))
	}
	if filter.Location != "" {
		where = append(where, squirrel.ILike{"location": textnorm.RawLikePattern(filter.Location)})
	}
	if filter.EmploymentType != "" {
		where = append(where, squirrel.Eq{"employment_type": filter.EmploymentType})
	}
	if filter.SalaryMin != nil {
		where = append(where, squirrel.Or{
			squirrel.GtOrEq{"salary_max": *filter.SalaryMin},
			squirrel.And{squirrel.Eq{"salary_max": nil}, squirrel.GtOrEq{"salary_min": *filter.SalaryMin}},
		})
	}
	if filter.CompanyID != nil {
		where = append(where, squirrel.Eq{"company_id": *filter.CompanyID})
	}

	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("jobs").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting jobs: %w", err)
	}

	jobs, err := getAll[models.Job](ctx, r.db, psql.Select(jobColumns...).From("jobs").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(filter.Offset)).Limit(uint64(filter.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing jobs: %w", err)
	}
	return jobs, total, nil
}

// CloseExpired moves ACTIVE jobs whose expiry passed to CLOSED
func (r *JobRepository) CloseExpired(ctx context.Context, now time.Time) (int64, error) {
	n, err := exec(ctx, r.db, psql.Update("jobs").
		Set("status", models.JobStatusClosed).
		Set("updated_at", now).
		Where(squirrel.Eq{"status": models.JobStatusActive}).
		Where(squirrel.Lt{"expires_at": now}))
	if err != nil {
		logger.Error().Err(err).Msg("Error closing expired jobs")
		return 0, fmt.Errorf("error closing expired jobs: %w", err)
	}
	return n, nil
}
