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
	"github.com/yigit/hireboard/internal/pkg/textnorm"
)

var companyColumns = []string{
	"c.id", "c.owner_id", "c.name", "c.description", "c.website", "c.industry", "c.size",
	"c.location", "c.logo_url", "c.is_verified", "c.created_at", "c.updated_at",
	"(SELECT COUNT(*) FROM jobs j WHERE j.company_id = c.id AND j.status = 'ACTIVE') AS active_job_count",
}

// CompanyRepository handles company database operations
type CompanyRepository struct {
	db db.DBTX
}

// NewCompanyRepository creates a new CompanyRepository
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return &CompanyRepository{db: pool}
}

// Create inserts a company; an owner can hold only one
func (r *CompanyRepository) Create(ctx context.Context, company *models.Company) error {
	sql, args, err := psql.Insert("companies").
		Columns("owner_id", "name", "description", "website", "industry", "size", "location").
		Values(company.OwnerID, company.Name, company.Description, company.Website, company.Industry,
			company.Size, company.Location).
		Suffix("RETURNING id, is_verified, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create company query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&company.ID, &company.IsVerified, &company.CreatedAt, &company.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "companies_owner_id_key") {
			return apperrors.ErrCompanyExists
		}
		logger.Error().Err(err).Int64("ownerID", company.OwnerID).Msg("Error creating company")
		return fmt.Errorf("error creating company: %w", err)
	}
	return nil
}

func (r *CompanyRepository) getBy(ctx context.Context, where squirrel.Sqlizer) (*models.Company, error) {
	company, err := getOne[models.Company](ctx, r.db, psql.Select(companyColumns...).From("companies c").Where(where))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrCompanyNotFound
		}
		return nil, fmt.Errorf("error retrieving company: %w", err)
	}
	return company, nil
}

// GetByID retrieves a company with its active job count
func (r *CompanyRepository) GetByID(ctx context.Context, id int64) (*models.Company, error) {
	return r.getBy(ctx, squirrel.Eq{"c.id": id})
}

// GetByOwner retrieves the company owned by userID
func (r *CompanyRepository) GetByOwner(ctx context.Context, userID int64) (*models.Company, error) {
	return r.getBy(ctx, squirrel.Eq{"c.owner_id": userID})
}

// GetByIDs returns companies keyed by ID
func (r *CompanyRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*models.Company, error) {
	result := make(map[int64]*models.Company, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	companies, err := getAll[models.Company](ctx, r.db, psql.Select(companyColumns...).From("companies c").
		Where(squirrel.Eq{"c.id": ids}))
	if err != nil {
		return nil, fmt.Errorf("error retrieving companies: %w", err)
	}
	for _, c := range companies {
		result[c.ID] = c
	}
	return result, nil
}

// Update persists the editable fields of company
func (r *CompanyRepository) Update(ctx context.Context, company *models.Company) error {
	return r.update(ctx, company.ID, map[string]interface{}{
		"name":        company.Name,
		"description": company.Description,
		"website":     company.Website,
		"industry":    company.Industry,
		"size":        company.Size,
		"location":    company.Location,
	})
}

// UpdateLogoURL sets the company logo
func (r *CompanyRepository) UpdateLogoURL(ctx context.Context, id int64, url string) error {
	return r.update(ctx, id, map[string]interface{}{"logo_url": url})
}

// SetVerified sets the admin verification flag
func (r *CompanyRepository) SetVerified(ctx context.Context, id int64, verified bool) error {
	return r.update(ctx, id, map[string]interface{}{"is_verified": verified})
}

func (r *CompanyRepository) update(ctx context.Context, id int64, fields map[string]interface{}) error {
	n, err := exec(ctx, r.db, psql.Update("companies").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}))
	if err != nil {
		logger.Error().Err(err).Int64("companyID", id).Msg("Error updating company")
		return fmt.Errorf("error updating company: %w", err)
	}
	if n == 0 {
		return apperrors.ErrCompanyNotFound
	}
	return nil
}

// List returns one page of companies matching filter and the total match count
func (r *CompanyRepository) List(ctx context.Context, filter models.CompanyFilter) ([]*models.Company, int, error) {
	where := squirrel.And{}
	if filter.Search != "" {
		pattern := textnorm.RawLikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"c.name": pattern},
			squirrel.ILike{"c.industry": pattern},
		})
	}
	if filter.Verified != nil {
		where = append(where, squirrel.Eq{"c.is_verified": *filter.Verified})
	}

	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("companies c").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting companies: %w", err)
	}

	companies, err := getAll[models.Company](ctx, r.db, psql.Select(companyColumns...).From("companies c").
		Where(where).
		OrderBy("c.created_at DESC", "c.id DESC").
		Offset(uint64(filter.Offset)).Limit(uint64(filter.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing companies: %w", err)
	}
	return companies, total, nil
}
