package repositories

import (
	"context"
	"errors"
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

var userColumns = []string{
	"id", "email", "password_hash", "first_name", "last_name", "role", "is_verified", "is_active",
	"otp_code", "otp_expires_at", "headline", "bio", "skills", "experience_years", "location",
	"avatar_url", "resume_url", "last_login_at", "created_at", "updated_at",
}

var userSummaryColumns = []string{"u.id", "u.first_name", "u.last_name", "u.avatar_url", "u.role"}

// UserRepository handles user database operations
type UserRepository struct {
	db db.DBTX
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: pool}
}

// Create inserts a new user and fills its generated fields
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	if user.Skills == nil {
		user.Skills = []string{}
	}
	sql, args, err := psql.Insert("users").
		Columns("email", "password_hash", "first_name", "last_name", "role", "is_verified", "is_active",
			"otp_code", "otp_expires_at", "skills").
		Values(user.Email, user.Password, user.FirstName, user.LastName, user.Role, user.IsVerified, user.IsActive,
			user.OTPCode, user.OTPExpiresAt, user.Skills).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create user query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "users_email_key") {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", user.Email).Msg("Error creating user")
		return fmt.Errorf("error creating user: %w", err)
	}
	return nil
}

func (r *UserRepository) getBy(ctx context.Context, where squirrel.Sqlizer) (*models.User, error) {
	user, err := getOne[models.User](ctx, r.db, psql.Select(userColumns...).From("users").Where(where))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, fmt.Errorf("error retrieving user: %w", err)
	}
	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, squirrel.Eq{"id": id})
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, squirrel.Expr("LOWER(email) = LOWER(?)", email))
}

// IsActive reports whether the account may still authenticate
func (r *UserRepository) IsActive(ctx context.Context, id int64) (bool, error) {
	active, err := scalar[bool](ctx, r.db, psql.Select("is_active").From("users").Where(squirrel.Eq{"id": id}))
	if err != nil {
		if dberrors.IsNoRows(err) {
			return false, apperrors.ErrUserNotFound
		}
		return false, fmt.Errorf("error checking user status: %w", err)
	}
	return active, nil
}

// ReplaceUnverified overwrites the registration data of an account that never
// verified its email, so re-registering does not create a duplicate row.
func (r *UserRepository) ReplaceUnverified(ctx context.Context, user *models.User) error {
	n, err := exec(ctx, r.db, psql.Update("users").
		Set("password_hash", user.Password).
		Set("first_name", user.FirstName).
		Set("last_name", user.LastName).
		Set("role", user.Role).
		Set("otp_code", user.OTPCode).
		Set("otp_expires_at", user.OTPExpiresAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": user.ID, "is_verified": false}))
	if err != nil {
		return fmt.Errorf("error updating unverified user: %w", err)
	}
	if n == 0 {
		return apperrors.ErrEmailAlreadyExists
	}
	return nil
}

// SetOTP stores a new one-time code
func (r *UserRepository) SetOTP(ctx context.Context, userID int64, code string, expiresAt time.Time) error {
	return r.update(ctx, userID, map[string]interface{}{"otp_code": code, "otp_expires_at": expiresAt})
}

// MarkVerified flags the email as verified and clears the one-time code
func (r *UserRepository) MarkVerified(ctx context.Context, userID int64) error {
	return r.update(ctx, userID, map[string]interface{}{"is_verified": true, "otp_code": nil, "otp_expires_at": nil})
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	return r.update(ctx, userID, map[string]interface{}{"last_login_at": time.Now()})
}

// UpdateProfile persists the editable profile fields of user
func (r *UserRepository) UpdateProfile(ctx context.Context, user *models.User) error {
	if user.Skills == nil {
		user.Skills = []string{}
	}
	return r.update(ctx, user.ID, map[string]interface{}{
		"first_name":       user.FirstName,
		"last_name":        user.LastName,
		"headline":         user.Headline,
		"bio":              user.Bio,
		"skills":           user.Skills,
		"experience_years": user.ExperienceYears,
		"location":         user.Location,
	})
}

// UpdateAvatarURL sets the profile picture
func (r *UserRepository) UpdateAvatarURL(ctx context.Context, userID int64, url string) error {
	return r.update(ctx, userID, map[string]interface{}{"avatar_url": url})
}

// UpdateResumeURL sets the default resume
func (r *UserRepository) UpdateResumeURL(ctx context.Context, userID int64, url string) error {
	return r.update(ctx, userID, map[string]interface{}{"resume_url": url})
}

// SetActive enables or disables an account
func (r *UserRepository) SetActive(ctx context.Context, userID int64, active bool) error {
	return r.update(ctx, userID, map[string]interface{}{"is_active": active})
}

func (r *UserRepository) update(ctx context.Context, userID int64, fields map[string]interface{}) error {
	n, err := exec(ctx, r.db, psql.Update("users").
		SetMap(fields).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": userID}))
	if err != nil {
		logger.Error().Err(err).Int64("userID", userID).Msg("Error updating user")
		return fmt.Errorf("error updating user: %w", err)
	}
	if n == 0 {
		return apperrors.ErrUserNotFound
	}
	return nil
}

// List returns one page of users matching filter and the total match count
func (r *UserRepository) List(ctx context.Context, filter models.UserFilter) ([]*models.User, int, error) {
	where := squirrel.And{}
	if filter.Role != "" {
		where = append(where, squirrel.Eq{"role": filter.Role})
	}
	if filter.Search != "" {
		pattern := textnorm.RawLikePattern(filter.Search)
		where = append(where, squirrel.Or{
			squirrel.ILike{"email": pattern},
			squirrel.Expr("(first_name || ' ' || last_name) ILIKE ?", pattern),
		})
	}

	total, err := scalar[int](ctx, r.db, psql.Select("COUNT(*)").From("users").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("error counting users: %w", err)
	}

	users, err := getAll[models.User](ctx, r.db, psql.Select(userColumns...).From("users").Where(where).
		OrderBy("created_at DESC", "id DESC").
		Offset(uint64(filter.Offset)).Limit(uint64(filter.Limit)))
	if err != nil {
		return nil, 0, fmt.Errorf("error listing users: %w", err)
	}
	return users, total, nil
}

// GetSummaries returns the public projection of the given users keyed by ID
func (r *UserRepository) GetSummaries(ctx context.Context, ids []int64) (map[int64]*models.UserSummary, error) {
	result := make(map[int64]*models.UserSummary, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	summaries, err := getAll[models.UserSummary](ctx, r.db,
		psql.Select(userSummaryColumns...).From("users u").Where(squirrel.Eq{"u.id": ids}))
	if err != nil {
		return nil, fmt.Errorf("error retrieving user summaries: %w", err)
	}
	for _, s := range summaries {
		result[s.ID] = s
	}
	return result, nil
}

// EnsureAdmin creates the admin account when no user owns the email yet.
// It reports whether a row was created.
func (r *UserRepository) EnsureAdmin(ctx context.Context, user *models.User) (bool, error) {
	_, err := r.GetByEmail(ctx, user.Email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, apperrors.ErrUserNotFound) {
		return false, err
	}
	user.Role = models.RoleAdmin
	user.IsVerified = true
	user.IsActive = true
	if err := r.Create(ctx, user); err != nil {
		return false, err
	}
	return true, nil
}
