// Package seed creates the data a fresh installation needs to be administered.
package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/auth"
)

// AdminStore is the part of the user repository seeding needs
type AdminStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

// EnsureAdmin creates a verified ADMIN account unless one with the email exists.
// An empty email or password disables seeding.
func EnsureAdmin(ctx context.Context, users AdminStore, email, password string, lgr zerolog.Logger) error {
	if email == "" || password == "" {
		lgr.Info().Msg("Admin seed credentials not configured, skipping")
		return nil
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != models.RoleAdmin {
			lgr.Warn().Str("email", email).Str("role", string(existing.Role)).Msg("Seed admin email belongs to a non-admin account")
		} else {
			lgr.Info().Msg("Admin user already exists, skipping creation")
		}
		return nil
	case !errors.Is(err, apperrors.ErrUserNotFound):
		return fmt.Errorf("failed to look up admin user: %w", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.User{
		Email:      email,
		Password:   hash,
		FirstName:  "System",
		LastName:   "Administrator",
		Role:       models.RoleAdmin,
		IsVerified: true,
		IsActive:   true,
	}
	if err := users.Create(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	lgr.Info().Int64("adminID", admin.ID).Msg("Default admin user created")
	return nil
}
