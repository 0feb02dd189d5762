package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/auth"
)

type mockAdminStore struct{ mock.Mock }

func (m *mockAdminStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

func (m *mockAdminStore) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func init() {
	auth.BcryptCost = bcrypt.MinCost
}

func TestEnsureAdmin(t *testing.T) {
	ctx := context.Background()

	t.Run("creates verified admin", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("GetByEmail", ctx, "admin@hireboard.local").Return(nil, apperrors.ErrUserNotFound)
		store.On("Create", ctx, mock.MatchedBy(func(u *models.User) bool {
			return u.Role == models.RoleAdmin && u.IsVerified && u.IsActive &&
				auth.CheckPassword(u.Password, "Admin123!")
		})).Return(nil)

		require.NoError(t, EnsureAdmin(ctx, store, "admin@hireboard.local", "Admin123!", zerolog.Nop()))
		store.AssertExpectations(t)
	})

	t.Run("existing account is left alone", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("GetByEmail", ctx, "admin@hireboard.local").Return(&models.User{ID: 1, Role: models.RoleAdmin}, nil)

		require.NoError(t, EnsureAdmin(ctx, store, "admin@hireboard.local", "Admin123!", zerolog.Nop()))
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing credentials skip seeding", func(t *testing.T) {
		store := new(mockAdminStore)
		require.NoError(t, EnsureAdmin(ctx, store, "admin@hireboard.local", "", zerolog.Nop()))
		store.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("lookup failure is returned", func(t *testing.T) {
		store := new(mockAdminStore)
		store.On("GetByEmail", ctx, "admin@hireboard.local").Return(nil, errors.New("connection refused"))

		err := EnsureAdmin(ctx, store, "admin@hireboard.local", "Admin123!", zerolog.Nop())
		assert.ErrorContains(t, err, "connection refused")
	})
}
