package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/auth"
)

type AuthServiceSuite struct {
	suite.Suite
	users  *mockUserStore
	tokens *mockTokenStore
	mailer *mockMailer
	svc    *AuthService
	now    time.Time
	ctx    context.Context
}

func (s *AuthServiceSuite) SetupTest() {
	s.users = new(mockUserStore)
	s.tokens = new(mockTokenStore)
	s.mailer = new(mockMailer)
	jwt := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  15 * time.Minute,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "hireboard-test",
	})
	s.svc = NewAuthService(s.users, s.tokens, jwt, s.mailer, 0, zerolog.Nop())
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.svc.now = func() time.Time { return s.now }
	s.ctx = context.Background()
}

func (s *AuthServiceSuite) TearDownTest() {
	s.users.AssertExpectations(s.T())
	s.tokens.AssertExpectations(s.T())
	s.mailer.AssertExpectations(s.T())
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) TestRegister_NewUserGetsOTP() {
	s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(nil, apperrors.ErrUserNotFound)
	s.users.On("Create", s.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.Role == models.RoleUser && u.OTPCode != nil && len(*u.OTPCode) == 6 &&
			u.OTPExpiresAt.Equal(s.now.Add(DefaultOTPTTL)) && u.Password != "secret123"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 7
	}).Return(nil)
	s.mailer.On("SendVerificationCode", "jane@example.com", "Jane Doe", mock.AnythingOfType("string"), DefaultOTPTTL).Return(nil)

	resp, err := s.svc.Register(s.ctx, &dto.RegisterRequest{
		Email: " Jane@Example.com ", Password: "secret123", FirstName: "Jane", LastName: "Doe",
	})
	s.Require().NoError(err)
	s.Equal(int64(7), resp.UserID)
	s.Equal("jane@example.com", resp.Email)
}

func (s *AuthServiceSuite) TestRegister_VerifiedEmailConflicts() {
	s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, IsVerified: true}, nil)

	_, err := s.svc.Register(s.ctx, &dto.RegisterRequest{
		Email: "jane@example.com", Password: "secret123", FirstName: "Jane", LastName: "Doe",
	})
	s.ErrorIs(err, apperrors.ErrEmailAlreadyExists)
}

func (s *AuthServiceSuite) TestRegister_UnverifiedEmailIsReplacedInPlace() {
	s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 3}, nil)
	s.users.On("ReplaceUnverified", s.ctx, mock.MatchedBy(func(u *models.User) bool {
		return u.ID == 3 && u.Role == models.RoleCompany
	})).Return(nil)
	s.mailer.On("SendVerificationCode", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	resp, err := s.svc.Register(s.ctx, &dto.RegisterRequest{
		Email: "jane@example.com", Password: "secret123", FirstName: "Jane", LastName: "Doe", Role: models.RoleCompany,
	})
	s.Require().NoError(err)
	s.Equal(int64(3), resp.UserID)
}

func (s *AuthServiceSuite) TestRegister_RejectsWeakPasswordAndAdminRole() {
	_, err := s.svc.Register(s.ctx, &dto.RegisterRequest{Email: "a@b.c", Password: "short", FirstName: "A", LastName: "B"})
	s.ErrorIs(err, apperrors.ErrWeakPassword)

	_, err = s.svc.Register(s.ctx, &dto.RegisterRequest{Email: "a@b.c", Password: "secret123", FirstName: "A", LastName: "B", Role: models.RoleAdmin})
	s.ErrorIs(err, apperrors.ErrBadRequest)
}

func (s *AuthServiceSuite) TestVerifyEmail() {
	expires := s.now.Add(5 * time.Minute)
	user := &models.User{ID: 9, Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Role: models.RoleUser,
		IsActive: true, OTPCode: ptr("123456"), OTPExpiresAt: &expires}

	s.Run("wrong code", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(user, nil).Once()
		_, err := s.svc.VerifyEmail(s.ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OTP: "000000"})
		s.ErrorIs(err, apperrors.ErrInvalidOTP)
	})

	s.Run("expired code", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(user, nil).Once()
		s.svc.now = func() time.Time { return expires }
		defer func() { s.svc.now = func() time.Time { return s.now } }()
		_, err := s.svc.VerifyEmail(s.ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OTP: "123456"})
		s.ErrorIs(err, apperrors.ErrOTPExpired)
	})

	s.Run("success issues tokens", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(user, nil).Once()
		s.users.On("MarkVerified", s.ctx, int64(9)).Return(nil).Once()
		s.tokens.On("Create", s.ctx, mock.MatchedBy(func(t *models.RefreshToken) bool { return t.UserID == 9 })).Return(nil).Once()
		s.mailer.On("SendWelcomeEmail", "jane@example.com", "Jane Doe").Return(errors.New("smtp down")).Once()

		resp, err := s.svc.VerifyEmail(s.ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OTP: "123456"})
		s.Require().NoError(err)
		s.True(resp.User.IsVerified)
		s.Nil(resp.User.OTPCode)
		s.NotEmpty(resp.Tokens.AccessToken)
		s.NotEmpty(resp.Tokens.RefreshToken)
		s.Equal("Bearer", resp.Tokens.TokenType)
	})
}

func (s *AuthServiceSuite) TestVerifyEmail_AlreadyVerified() {
	s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, IsVerified: true}, nil)
	_, err := s.svc.VerifyEmail(s.ctx, &dto.VerifyEmailRequest{Email: "jane@example.com", OTP: "123456"})
	s.ErrorIs(err, apperrors.ErrEmailAlreadyVerified)
}

func (s *AuthServiceSuite) TestLogin() {
	hash, err := auth.HashPassword("secret123")
	s.Require().NoError(err)

	s.Run("unknown email", func() {
		s.users.On("GetByEmail", s.ctx, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound).Once()
		_, err := s.svc.Login(s.ctx, &dto.LoginRequest{Email: "ghost@example.com", Password: "secret123"})
		s.ErrorIs(err, apperrors.ErrInvalidCredentials)
	})

	s.Run("wrong password", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, Password: hash, IsVerified: true, IsActive: true}, nil).Once()
		_, err := s.svc.Login(s.ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "nope12345"})
		s.ErrorIs(err, apperrors.ErrInvalidCredentials)
	})

	s.Run("unverified", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, Password: hash, IsActive: true}, nil).Once()
		_, err := s.svc.Login(s.ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
		s.ErrorIs(err, apperrors.ErrEmailNotVerified)
	})

	s.Run("disabled", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, Password: hash, IsVerified: true}, nil).Once()
		_, err := s.svc.Login(s.ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
		s.ErrorIs(err, apperrors.ErrAccountDisabled)
	})

	s.Run("success", func() {
		s.users.On("GetByEmail", s.ctx, "jane@example.com").Return(&models.User{ID: 1, Password: hash, IsVerified: true, IsActive: true}, nil).Once()
		s.users.On("UpdateLastLogin", s.ctx, int64(1)).Return(nil).Once()
		s.tokens.On("Create", s.ctx, mock.Anything).Return(nil).Once()
		resp, err := s.svc.Login(s.ctx, &dto.LoginRequest{Email: "jane@example.com", Password: "secret123"})
		s.Require().NoError(err)
		s.Equal(s.now, *resp.User.LastLoginAt)
	})
}

func (s *AuthServiceSuite) TestRefreshToken() {
	s.Run("missing row", func() {
		s.tokens.On("GetByValue", s.ctx, "gone").Return(nil, apperrors.ErrTokenNotFound).Once()
		_, err := s.svc.RefreshToken(s.ctx, "gone")
		s.Equal(apperrors.ErrUnauthorized, apperrors.KindOf(err))
	})

	s.Run("expired row is deleted", func() {
		s.tokens.On("GetByValue", s.ctx, "old").Return(&models.RefreshToken{Token: "old", UserID: 1, ExpiresAt: s.now.Add(-time.Second)}, nil).Once()
		s.tokens.On("Delete", s.ctx, "old").Return(nil).Once()
		_, err := s.svc.RefreshToken(s.ctx, "old")
		s.ErrorIs(err, apperrors.ErrTokenExpired)
	})

	s.Run("inactive user", func() {
		s.tokens.On("GetByValue", s.ctx, "t1").Return(&models.RefreshToken{Token: "t1", UserID: 2, ExpiresAt: s.now.Add(time.Hour)}, nil).Once()
		s.users.On("GetByID", s.ctx, int64(2)).Return(&models.User{ID: 2}, nil).Once()
		_, err := s.svc.RefreshToken(s.ctx, "t1")
		s.ErrorIs(err, apperrors.ErrUnauthorized)
	})

	s.Run("new access token", func() {
		s.tokens.On("GetByValue", s.ctx, "t2").Return(&models.RefreshToken{Token: "t2", UserID: 3, ExpiresAt: s.now.Add(time.Hour)}, nil).Once()
		s.users.On("GetByID", s.ctx, int64(3)).Return(&models.User{ID: 3, Email: "x@y.z", Role: models.RoleUser, IsActive: true}, nil).Once()
		resp, err := s.svc.RefreshToken(s.ctx, "t2")
		s.Require().NoError(err)
		s.NotEmpty(resp.AccessToken)
		s.Empty(resp.RefreshToken)
		s.Equal(int64(900), resp.ExpiresIn)
	})
}

func TestAuthService_ResendOTPMailFailure(t *testing.T) {
	users := new(mockUserStore)
	mailer := new(mockMailer)
	svc := NewAuthService(users, new(mockTokenStore), auth.NewJWTService(auth.JWTConfig{SecretKey: "k"}), mailer, time.Minute, zerolog.Nop())
	ctx := context.Background()

	users.On("GetByEmail", ctx, "jane@example.com").Return(&models.User{ID: 4, Email: "jane@example.com"}, nil)
	users.On("SetOTP", ctx, int64(4), mock.AnythingOfType("string"), mock.AnythingOfType("time.Time")).Return(nil)
	mailer.On("SendVerificationCode", "jane@example.com", mock.Anything, mock.Anything, time.Minute).Return(errors.New("smtp down"))

	err := svc.ResendOTP(ctx, "jane@example.com")
	require.Error(t, err)
	var custom *apperrors.CustomError
	require.ErrorAs(t, err, &custom)
	assert.Equal(t, "SRV_003", custom.Code)
}
