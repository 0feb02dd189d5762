package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/auth"
	"github.com/yigit/hireboard/internal/pkg/email"
	"github.com/yigit/hireboard/internal/pkg/validation"
)

// DefaultOTPTTL is how long a verification code stays valid
const DefaultOTPTTL = 10 * time.Minute

// AuthService handles registration, email verification and token lifecycle
type AuthService struct {
	userRepo   UserStore
	tokenRepo  TokenStore
	jwtService *auth.JWTService
	mailer     email.EmailService
	otpTTL     time.Duration
	logger     zerolog.Logger
	now        func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(
	userRepo UserStore,
	tokenRepo TokenStore,
	jwtService *auth.JWTService,
	mailer email.EmailService,
	otpTTL time.Duration,
	logger zerolog.Logger,
) *AuthService {
	if otpTTL <= 0 {
		otpTTL = DefaultOTPTTL
	}
	return &AuthService{
		userRepo:   userRepo,
		tokenRepo:  tokenRepo,
		jwtService: jwtService,
		mailer:     mailer,
		otpTTL:     otpTTL,
		logger:     logger.With().Str("service", "auth").Logger(),
		now:        time.Now,
	}
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// Register creates an unverified account, or refreshes one that never verified,
// and emails a one-time code.
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.RegisterResponse, error) {
	if !validation.IsStrongPassword(req.Password) {
		return nil, apperrors.ErrWeakPassword
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.IsSelfAssignable() {
		return nil, apperrors.NewBadRequestError("role must be USER or COMPANY")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}
	code, err := auth.GenerateOTP()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.otpTTL)

	user := &models.User{
		Email:        normalizeEmail(req.Email),
		Password:     hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		IsActive:     true,
		OTPCode:      &code,
		OTPExpiresAt: &expiresAt,
	}

	existing, err := s.userRepo.GetByEmail(ctx, user.Email)
	switch {
	case err == nil && existing.IsVerified:
		return nil, apperrors.ErrEmailAlreadyExists
	case err == nil:
		user.ID = existing.ID
		if err := s.userRepo.ReplaceUnverified(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("userID", user.ID).Msg("Re-registered unverified account")
	case errors.Is(err, apperrors.ErrUserNotFound):
		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}
		s.logger.Info().Int64("userID", user.ID).Str("role", string(role)).Msg("User registered")
	default:
		return nil, err
	}

	if err := s.mailer.SendVerificationCode(user.Email, user.FullName(), code, s.otpTTL); err != nil {
		s.logger.Error().Err(err).Int64("userID", user.ID).Msg("Failed to send verification code")
	}

	return &dto.RegisterResponse{
		UserID:  user.ID,
		Email:   user.Email,
		Message: "Verification code sent to your email",
	}, nil
}

// VerifyEmail checks the one-time code, activates the account and signs the user in
func (s *AuthService) VerifyEmail(ctx context.Context, req *dto.VerifyEmailRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if user.IsVerified {
		return nil, apperrors.ErrEmailAlreadyVerified
	}
	if user.OTPCode == nil || subtle.ConstantTimeCompare([]byte(*user.OTPCode), []byte(req.OTP)) != 1 {
		return nil, apperrors.ErrInvalidOTP
	}
	if user.OTPExpiresAt == nil || !s.now().Before(*user.OTPExpiresAt) {
		return nil, apperrors.ErrOTPExpired
	}

	if err := s.userRepo.MarkVerified(ctx, user.ID); err != nil {
		return nil, err
	}
	user.IsVerified = true
	user.OTPCode = nil
	user.OTPExpiresAt = nil

	resp, err := s.signIn(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.mailer.SendWelcomeEmail(user.Email, user.FullName()); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to send welcome email")
	}
	return resp, nil
}

// ResendOTP issues a fresh code for an unverified account
func (s *AuthService) ResendOTP(ctx context.Context, emailAddr string) error {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(emailAddr))
	if err != nil {
		return err
	}
	if user.IsVerified {
		return apperrors.ErrEmailAlreadyVerified
	}

	code, err := auth.GenerateOTP()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetOTP(ctx, user.ID, code, s.now().Add(s.otpTTL)); err != nil {
		return err
	}
	if err := s.mailer.SendVerificationCode(user.Email, user.FullName(), code, s.otpTTL); err != nil {
		return apperrors.NewCustomError(err, "failed to send verification code").WithCode("SRV_003")
	}
	return nil
}

// Login authenticates a user
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		s.logger.Warn().Int64("userID", user.ID).Msg("Failed login attempt")
		return nil, apperrors.ErrInvalidCredentials
	}
	if !user.IsVerified {
		return nil, apperrors.ErrEmailNotVerified
	}
	if !user.IsActive {
		return nil, apperrors.ErrAccountDisabled
	}

	if err := s.userRepo.UpdateLastLogin(ctx, user.ID); err != nil {
		s.logger.Warn().Err(err).Int64("userID", user.ID).Msg("Failed to update last login")
	}
	now := s.now()
	user.LastLoginAt = &now

	return s.signIn(ctx, user)
}

// RefreshToken issues a new access token for a stored, unexpired refresh token
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	stored, err := s.tokenRepo.GetByValue(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored.IsExpired(s.now()) {
		if err := s.tokenRepo.Delete(ctx, refreshToken); err != nil {
			s.logger.Warn().Err(err).Int64("userID", stored.UserID).Msg("Failed to delete expired refresh token")
		}
		return nil, apperrors.ErrTokenExpired
	}

	user, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperrors.NewUnauthorizedError("account is disabled")
	}

	accessToken, err := s.jwtService.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	return &dto.TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.jwtService.AccessTokenTTL().Seconds()),
	}, nil
}

// Logout forgets a refresh token; unknown tokens are ignored
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	return s.tokenRepo.Delete(ctx, refreshToken)
}

// Me returns the caller's account
func (s *AuthService) Me(ctx context.Context, userID int64) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *AuthService) signIn(ctx context.Context, user *models.User) (*dto.AuthResponse, error) {
	pair, err := s.jwtService.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}
	if err := s.tokenRepo.Create(ctx, &models.RefreshToken{
		Token:     pair.RefreshToken,
		UserID:    user.ID,
		ExpiresAt: pair.RefreshExpiresAt,
	}); err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		User: user,
		Tokens: dto.TokenResponse{
			AccessToken:           pair.AccessToken,
			TokenType:             "Bearer",
			ExpiresIn:             pair.AccessExpiresIn,
			RefreshToken:          pair.RefreshToken,
			RefreshTokenExpiresIn: pair.RefreshExpiresIn,
		},
	}, nil
}
