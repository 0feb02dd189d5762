package dto

import "github.com/yigit/hireboard/internal/app/models"

// RegisterRequest represents a registration request. Role defaults to USER.
type RegisterRequest struct {
	Email     string          `json:"email" binding:"required,email" example:"jane@example.com"`
	Password  string          `json:"password" binding:"required,strongpassword" example:"secret123"`
	FirstName string          `json:"firstName" binding:"required,min=1,max=100" example:"Jane"`
	LastName  string          `json:"lastName" binding:"required,min=1,max=100" example:"Doe"`
	Role      models.RoleType `json:"role" binding:"omitempty,oneof=USER COMPANY" example:"USER"`
}

// RegisterResponse acknowledges a registration awaiting email verification
type RegisterResponse struct {
	UserID  int64  `json:"userId" example:"1"`
	Email   string `json:"email" example:"jane@example.com"`
	Message string `json:"message" example:"Verification code sent"`
}

// VerifyEmailRequest carries the emailed one-time code
type VerifyEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric" example:"123456"`
}

// ResendOTPRequest asks for a new one-time code
type ResendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	User   *models.User  `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}
