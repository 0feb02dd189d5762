package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/app/models/dto"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
	"github.com/yigit/hireboard/internal/pkg/auth"
)

const authUserKey = "authUser"

// AuthUser is the caller identity resolved from a valid access token
type AuthUser struct {
	ID    int64
	Email string
	Role  models.RoleType
}

// IsAdmin reports whether the caller has the ADMIN role.
func (u *AuthUser) IsAdmin() bool {
	return u.Role == models.RoleAdmin
}

// Actor converts the caller into the identity services work with.
func (u *AuthUser) Actor() models.Actor {
	return models.Actor{ID: u.ID, Role: u.Role}
}

// ActiveChecker reports whether an account may still use its tokens
type ActiveChecker interface {
	IsActive(ctx context.Context, userID int64) (bool, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	users      ActiveChecker
}

// NewAuthMiddleware creates a new AuthMiddleware. users may be nil, in which case
// account status is not rechecked per request.
func NewAuthMiddleware(jwtService *auth.JWTService, users ActiveChecker) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// SetCurrentUser stores the authenticated caller on the context.
func SetCurrentUser(c *gin.Context, user *AuthUser) {
	c.Set(authUserKey, user)
}

// CurrentUser returns the caller stored by JWTAuth.
func CurrentUser(c *gin.Context) (*AuthUser, bool) {
	v, exists := c.Get(authUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*AuthUser)
	return user, ok && user != nil
}

// MustCurrentUser returns the caller or aborts with 401. Handlers behind JWTAuth use it.
func MustCurrentUser(c *gin.Context) (*AuthUser, bool) {
	user, ok := CurrentUser(c)
	if !ok {
		HandleAPIError(c, apperrors.ErrUnauthorized)
		return nil, false
	}
	return user, true
}

// tokenFromRequest reads the Bearer header, falling back to ?token= for clients
// such as browsers opening a WebSocket that cannot set headers.
func tokenFromRequest(c *gin.Context) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		return auth.ExtractBearerToken(strings.Trim(header, "\"'"))
	}
	if token := c.Query("token"); token != "" {
		return token, nil
	}
	return "", apperrors.NewUnauthorizedError("Authorization header missing")
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}

		if m.users != nil {
			active, err := m.users.IsActive(c.Request.Context(), claims.UserID)
			if err != nil {
				HandleAPIError(c, err)
				c.Abort()
				return
			}
			if !active {
				HandleAPIError(c, apperrors.ErrAccountDisabled)
				c.Abort()
				return
			}
		}

		SetCurrentUser(c, &AuthUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role})
		c.Next()
	}
}

// OptionalJWTAuth identifies the caller when a valid token is present and lets
// anonymous requests through otherwise.
func (m *AuthMiddleware) OptionalJWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := tokenFromRequest(c)
		if err == nil {
			if claims, err := m.jwtService.ValidateAndExtractClaims(tokenString); err == nil {
				SetCurrentUser(c, &AuthUser{ID: claims.UserID, Email: claims.Email, Role: claims.Role})
			}
		}
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	code := dto.ErrorCodeInvalidToken
	details := "Invalid token"
	switch {
	case apperrors.Is(err, apperrors.ErrTokenExpired):
		code = dto.ErrorCodeExpiredToken
		details = "Token has expired"
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		code = dto.ErrorCodeUnauthorized
		details = err.Error()
	}
	detail := dto.NewErrorDetail(code, "Authentication failed").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(detail))
}

// RoleRequired middleware to check if user has one of the required roles
func (m *AuthMiddleware) RoleRequired(roles ...models.RoleType) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortUnauthorized(c, apperrors.NewUnauthorizedError("User role not found"))
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		detail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").
			WithDetails("You don't have sufficient permissions for this operation")
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(detail))
	}
}
