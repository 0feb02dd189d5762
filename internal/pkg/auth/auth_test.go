package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/yigit/hireboard/internal/app/models"
	"github.com/yigit/hireboard/internal/pkg/apperrors"
)

func newService(ttl time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  ttl,
		RefreshTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:     "hireboard",
	})
}

func TestTokenPairRoundTrip(t *testing.T) {
	svc := newService(time.Minute)
	user := &models.User{ID: 9, Email: "jane@example.com", Role: models.RoleCompany}

	pair, err := svc.GenerateTokenPair(user)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, int64(60), pair.AccessExpiresIn)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), pair.RefreshExpiresAt, time.Minute)

	claims, err := svc.ValidateAndExtractClaims(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.UserID)
	assert.Equal(t, models.RoleCompany, claims.Role)
}

func TestValidateToken_Errors(t *testing.T) {
	user := &models.User{ID: 1, Email: "a@b.co", Role: models.RoleUser}

	expired, err := newService(-time.Minute).GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = newService(time.Minute).ValidateToken(expired)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)

	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Minute, TokenIssuer: "hireboard"})
	forged, err := other.GenerateAccessToken(user)
	require.NoError(t, err)
	_, err = newService(time.Minute).ValidateToken(forged)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)

	_, err = newService(time.Minute).ValidateAndExtractClaims("")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def")
	require.NoError(t, err)
	assert.Equal(t, "abc.def", token)

	token, err = ExtractBearerToken("bearer xyz")
	require.NoError(t, err)
	assert.Equal(t, "xyz", token)

	_, err = ExtractBearerToken("abc.def")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	_, err = ExtractBearerToken("")
	assert.Error(t, err)
}

func TestPasswordHashing(t *testing.T) {
	BcryptCost = bcrypt.MinCost
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "secret124"))
}

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 20; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		assert.Len(t, otp, OTPLength)
		assert.Regexp(t, `^\d{6}$`, otp)
	}
}
