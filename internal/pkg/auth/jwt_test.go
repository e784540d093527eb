package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mert/lectern/internal/app/models"
)

func newTestService(accessExp time.Duration) *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:       "unit-test-secret",
		AccessTokenExp:  accessExp,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "lectern.test",
	})
}

func testUser() *models.User {
	return &models.User{
		ID:    42,
		Email: "student@example.com",
		Role:  models.RoleStudent,
	}
}

func TestGenerateTokenPair(t *testing.T) {
	svc := newTestService(time.Hour)

	accessToken, refreshToken, expiresIn, refreshExpiresIn, err := svc.GenerateTokenPair(testUser())

	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)
	assert.Equal(t, int(time.Hour.Seconds()), expiresIn)
	assert.Equal(t, int((24 * time.Hour).Seconds()), refreshExpiresIn)

	claims, err := svc.ValidateAndExtractClaims(accessToken)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "student@example.com", claims.Email)
	assert.Equal(t, string(models.RoleStudent), claims.Role)
	assert.Equal(t, "lectern.test", claims.Issuer)
}

func TestGenerateTokenPair_UniqueRefreshTokens(t *testing.T) {
	svc := newTestService(time.Hour)

	_, first, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)
	_, second, _, _, err := svc.GenerateTokenPair(testUser())
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestValidateToken(t *testing.T) {
	t.Run("WrongSecret", func(t *testing.T) {
		svc := newTestService(time.Hour)
		accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
		require.NoError(t, err)

		other := NewJWTService(JWTConfig{
			SecretKey:       "a-different-secret",
			AccessTokenExp:  time.Hour,
			RefreshTokenExp: 24 * time.Hour,
		})
		_, err = other.ValidateToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("Expired", func(t *testing.T) {
		svc := newTestService(-time.Minute)
		accessToken, _, _, _, err := svc.GenerateTokenPair(testUser())
		require.NoError(t, err)

		_, err = svc.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Garbage", func(t *testing.T) {
		svc := newTestService(time.Hour)
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})

	t.Run("Empty", func(t *testing.T) {
		svc := newTestService(time.Hour)
		_, err := svc.ValidateAndExtractClaims("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	// A raw token without the Bearer prefix is accepted as-is
	token, err = ExtractBearerToken("abc123")
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	_, err = ExtractBearerToken("")
	assert.ErrorIs(t, err, ErrInvalidFormat)
}
