package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/pkg/apperrors"
	pkgAuth "github.com/mert/lectern/internal/pkg/auth"
)

func newTestJWTService() *pkgAuth.JWTService {
	return pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       "test-secret-key-for-unit-tests",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "lectern.test",
	})
}

func setupAuthService(t *testing.T) (*AuthService, *MockUserRepository, *MockTokenRepository) {
	t.Helper()
	userRepo := new(MockUserRepository)
	tokenRepo := new(MockTokenRepository)
	svc := NewAuthService(userRepo, tokenRepo, newTestJWTService(), zerolog.Nop())
	return svc, userRepo, tokenRepo
}

func TestAuthService_Register(t *testing.T) {
	validReq := func() *dto.RegisterRequest {
		return &dto.RegisterRequest{
			Email:     "student@example.com",
			Password:  "secret123",
			FirstName: "Ada",
			LastName:  "Lovelace",
			Role:      models.RoleStudent,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		userRepo.On("EmailExists", mock.Anything, "student@example.com").Return(false, nil)
		userRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

		user, err := svc.Register(context.Background(), validReq())

		require.NoError(t, err)
		assert.Equal(t, "student@example.com", user.Email)
		assert.Equal(t, models.RoleStudent, user.Role)
		assert.True(t, user.IsActive)
		assert.NotEqual(t, "secret123", user.Password, "password must be stored hashed")
		userRepo.AssertExpectations(t)
	})

	t.Run("InvalidEmail", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)
		req := validReq()
		req.Email = "not-an-email"

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidEmail)
	})

	t.Run("WeakPassword", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)
		req := validReq()
		req.Password = "onlyletters"

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrInvalidPassword)
	})

	t.Run("AdminRoleRejected", func(t *testing.T) {
		svc, _, _ := setupAuthService(t)
		req := validReq()
		req.Role = models.RoleAdmin

		_, err := svc.Register(context.Background(), req)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("DuplicateEmail", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		userRepo.On("EmailExists", mock.Anything, "student@example.com").Return(true, nil)

		_, err := svc.Register(context.Background(), validReq())
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	hashed, err := pkgAuth.HashPassword("secret123")
	require.NoError(t, err)

	activeUser := func() *models.User {
		return &models.User{
			ID:       7,
			Email:    "student@example.com",
			Password: hashed,
			Role:     models.RoleStudent,
			IsActive: true,
		}
	}

	t.Run("Success", func(t *testing.T) {
		svc, userRepo, tokenRepo := setupAuthService(t)
		userRepo.On("GetByEmail", mock.Anything, "student@example.com").Return(activeUser(), nil)
		tokenRepo.On("CreateToken", mock.Anything, mock.AnythingOfType("string"), int64(7), mock.AnythingOfType("time.Time")).Return(nil)
		userRepo.On("UpdateLastLogin", mock.Anything, int64(7)).Return(nil)

		user, tokens, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "student@example.com",
			Password: "secret123",
		})

		require.NoError(t, err)
		assert.Equal(t, int64(7), user.ID)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEmpty(t, tokens.RefreshToken)
		assert.Equal(t, "Bearer", tokens.TokenType)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		userRepo.On("GetByEmail", mock.Anything, "student@example.com").Return(activeUser(), nil)

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "student@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("UnknownEmailMapsToInvalidCredentials", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		userRepo.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, apperrors.ErrUserNotFound)

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "ghost@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("DisabledAccount", func(t *testing.T) {
		svc, userRepo, _ := setupAuthService(t)
		disabled := activeUser()
		disabled.IsActive = false
		userRepo.On("GetByEmail", mock.Anything, "student@example.com").Return(disabled, nil)

		_, _, err := svc.Login(context.Background(), &dto.LoginRequest{
			Email:    "student@example.com",
			Password: "secret123",
		})
		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	user := &models.User{ID: 7, Email: "student@example.com", Role: models.RoleStudent, IsActive: true}

	t.Run("RotatesToken", func(t *testing.T) {
		svc, userRepo, tokenRepo := setupAuthService(t)
		tokenRepo.On("GetTokenByValue", mock.Anything, "old-token").
			Return(int64(7), time.Now().Add(time.Hour), false, nil)
		userRepo.On("GetByID", mock.Anything, int64(7)).Return(user, nil)
		tokenRepo.On("RevokeToken", mock.Anything, "old-token").Return(nil)
		tokenRepo.On("CreateToken", mock.Anything, mock.AnythingOfType("string"), int64(7), mock.AnythingOfType("time.Time")).Return(nil)

		tokens, err := svc.RefreshToken(context.Background(), "old-token")

		require.NoError(t, err)
		assert.NotEmpty(t, tokens.AccessToken)
		assert.NotEqual(t, "old-token", tokens.RefreshToken)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("RevokedToken", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("GetTokenByValue", mock.Anything, "revoked-token").
			Return(int64(7), time.Now().Add(time.Hour), true, nil)

		_, err := svc.RefreshToken(context.Background(), "revoked-token")
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("GetTokenByValue", mock.Anything, "expired-token").
			Return(int64(7), time.Now().Add(-time.Minute), false, nil)

		_, err := svc.RefreshToken(context.Background(), "expired-token")
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})
}

func TestAuthService_LogoutAll(t *testing.T) {
	t.Run("RevokesEveryToken", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("RevokeAllUserTokens", mock.Anything, int64(7)).Return(nil)

		err := svc.LogoutAll(context.Background(), 7)

		require.NoError(t, err)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("RevokeAllUserTokens", mock.Anything, int64(7)).Return(assert.AnError)

		err := svc.LogoutAll(context.Background(), 7)

		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestAuthService_CleanupExpiredTokens(t *testing.T) {
	t.Run("ReportsDeletedCount", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("DeleteExpiredTokens", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(int64(3), nil)

		deleted, err := svc.CleanupExpiredTokens(context.Background())

		require.NoError(t, err)
		assert.Equal(t, int64(3), deleted)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		svc, _, tokenRepo := setupAuthService(t)
		tokenRepo.On("DeleteExpiredTokens", mock.Anything, mock.AnythingOfType("time.Time")).
			Return(int64(0), assert.AnError)

		_, err := svc.CleanupExpiredTokens(context.Background())

		assert.ErrorIs(t, err, assert.AnError)
	})
}
