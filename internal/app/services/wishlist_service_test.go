package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

func TestWishlistService_AddToWishlist(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepository)
		courseRepo := new(MockCourseRepository)
		svc := NewWishlistService(wishlistRepo, courseRepo)

		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		wishlistRepo.On("Add", mock.Anything, mock.AnythingOfType("*models.WishlistItem")).Return(nil)

		item, err := svc.AddToWishlist(context.Background(), 5, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(5), item.UserID)
		assert.NotNil(t, item.Course)
	})

	t.Run("DraftCourseHidden", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepository)
		courseRepo := new(MockCourseRepository)
		svc := NewWishlistService(wishlistRepo, courseRepo)

		draft := publishedCourse()
		draft.IsPublished = false
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draft, nil)

		_, err := svc.AddToWishlist(context.Background(), 5, 10)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		wishlistRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	})

	t.Run("Duplicate", func(t *testing.T) {
		wishlistRepo := new(MockWishlistRepository)
		courseRepo := new(MockCourseRepository)
		svc := NewWishlistService(wishlistRepo, courseRepo)

		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		wishlistRepo.On("Add", mock.Anything, mock.AnythingOfType("*models.WishlistItem")).
			Return(apperrors.ErrAlreadyWishlisted)

		_, err := svc.AddToWishlist(context.Background(), 5, 10)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyWishlisted)
	})
}

func TestWishlistService_RemoveFromWishlist(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	courseRepo := new(MockCourseRepository)
	svc := NewWishlistService(wishlistRepo, courseRepo)

	wishlistRepo.On("Remove", mock.Anything, int64(5), int64(10)).Return(apperrors.ErrWishlistItemNotFound)

	err := svc.RemoveFromWishlist(context.Background(), 5, 10)
	assert.ErrorIs(t, err, apperrors.ErrWishlistItemNotFound)
}

func TestWishlistService_GetWishlist(t *testing.T) {
	wishlistRepo := new(MockWishlistRepository)
	courseRepo := new(MockCourseRepository)
	svc := NewWishlistService(wishlistRepo, courseRepo)

	items := []*models.WishlistItem{{ID: 1, UserID: 5, CourseID: 10}}
	wishlistRepo.On("ListByUser", mock.Anything, int64(5), 1, 10).Return(items, int64(1), nil)

	got, total, err := svc.GetWishlist(context.Background(), 5, 1, 10)

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, got, 1)
}
