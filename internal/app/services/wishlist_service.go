package services

import (
	"context"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// WishlistService handles wishlist operations
type WishlistService struct {
	wishlistRepo WishlistRepository
	courseRepo   CourseRepository
}

// NewWishlistService creates a new WishlistService
func NewWishlistService(wishlistRepo WishlistRepository, courseRepo CourseRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		courseRepo:   courseRepo,
	}
}

// AddToWishlist puts a published course on the user's wishlist
func (s *WishlistService) AddToWishlist(ctx context.Context, userID, courseID int64) (*models.WishlistItem, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if !course.IsPublished {
		return nil, apperrors.ErrCourseNotFound
	}

	item := &models.WishlistItem{
		UserID:   userID,
		CourseID: courseID,
	}

	if err := s.wishlistRepo.Add(ctx, item); err != nil {
		return nil, err
	}

	item.Course = course
	return item, nil
}

// RemoveFromWishlist removes a course from the user's wishlist
func (s *WishlistService) RemoveFromWishlist(ctx context.Context, userID, courseID int64) error {
	return s.wishlistRepo.Remove(ctx, userID, courseID)
}

// GetWishlist retrieves the user's wishlist, newest first
func (s *WishlistService) GetWishlist(ctx context.Context, userID int64, page, pageSize int) ([]*models.WishlistItem, int64, error) {
	return s.wishlistRepo.ListByUser(ctx, userID, page, pageSize)
}
