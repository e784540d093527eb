package dto

import "github.com/mert/lectern/internal/app/models"

// WishlistItemResponse represents a wishlist entry returned to clients
type WishlistItemResponse struct {
	ID      int64           `json:"id"`
	AddedAt string          `json:"addedAt"`
	Course  *CourseResponse `json:"course,omitempty"`
}

// WishlistResponse represents the response for a user's wishlist
type WishlistResponse struct {
	Items      []WishlistItemResponse `json:"items"`
	Pagination PaginationInfo         `json:"pagination"`
}

// FromWishlistItem converts a wishlist item model to a response DTO
func FromWishlistItem(item *models.WishlistItem) WishlistItemResponse {
	if item == nil {
		return WishlistItemResponse{}
	}

	resp := WishlistItemResponse{
		ID:      item.ID,
		AddedAt: item.AddedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if item.Course != nil {
		course := FromCourse(item.Course)
		resp.Course = &course
	}

	return resp
}
