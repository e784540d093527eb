package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/services"
	"github.com/mert/lectern/internal/middleware"
	"github.com/mert/lectern/internal/pkg/helpers"
)

// WishlistController handles wishlist endpoints
type WishlistController struct {
	wishlistService *services.WishlistService
}

// NewWishlistController creates a new WishlistController
func NewWishlistController(wishlistService *services.WishlistService) *WishlistController {
	return &WishlistController{wishlistService: wishlistService}
}

// AddToWishlist puts a course on the authenticated user's wishlist
// @Summary Add a course to the wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Course to wishlist"
// @Success 201 {object} dto.APIResponse{data=dto.WishlistItemResponse} "Added to wishlist"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Course already wishlisted"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /wishlist [post]
func (c *WishlistController) AddToWishlist(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	item, err := c.wishlistService.AddToWishlist(ctx, middleware.CurrentUserID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromWishlistItem(item),
		Timestamp: time.Now(),
	})
}

// GetWishlist retrieves the authenticated user's wishlist
// @Summary Get own wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.WishlistResponse} "Wishlist"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /wishlist [get]
func (c *WishlistController) GetWishlist(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	items, total, err := c.wishlistService.GetWishlist(ctx, middleware.CurrentUserID(ctx), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.WishlistItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, dto.FromWishlistItem(item))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.WishlistResponse{
			Items:      responses,
			Pagination: helpers.NewPaginationInfo(total, page, pageSize),
		},
		Timestamp: time.Now(),
	})
}

// RemoveFromWishlist removes a course from the authenticated user's wishlist
// @Summary Remove a course from the wishlist
// @Tags wishlist
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Removed from wishlist"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not in the wishlist"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /wishlist/{courseId} [delete]
func (c *WishlistController) RemoveFromWishlist(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.wishlistService.RemoveFromWishlist(ctx, middleware.CurrentUserID(ctx), courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Course removed from wishlist"},
		Timestamp: time.Now(),
	})
}
