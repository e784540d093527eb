package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/services"
	"github.com/mert/lectern/internal/middleware"
)

// LectureController handles lecture endpoints
type LectureController struct {
	lectureService *services.LectureService
}

// NewLectureController creates a new LectureController
func NewLectureController(lectureService *services.LectureService) *LectureController {
	return &LectureController{lectureService: lectureService}
}

// CreateLecture adds a lecture to a section
// @Summary Create a lecture
// @Description Adds a lecture to a section. Without an explicit position the lecture is appended at the end of the section.
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.CreateLectureRequest true "Lecture data"
// @Success 201 {object} dto.APIResponse{data=dto.LectureResponse} "Lecture created"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecture data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id}/lectures [post]
func (c *LectureController) CreateLecture(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateLectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lecture, err := c.lectureService.CreateLecture(ctx, sectionID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromLecture(lecture, true),
		Timestamp: time.Now(),
	})
}

// GetLecture retrieves a lecture
// @Summary Get lecture by ID
// @Description Retrieves a lecture. The content URL is included only for enrolled users, the course owner and admins, or when the lecture is a free preview.
// @Tags curriculum
// @Produce json
// @Param id path int true "Lecture ID"
// @Success 200 {object} dto.APIResponse{data=dto.LectureResponse} "Lecture"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecture ID"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lectures/{id} [get]
func (c *LectureController) GetLecture(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	lecture, includeContent, err := c.lectureService.GetLecture(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLecture(lecture, includeContent),
		Timestamp: time.Now(),
	})
}

// UpdateLecture updates a lecture
// @Summary Update a lecture
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Param request body dto.UpdateLectureRequest true "Lecture data"
// @Success 200 {object} dto.APIResponse{data=dto.LectureResponse} "Updated lecture"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecture data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lectures/{id} [put]
func (c *LectureController) UpdateLecture(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateLectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	lecture, err := c.lectureService.UpdateLecture(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromLecture(lecture, true),
		Timestamp: time.Now(),
	})
}

// DeleteLecture removes a lecture
// @Summary Delete a lecture
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Lecture ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Lecture deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid lecture ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /lectures/{id} [delete]
func (c *LectureController) DeleteLecture(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.lectureService.DeleteLecture(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Lecture deleted successfully"},
		Timestamp: time.Now(),
	})
}
