package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/services"
	"github.com/mert/lectern/internal/middleware"
)

// SectionController handles curriculum section endpoints
type SectionController struct {
	sectionService *services.SectionService
	courseService  *services.CourseService
}

// NewSectionController creates a new SectionController
func NewSectionController(sectionService *services.SectionService, courseService *services.CourseService) *SectionController {
	return &SectionController{
		sectionService: sectionService,
		courseService:  courseService,
	}
}

// CreateSection adds a section to a course
// @Summary Create a section
// @Description Adds a section to a course. Without an explicit position the section is appended at the end.
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CreateSectionRequest true "Section data"
// @Success 201 {object} dto.APIResponse{data=dto.SectionResponse} "Section created"
// @Failure 400 {object} dto.ErrorResponse "Invalid section data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/sections [post]
func (c *SectionController) CreateSection(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.CreateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	section, err := c.sectionService.CreateSection(ctx, courseID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromSection(section, true),
		Timestamp: time.Now(),
	})
}

// GetCurriculum retrieves a course's sections with their lectures
// @Summary Get course curriculum
// @Description Retrieves the sections and lectures of a course in position order. Lecture content URLs are included only for enrolled users, the course owner and admins; free previews are visible to everyone.
// @Tags curriculum
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=[]dto.SectionResponse} "Curriculum"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/sections [get]
func (c *SectionController) GetCurriculum(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	viewerRole := middleware.CurrentUserRole(ctx)

	course, err := c.courseService.GetCourse(ctx, courseID, viewerID, viewerRole)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	sections, includeContent, err := c.sectionService.GetCurriculum(ctx, courseID, viewerID, viewerRole, course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.SectionResponse, 0, len(sections))
	for _, section := range sections {
		responses = append(responses, dto.FromSection(section, includeContent))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      responses,
		Timestamp: time.Now(),
	})
}

// GetSection retrieves a single section of a course
// @Summary Get a section
// @Tags curriculum
// @Produce json
// @Param id path int true "Course ID"
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse} "Section"
// @Failure 400 {object} dto.ErrorResponse "Invalid ID"
// @Failure 404 {object} dto.ErrorResponse "Course or section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/sections/{sectionId} [get]
func (c *SectionController) GetSection(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	viewerID := middleware.CurrentUserID(ctx)
	viewerRole := middleware.CurrentUserRole(ctx)

	course, err := c.courseService.GetCourse(ctx, courseID, viewerID, viewerRole)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	section, includeContent, err := c.sectionService.GetSection(ctx, courseID, sectionID, viewerID, viewerRole, course)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromSection(section, includeContent),
		Timestamp: time.Now(),
	})
}

// UpdateSection updates a section
// @Summary Update a section
// @Tags curriculum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Param request body dto.UpdateSectionRequest true "Section data"
// @Success 200 {object} dto.APIResponse{data=dto.SectionResponse} "Updated section"
// @Failure 400 {object} dto.ErrorResponse "Invalid section data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id} [put]
func (c *SectionController) UpdateSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.UpdateSectionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	section, err := c.sectionService.UpdateSection(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromSection(section, true),
		Timestamp: time.Now(),
	})
}

// DeleteSection removes a section and its lectures
// @Summary Delete a section
// @Tags curriculum
// @Produce json
// @Security BearerAuth
// @Param id path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Section deleted"
// @Failure 400 {object} dto.ErrorResponse "Invalid section ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Section not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sections/{id} [delete]
func (c *SectionController) DeleteSection(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.sectionService.DeleteSection(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx)); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Section deleted successfully"},
		Timestamp: time.Now(),
	})
}
