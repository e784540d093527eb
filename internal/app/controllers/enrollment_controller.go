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

// EnrollmentController handles enrollment and progress endpoints
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{enrollmentService: enrollmentService}
}

// Enroll enrolls the authenticated user in a course
// @Summary Enroll in a course
// @Description Enrolls the authenticated user in a published course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Course to enroll in"
// @Success 201 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrolled"
// @Failure 400 {object} dto.ErrorResponse "Course not published or invalid request"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "Already enrolled"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, middleware.CurrentUserID(ctx), req.CourseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	completed, total, err := c.enrollmentService.Progress(ctx, enrollment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromEnrollment(enrollment, completed, total),
		Timestamp: time.Now(),
	})
}

// ListMyEnrollments retrieves the authenticated user's enrollments
// @Summary List own enrollments
// @Description Retrieves the authenticated user's active and completed enrollments with progress
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentListResponse} "Enrollments"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments [get]
func (c *EnrollmentController) ListMyEnrollments(ctx *gin.Context) {
	page, pageSize := helpers.ParsePaginationParams(ctx)

	enrollments, total, err := c.enrollmentService.ListUserEnrollments(ctx, middleware.CurrentUserID(ctx), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.EnrollmentResponse, 0, len(enrollments))
	for _, enrollment := range enrollments {
		completed, totalLectures, err := c.enrollmentService.Progress(ctx, enrollment)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		responses = append(responses, dto.FromEnrollment(enrollment, completed, totalLectures))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.EnrollmentListResponse{
			Enrollments: responses,
			Pagination:  helpers.NewPaginationInfo(total, page, pageSize),
		},
		Timestamp: time.Now(),
	})
}

// GetEnrollment retrieves an enrollment by ID
// @Summary Get enrollment by ID
// @Description Retrieves an enrollment with progress. Visible to the enrolled user, the course owner and admins.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Enrollment"
// @Failure 400 {object} dto.ErrorResponse "Invalid enrollment ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not allowed to view this enrollment"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/{id} [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	enrollment, err := c.enrollmentService.GetEnrollment(ctx, id, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	completed, total, err := c.enrollmentService.Progress(ctx, enrollment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromEnrollment(enrollment, completed, total),
		Timestamp: time.Now(),
	})
}

// CompleteLecture marks a lecture as completed
// @Summary Complete a lecture
// @Description Marks a lecture as completed within the authenticated user's active enrollment. Completing the last lecture transitions the enrollment to COMPLETED.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CompleteLectureRequest true "Lecture to mark completed"
// @Success 200 {object} dto.APIResponse{data=dto.EnrollmentResponse} "Updated enrollment"
// @Failure 400 {object} dto.ErrorResponse "Not enrolled in the lecture's course"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 404 {object} dto.ErrorResponse "Lecture not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/progress [post]
func (c *EnrollmentController) CompleteLecture(ctx *gin.Context) {
	var req dto.CompleteLectureRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	enrollment, err := c.enrollmentService.CompleteLecture(ctx, middleware.CurrentUserID(ctx), req.LectureID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	completed, total, err := c.enrollmentService.Progress(ctx, enrollment)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.FromEnrollment(enrollment, completed, total),
		Timestamp: time.Now(),
	})
}

// Drop leaves a course
// @Summary Leave a course
// @Description Marks the authenticated user's active enrollment in the course as LEFT. Progress is kept.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Left the course"
// @Failure 400 {object} dto.ErrorResponse "Not enrolled in this course"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /enrollments/courses/{courseId} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "courseId")
	if !ok {
		return
	}

	if err := c.enrollmentService.Drop(ctx, middleware.CurrentUserID(ctx), courseID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data:      dto.SuccessResponse{Message: "Left the course successfully"},
		Timestamp: time.Now(),
	})
}

// GetRoster retrieves the students of a course
// @Summary Get course roster
// @Description Retrieves the students enrolled in a course. Restricted to the course owner and admins.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.RosterResponse} "Roster"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not the course owner"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/roster [get]
func (c *EnrollmentController) GetRoster(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	enrollments, total, err := c.enrollmentService.GetRoster(ctx, courseID, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	entries := make([]dto.RosterEntry, 0, len(enrollments))
	for _, enrollment := range enrollments {
		entry := dto.RosterEntry{
			EnrollmentID: enrollment.ID,
			UserID:       enrollment.UserID,
			Status:       string(enrollment.Status),
			EnrolledAt:   enrollment.EnrolledAt.Format(time.RFC3339),
		}
		if enrollment.User != nil {
			entry.FullName = enrollment.User.FullName()
			entry.Email = enrollment.User.Email
		}
		entries = append(entries, entry)
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.RosterResponse{
			Students:   entries,
			Pagination: helpers.NewPaginationInfo(total, page, pageSize),
		},
		Timestamp: time.Now(),
	})
}
