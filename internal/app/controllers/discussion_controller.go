package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/services"
	"github.com/mert/lectern/internal/middleware"
	"github.com/mert/lectern/internal/pkg/helpers"
	"github.com/mert/lectern/internal/pkg/websocket"
)

// DiscussionController handles course discussion endpoints: REST access
// to the history plus the WebSocket upgrade for live messages.
type DiscussionController struct {
	discussionService *services.DiscussionService
	hub               *websocket.Hub
}

// NewDiscussionController creates a new DiscussionController
func NewDiscussionController(discussionService *services.DiscussionService, hub *websocket.Hub) *DiscussionController {
	return &DiscussionController{
		discussionService: discussionService,
		hub:               hub,
	}
}

// GetHistory retrieves a course's discussion history
// @Summary Get discussion history
// @Description Retrieves a course's discussion messages, newest first. Requires enrollment, course ownership or an admin role.
// @Tags discussions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param page query int false "Page number" default(1)
// @Param pageSize query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.DiscussionHistoryResponse} "Messages"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/discussion [get]
func (c *DiscussionController) GetHistory(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	page, pageSize := helpers.ParsePaginationParams(ctx)

	messages, total, err := c.discussionService.GetHistory(ctx, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), courseID, page, pageSize)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	responses := make([]dto.DiscussionMessageResponse, 0, len(messages))
	for _, message := range messages {
		responses = append(responses, dto.FromDiscussionMessage(message))
	}

	ctx.JSON(http.StatusOK, dto.APIResponse{
		Data: dto.DiscussionHistoryResponse{
			Messages:   responses,
			Pagination: helpers.NewPaginationInfo(total, page, pageSize),
		},
		Timestamp: time.Now(),
	})
}

// PostMessage posts a discussion message over REST
// @Summary Post a discussion message
// @Description Posts a message to a course's discussion. The message is also broadcast to connected WebSocket clients.
// @Tags discussions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.PostMessageRequest true "Message"
// @Success 201 {object} dto.APIResponse{data=dto.DiscussionMessageResponse} "Message posted"
// @Failure 400 {object} dto.ErrorResponse "Invalid message"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/{id}/discussion [post]
func (c *DiscussionController) PostMessage(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.PostMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return
	}

	message, err := c.discussionService.PostMessage(ctx, middleware.CurrentUserID(ctx), middleware.CurrentUserRole(ctx), courseID, req.Content)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.hub.BroadcastMessage(message)

	ctx.JSON(http.StatusCreated, dto.APIResponse{
		Data:      dto.FromDiscussionMessage(message),
		Timestamp: time.Now(),
	})
}

// JoinDiscussion upgrades the connection to a WebSocket for live messages
// @Summary Join the live discussion
// @Description Upgrades the request to a WebSocket connection scoped to the course's discussion room. Requires enrollment, course ownership or an admin role.
// @Tags discussions
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 101 "Switching protocols"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Not enrolled in this course"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id}/discussion/ws [get]
func (c *DiscussionController) JoinDiscussion(ctx *gin.Context) {
	courseID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	userID := middleware.CurrentUserID(ctx)
	role := middleware.CurrentUserRole(ctx)

	allowed, err := c.discussionService.CanParticipate(ctx, userID, role, courseID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !allowed {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "You are not enrolled in this course")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return
	}

	websocket.ServeWS(c.hub, ctx, userID, courseID)
}
