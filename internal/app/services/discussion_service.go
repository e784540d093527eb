package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// DiscussionService handles course discussion messages. Posting and
// reading require content access: enrollment, ownership or an admin role.
type DiscussionService struct {
	discussionRepo DiscussionRepository
	courseRepo     CourseRepository
	userRepo       UserRepository
	authz          *auth.AuthorizationService
}

// NewDiscussionService creates a new DiscussionService
func NewDiscussionService(
	discussionRepo DiscussionRepository,
	courseRepo CourseRepository,
	userRepo UserRepository,
	authz *auth.AuthorizationService,
) *DiscussionService {
	return &DiscussionService{
		discussionRepo: discussionRepo,
		courseRepo:     courseRepo,
		userRepo:       userRepo,
		authz:          authz,
	}
}

// CanParticipate reports whether a user may read and post in a course's
// discussion
func (s *DiscussionService) CanParticipate(ctx context.Context, userID int64, role models.RoleType, courseID int64) (bool, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return false, err
	}
	return s.authz.CanAccessContent(ctx, userID, role, course)
}

// PostMessage persists a discussion message and returns it with the
// sender attached
func (s *DiscussionService) PostMessage(ctx context.Context, userID int64, role models.RoleType, courseID int64, content string) (*models.DiscussionMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message cannot be empty", apperrors.ErrValidationFailed)
	}

	allowed, err := s.CanParticipate(ctx, userID, role, courseID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NewForbiddenError("only enrolled students and the instructor can post in the discussion")
	}

	message := &models.DiscussionMessage{
		CourseID: courseID,
		SenderID: userID,
		Content:  content,
	}

	if err := s.discussionRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, userID)
	if err == nil {
		message.Sender = sender
	}

	return message, nil
}

// GetHistory retrieves a course's discussion history, newest first
func (s *DiscussionService) GetHistory(ctx context.Context, userID int64, role models.RoleType, courseID int64, page, pageSize int) ([]*models.DiscussionMessage, int64, error) {
	allowed, err := s.CanParticipate(ctx, userID, role, courseID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, apperrors.NewForbiddenError("only enrolled students and the instructor can read the discussion")
	}

	return s.discussionRepo.ListByCourse(ctx, courseID, page, pageSize)
}
