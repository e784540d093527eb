package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appAuth "github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

func setupDiscussionService(t *testing.T) (*DiscussionService, *MockDiscussionRepository, *MockCourseRepository, *MockEnrollmentRepository, *MockUserRepository) {
	t.Helper()
	discussionRepo := new(MockDiscussionRepository)
	courseRepo := new(MockCourseRepository)
	enrollmentRepo := new(MockEnrollmentRepository)
	userRepo := new(MockUserRepository)
	authz := appAuth.NewAuthorizationService(courseRepo, enrollmentRepo)
	svc := NewDiscussionService(discussionRepo, courseRepo, userRepo, authz)
	return svc, discussionRepo, courseRepo, enrollmentRepo, userRepo
}

func TestDiscussionService_PostMessage(t *testing.T) {
	t.Run("EnrolledStudent", func(t *testing.T) {
		svc, discussionRepo, courseRepo, enrollmentRepo, userRepo := setupDiscussionService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(true, nil)
		discussionRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.DiscussionMessage")).Return(nil)
		userRepo.On("GetByID", mock.Anything, int64(5)).Return(&models.User{ID: 5, FirstName: "Ada"}, nil)

		message, err := svc.PostMessage(context.Background(), 5, models.RoleStudent, 10, "  hello there  ")

		require.NoError(t, err)
		assert.Equal(t, "hello there", message.Content, "content is trimmed")
		assert.NotNil(t, message.Sender)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		svc, discussionRepo, courseRepo, enrollmentRepo, _ := setupDiscussionService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(false, nil)

		_, err := svc.PostMessage(context.Background(), 5, models.RoleStudent, 10, "hello")
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
		discussionRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CourseOwnerAllowed", func(t *testing.T) {
		svc, discussionRepo, courseRepo, _, userRepo := setupDiscussionService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		discussionRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.DiscussionMessage")).Return(nil)
		userRepo.On("GetByID", mock.Anything, int64(2)).Return(&models.User{ID: 2}, nil)

		_, err := svc.PostMessage(context.Background(), 2, models.RoleInstructor, 10, "welcome everyone")
		assert.NoError(t, err)
	})

	t.Run("EmptyMessage", func(t *testing.T) {
		svc, _, _, _, _ := setupDiscussionService(t)

		_, err := svc.PostMessage(context.Background(), 5, models.RoleStudent, 10, "   ")
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestDiscussionService_GetHistory(t *testing.T) {
	t.Run("EnrolledStudent", func(t *testing.T) {
		svc, discussionRepo, courseRepo, enrollmentRepo, _ := setupDiscussionService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(true, nil)
		discussionRepo.On("ListByCourse", mock.Anything, int64(10), 1, 20).
			Return([]*models.DiscussionMessage{{ID: 1, CourseID: 10, Content: "hi"}}, int64(1), nil)

		messages, total, err := svc.GetHistory(context.Background(), 5, models.RoleStudent, 10, 1, 20)

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, messages, 1)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		svc, _, courseRepo, enrollmentRepo, _ := setupDiscussionService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(99), int64(10)).Return(false, nil)

		_, _, err := svc.GetHistory(context.Background(), 99, models.RoleStudent, 10, 1, 20)
		assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	})
}
