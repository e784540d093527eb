package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appAuth "github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

func setupEnrollmentService(t *testing.T) (*EnrollmentService, *MockEnrollmentRepository, *MockCourseRepository, *MockLectureRepository) {
	t.Helper()
	enrollmentRepo := new(MockEnrollmentRepository)
	courseRepo := new(MockCourseRepository)
	lectureRepo := new(MockLectureRepository)
	authz := appAuth.NewAuthorizationService(courseRepo, enrollmentRepo)
	svc := NewEnrollmentService(enrollmentRepo, courseRepo, lectureRepo, authz, zerolog.Nop())
	return svc, enrollmentRepo, courseRepo, lectureRepo
}

func publishedCourse() *models.Course {
	return &models.Course{
		ID:           10,
		InstructorID: 2,
		Title:        "Intro to Go",
		IsPublished:  true,
	}
}

func TestEnrollmentService_Enroll(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(false, nil)
		enrollmentRepo.On("GetLeftByUserAndCourse", mock.Anything, int64(5), int64(10)).
			Return(nil, apperrors.ErrEnrollmentNotFound)
		enrollmentRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Enrollment")).Return(nil)

		enrollment, err := svc.Enroll(context.Background(), 5, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(5), enrollment.UserID)
		assert.Equal(t, int64(10), enrollment.CourseID)
		assert.NotNil(t, enrollment.Course)
		enrollmentRepo.AssertExpectations(t)
	})

	t.Run("UnpublishedCourseBehavesAsMissing", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		draft := publishedCourse()
		draft.IsPublished = false
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draft, nil)

		_, err := svc.Enroll(context.Background(), 5, 10)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
		enrollmentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("OwnCourse", func(t *testing.T) {
		svc, _, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)

		_, err := svc.Enroll(context.Background(), 2, 10)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})

	t.Run("AlreadyEnrolled", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(true, nil)

		_, err := svc.Enroll(context.Background(), 5, 10)
		assert.ErrorIs(t, err, apperrors.ErrAlreadyEnrolled)
		enrollmentRepo.AssertNotCalled(t, "Create")
	})

	t.Run("ReEnrollReactivatesDroppedEnrollment", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("IsUserEnrolled", mock.Anything, int64(5), int64(10)).Return(false, nil)

		leftAt := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
		enrollmentRepo.On("GetLeftByUserAndCourse", mock.Anything, int64(5), int64(10)).Return(&models.Enrollment{
			ID:       4,
			UserID:   5,
			CourseID: 10,
			Status:   models.EnrollmentLeft,
			LeftAt:   &leftAt,
		}, nil)
		enrollmentRepo.On("UpdateStatus", mock.Anything, int64(4), models.EnrollmentActive).Return(nil)

		enrollment, err := svc.Enroll(context.Background(), 5, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(4), enrollment.ID, "the old enrollment row keeps its progress")
		assert.Equal(t, models.EnrollmentActive, enrollment.Status)
		assert.Nil(t, enrollment.LeftAt)
		enrollmentRepo.AssertNotCalled(t, "Create")
	})
}

func TestEnrollmentService_CompleteLecture(t *testing.T) {
	activeEnrollment := func() *models.Enrollment {
		return &models.Enrollment{
			ID:       33,
			UserID:   5,
			CourseID: 10,
			Status:   models.EnrollmentActive,
		}
	}

	t.Run("MarksProgress", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, lectureRepo := setupEnrollmentService(t)
		lectureRepo.On("GetCourseID", mock.Anything, int64(100)).Return(int64(10), nil)
		enrollmentRepo.On("GetActiveByUserAndCourse", mock.Anything, int64(5), int64(10)).Return(activeEnrollment(), nil)
		enrollmentRepo.On("MarkLectureComplete", mock.Anything, int64(33), int64(100)).Return(nil)
		enrollmentRepo.On("CountCompletedLectures", mock.Anything, int64(33)).Return(int64(3), nil)
		courseRepo.On("CountLectures", mock.Anything, int64(10)).Return(int64(8), nil)

		enrollment, err := svc.CompleteLecture(context.Background(), 5, 100)

		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentActive, enrollment.Status)
		enrollmentRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LastLectureCompletesEnrollment", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, lectureRepo := setupEnrollmentService(t)
		lectureRepo.On("GetCourseID", mock.Anything, int64(100)).Return(int64(10), nil)
		enrollmentRepo.On("GetActiveByUserAndCourse", mock.Anything, int64(5), int64(10)).Return(activeEnrollment(), nil)
		enrollmentRepo.On("MarkLectureComplete", mock.Anything, int64(33), int64(100)).Return(nil)
		enrollmentRepo.On("CountCompletedLectures", mock.Anything, int64(33)).Return(int64(8), nil)
		courseRepo.On("CountLectures", mock.Anything, int64(10)).Return(int64(8), nil)
		enrollmentRepo.On("UpdateStatus", mock.Anything, int64(33), models.EnrollmentCompleted).Return(nil)

		enrollment, err := svc.CompleteLecture(context.Background(), 5, 100)

		require.NoError(t, err)
		assert.Equal(t, models.EnrollmentCompleted, enrollment.Status)
		enrollmentRepo.AssertExpectations(t)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		svc, enrollmentRepo, _, lectureRepo := setupEnrollmentService(t)
		lectureRepo.On("GetCourseID", mock.Anything, int64(100)).Return(int64(10), nil)
		enrollmentRepo.On("GetActiveByUserAndCourse", mock.Anything, int64(5), int64(10)).
			Return(nil, apperrors.ErrEnrollmentNotFound)

		_, err := svc.CompleteLecture(context.Background(), 5, 100)
		assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	})
}

func TestEnrollmentService_Drop(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, enrollmentRepo, _, _ := setupEnrollmentService(t)
		enrollmentRepo.On("GetActiveByUserAndCourse", mock.Anything, int64(5), int64(10)).
			Return(&models.Enrollment{ID: 33, UserID: 5, CourseID: 10, Status: models.EnrollmentActive}, nil)
		enrollmentRepo.On("UpdateStatus", mock.Anything, int64(33), models.EnrollmentLeft).Return(nil)

		err := svc.Drop(context.Background(), 5, 10)
		require.NoError(t, err)
		enrollmentRepo.AssertExpectations(t)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		svc, enrollmentRepo, _, _ := setupEnrollmentService(t)
		enrollmentRepo.On("GetActiveByUserAndCourse", mock.Anything, int64(5), int64(10)).
			Return(nil, apperrors.ErrEnrollmentNotFound)

		err := svc.Drop(context.Background(), 5, 10)
		assert.ErrorIs(t, err, apperrors.ErrNotEnrolled)
	})
}

func TestEnrollmentService_GetRoster(t *testing.T) {
	t.Run("OwnerAllowed", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("ListByCourse", mock.Anything, int64(10), 1, 10).
			Return([]*models.Enrollment{{ID: 33, UserID: 5, CourseID: 10}}, int64(1), nil)

		roster, total, err := svc.GetRoster(context.Background(), 10, 2, models.RoleInstructor, 1, 10)

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Len(t, roster, 1)
	})

	t.Run("OtherInstructorForbidden", func(t *testing.T) {
		svc, _, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)

		_, _, err := svc.GetRoster(context.Background(), 10, 99, models.RoleInstructor, 1, 10)
		assert.ErrorIs(t, err, apperrors.ErrNotCourseOwner)
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		svc, enrollmentRepo, courseRepo, _ := setupEnrollmentService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(publishedCourse(), nil)
		enrollmentRepo.On("ListByCourse", mock.Anything, int64(10), 1, 10).
			Return([]*models.Enrollment{}, int64(0), nil)

		_, _, err := svc.GetRoster(context.Background(), 10, 99, models.RoleAdmin, 1, 10)
		assert.NoError(t, err)
	})
}
