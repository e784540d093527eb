package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// EnrollmentService handles enrollment lifecycle and lecture progress
type EnrollmentService struct {
	enrollmentRepo EnrollmentRepository
	courseRepo     CourseRepository
	lectureRepo    LectureRepository
	authz          *auth.AuthorizationService
	logger         zerolog.Logger
}

// NewEnrollmentService creates a new EnrollmentService
func NewEnrollmentService(
	enrollmentRepo EnrollmentRepository,
	courseRepo CourseRepository,
	lectureRepo LectureRepository,
	authz *auth.AuthorizationService,
	logger zerolog.Logger,
) *EnrollmentService {
	return &EnrollmentService{
		enrollmentRepo: enrollmentRepo,
		courseRepo:     courseRepo,
		lectureRepo:    lectureRepo,
		authz:          authz,
		logger:         logger,
	}
}

// Enroll enrolls a user in a published course. Instructors cannot enroll
// in their own courses. Re-enrolling after a drop reactivates the old
// enrollment so its lecture progress applies again.
func (s *EnrollmentService) Enroll(ctx context.Context, userID int64, courseID int64) (*models.Enrollment, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	// Drafts behave as missing to everyone who could enroll
	if !course.IsPublished {
		return nil, apperrors.ErrCourseNotFound
	}

	if course.InstructorID == userID {
		return nil, fmt.Errorf("%w: instructors cannot enroll in their own course", apperrors.ErrValidationFailed)
	}

	enrolled, err := s.enrollmentRepo.IsUserEnrolled(ctx, userID, courseID)
	if err != nil {
		return nil, err
	}
	if enrolled {
		return nil, apperrors.ErrAlreadyEnrolled
	}

	left, err := s.enrollmentRepo.GetLeftByUserAndCourse(ctx, userID, courseID)
	if err == nil {
		if err := s.enrollmentRepo.UpdateStatus(ctx, left.ID, models.EnrollmentActive); err != nil {
			return nil, err
		}
		left.Status = models.EnrollmentActive
		left.LeftAt = nil
		left.Course = course
		s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("User re-enrolled")
		return left, nil
	}
	if !errors.Is(err, apperrors.ErrEnrollmentNotFound) {
		return nil, err
	}

	enrollment := &models.Enrollment{
		UserID:   userID,
		CourseID: courseID,
	}

	if err := s.enrollmentRepo.Create(ctx, enrollment); err != nil {
		return nil, err
	}

	enrollment.Course = course
	s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("User enrolled")
	return enrollment, nil
}

// GetEnrollment retrieves an enrollment. Visible to the enrolled user,
// the course owner and admins.
func (s *EnrollmentService) GetEnrollment(ctx context.Context, enrollmentID, actorID int64, actorRole models.RoleType) (*models.Enrollment, error) {
	enrollment, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	if enrollment.UserID != actorID && !s.authz.IsAdmin(actorRole) {
		course, err := s.courseRepo.GetByID(ctx, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		if course.InstructorID != actorID {
			return nil, apperrors.ErrPermissionDenied
		}
	}

	return enrollment, nil
}

// Progress reports completed and total lecture counts for an enrollment
func (s *EnrollmentService) Progress(ctx context.Context, enrollment *models.Enrollment) (completed, total int64, err error) {
	completed, err = s.enrollmentRepo.CountCompletedLectures(ctx, enrollment.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting completed lectures: %w", err)
	}

	total, err = s.courseRepo.CountLectures(ctx, enrollment.CourseID)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting lectures: %w", err)
	}

	return completed, total, nil
}

// ListUserEnrollments retrieves a user's active and completed enrollments
func (s *EnrollmentService) ListUserEnrollments(ctx context.Context, userID int64, page, pageSize int) ([]*models.Enrollment, int64, error) {
	return s.enrollmentRepo.ListByUser(ctx, userID, page, pageSize)
}

// GetRoster retrieves the students of a course. Restricted to the course
// owner and admins.
func (s *EnrollmentService) GetRoster(ctx context.Context, courseID, actorID int64, actorRole models.RoleType, page, pageSize int) ([]*models.Enrollment, int64, error) {
	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID); err != nil {
		return nil, 0, err
	}

	return s.enrollmentRepo.ListByCourse(ctx, courseID, page, pageSize)
}

// CompleteLecture marks a lecture as completed within the user's active
// enrollment. When every lecture of the course is completed the
// enrollment transitions to COMPLETED.
func (s *EnrollmentService) CompleteLecture(ctx context.Context, userID, lectureID int64) (*models.Enrollment, error) {
	courseID, err := s.lectureRepo.GetCourseID(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	enrollment, err := s.enrollmentRepo.GetActiveByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return nil, apperrors.ErrNotEnrolled
		}
		return nil, err
	}

	if err := s.enrollmentRepo.MarkLectureComplete(ctx, enrollment.ID, lectureID); err != nil {
		return nil, err
	}

	completed, total, err := s.Progress(ctx, enrollment)
	if err != nil {
		return nil, err
	}

	if enrollment.Status == models.EnrollmentActive && total > 0 && completed >= total {
		if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, models.EnrollmentCompleted); err != nil {
			return nil, err
		}
		enrollment.Status = models.EnrollmentCompleted
		s.logger.Info().Int64("enrollmentId", enrollment.ID).Msg("Course completed")
	}

	return enrollment, nil
}

// Drop marks the user's active enrollment in a course as LEFT. The
// lecture progress rows are kept so re-enrolling resumes where the
// student stopped.
func (s *EnrollmentService) Drop(ctx context.Context, userID, courseID int64) error {
	enrollment, err := s.enrollmentRepo.GetActiveByUserAndCourse(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, apperrors.ErrEnrollmentNotFound) {
			return apperrors.ErrNotEnrolled
		}
		return err
	}

	if err := s.enrollmentRepo.UpdateStatus(ctx, enrollment.ID, models.EnrollmentLeft); err != nil {
		return err
	}

	s.logger.Info().Int64("userId", userID).Int64("courseId", courseID).Msg("User left course")
	return nil
}
