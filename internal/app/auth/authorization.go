package auth

import (
	"context"
	"fmt"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// CourseGetter resolves courses for authorization decisions
type CourseGetter interface {
	GetByID(ctx context.Context, id int64) (*models.Course, error)
}

// EnrollmentChecker reports whether a user holds an active enrollment
type EnrollmentChecker interface {
	IsUserEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
}

// AuthorizationService centralizes course-level access decisions
type AuthorizationService struct {
	courseRepo     CourseGetter
	enrollmentRepo EnrollmentChecker
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(courseRepo CourseGetter, enrollmentRepo EnrollmentChecker) *AuthorizationService {
	return &AuthorizationService{
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// IsAdmin reports whether a role carries administrative privileges
func (s *AuthorizationService) IsAdmin(role models.RoleType) bool {
	return role == models.RoleAdmin
}

// CanManageCourse checks that the actor owns the course or is an admin.
// Returns the course so callers do not have to load it twice.
func (s *AuthorizationService) CanManageCourse(ctx context.Context, actorID int64, role models.RoleType, courseID int64) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, err
	}

	if s.IsAdmin(role) {
		return course, nil
	}

	if course.InstructorID != actorID {
		return nil, apperrors.ErrNotCourseOwner
	}

	return course, nil
}

// CanAccessContent reports whether a user may see lecture content and join
// the course discussion. Owners, admins and actively enrolled users qualify.
func (s *AuthorizationService) CanAccessContent(ctx context.Context, userID int64, role models.RoleType, course *models.Course) (bool, error) {
	if s.IsAdmin(role) {
		return true, nil
	}

	if course.InstructorID == userID {
		return true, nil
	}

	if userID <= 0 {
		return false, nil
	}

	enrolled, err := s.enrollmentRepo.IsUserEnrolled(ctx, userID, course.ID)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}

	return enrolled, nil
}

// CanViewCourse reports whether a user may see a course at all.
// Unpublished courses are visible only to their owner and admins.
func (s *AuthorizationService) CanViewCourse(userID int64, role models.RoleType, course *models.Course) bool {
	if course.IsPublished {
		return true
	}
	return s.IsAdmin(role) || course.InstructorID == userID
}
