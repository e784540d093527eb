package services

import (
	"context"
	"time"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/repositories"
)

// Repository interfaces consumed by the services in this package. The
// concrete implementations live in the repositories package; tests
// substitute mocks.

// UserRepository persists user accounts
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, userID int64) error
}

// TokenRepository persists refresh tokens
type TokenRepository interface {
	CreateToken(ctx context.Context, token string, userID int64, expiryDate time.Time) error
	GetTokenByValue(ctx context.Context, token string) (int64, time.Time, bool, error)
	RevokeToken(ctx context.Context, token string) error
	RevokeAllUserTokens(ctx context.Context, userID int64) error
	DeleteExpiredTokens(ctx context.Context, before time.Time) (int64, error)
}

// CategoryRepository persists course categories
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	GetAll(ctx context.Context) ([]*models.Category, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	CountCourses(ctx context.Context, categoryID int64) (int64, error)
	Update(ctx context.Context, category *models.Category) error
	Delete(ctx context.Context, id int64) error
}

// CourseRepository persists courses
type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter, page, pageSize int) ([]*models.Course, int64, error)
	Update(ctx context.Context, course *models.Course) error
	SetPublished(ctx context.Context, id int64, published bool) error
	SetCoverImage(ctx context.Context, id int64, coverURL string) error
	Delete(ctx context.Context, id int64) error
	CountLectures(ctx context.Context, courseID int64) (int64, error)
}

// SectionRepository persists course sections
type SectionRepository interface {
	Create(ctx context.Context, section *models.Section) error
	GetByID(ctx context.Context, id int64) (*models.Section, error)
	GetByCourseID(ctx context.Context, courseID int64) ([]*models.Section, error)
	Update(ctx context.Context, section *models.Section) error
	Delete(ctx context.Context, id int64) error
}

// LectureRepository persists lectures
type LectureRepository interface {
	Create(ctx context.Context, lecture *models.Lecture) error
	GetByID(ctx context.Context, id int64) (*models.Lecture, error)
	GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Lecture, error)
	GetCourseID(ctx context.Context, lectureID int64) (int64, error)
	Update(ctx context.Context, lecture *models.Lecture) error
	Delete(ctx context.Context, id int64) error
}

// EnrollmentRepository persists enrollments and lecture progress
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	GetByID(ctx context.Context, id int64) (*models.Enrollment, error)
	GetActiveByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	GetLeftByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error)
	IsUserEnrolled(ctx context.Context, userID, courseID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Enrollment, int64, error)
	ListByCourse(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Enrollment, int64, error)
	UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error
	MarkLectureComplete(ctx context.Context, enrollmentID, lectureID int64) error
	CountCompletedLectures(ctx context.Context, enrollmentID int64) (int64, error)
}

// WishlistRepository persists wishlist items
type WishlistRepository interface {
	Add(ctx context.Context, item *models.WishlistItem) error
	Remove(ctx context.Context, userID, courseID int64) error
	Exists(ctx context.Context, userID, courseID int64) (bool, error)
	ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.WishlistItem, int64, error)
}

// DiscussionRepository persists course discussion messages
type DiscussionRepository interface {
	Create(ctx context.Context, message *models.DiscussionMessage) error
	ListByCourse(ctx context.Context, courseID int64, page, pageSize int) ([]*models.DiscussionMessage, int64, error)
}
