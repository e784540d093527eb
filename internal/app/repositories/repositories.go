package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	UserRepository       *UserRepository
	TokenRepository      *TokenRepository
	CategoryRepository   *CategoryRepository
	CourseRepository     *CourseRepository
	SectionRepository    *SectionRepository
	LectureRepository    *LectureRepository
	EnrollmentRepository *EnrollmentRepository
	WishlistRepository   *WishlistRepository
	DiscussionRepository *DiscussionRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:       NewUserRepository(db),
		TokenRepository:      NewTokenRepository(db),
		CategoryRepository:   NewCategoryRepository(db),
		CourseRepository:     NewCourseRepository(db),
		SectionRepository:    NewSectionRepository(db),
		LectureRepository:    NewLectureRepository(db),
		EnrollmentRepository: NewEnrollmentRepository(db),
		WishlistRepository:   NewWishlistRepository(db),
		DiscussionRepository: NewDiscussionRepository(db),
	}
}
