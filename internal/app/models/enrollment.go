package models

import "time"

// Enrollment captures a student's registration to a course.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	UserID      int64            `json:"userId" db:"user_id"`
	CourseID    int64            `json:"courseId" db:"course_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`
	EnrolledAt  time.Time        `json:"enrolledAt" db:"enrolled_at"`
	CompletedAt *time.Time       `json:"completedAt,omitempty" db:"completed_at"` // Nullable
	LeftAt      *time.Time       `json:"leftAt,omitempty" db:"left_at"`           // Nullable

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
	User   *User   `json:"user,omitempty"`
}

// LectureProgress records a completed lecture within an enrollment.
type LectureProgress struct {
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id"`
	LectureID    int64     `json:"lectureId" db:"lecture_id"`
	CompletedAt  time.Time `json:"completedAt" db:"completed_at"`
}

// WishlistItem represents a course saved by a student for later.
type WishlistItem struct {
	ID       int64     `json:"id" db:"id"`
	UserID   int64     `json:"userId" db:"user_id"`
	CourseID int64     `json:"courseId" db:"course_id"`
	AddedAt  time.Time `json:"addedAt" db:"added_at"`

	// Relations (populated when needed)
	Course *Course `json:"course,omitempty"`
}
