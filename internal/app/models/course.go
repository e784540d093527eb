package models

import "time"

// Course represents a course created by an instructor.
type Course struct {
	ID            int64       `json:"id" db:"id"`
	InstructorID  int64       `json:"instructorId" db:"instructor_id"`
	CategoryID    int64       `json:"categoryId" db:"category_id"`
	Title         string      `json:"title" db:"title"`
	Subtitle      *string     `json:"subtitle,omitempty" db:"subtitle"`       // Nullable
	Description   *string     `json:"description,omitempty" db:"description"` // Nullable
	Level         CourseLevel `json:"level" db:"level"`
	Price         float64     `json:"price" db:"price"`
	CoverImageURL *string     `json:"coverImageUrl,omitempty" db:"cover_image_url"` // Nullable
	IsPublished   bool        `json:"isPublished" db:"is_published"`
	CreatedAt     time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time   `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Category   *Category `json:"category,omitempty"`
	Instructor *User     `json:"instructor,omitempty"`
}

// Section represents an ordered chapter in a course curriculum.
type Section struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"position" db:"position"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`

	// Relations (populated when needed)
	Lectures []*Lecture `json:"lectures,omitempty"`
}

// Lecture represents a single content item within a section.
type Lecture struct {
	ID              int64     `json:"id" db:"id"`
	SectionID       int64     `json:"sectionId" db:"section_id"`
	Title           string    `json:"title" db:"title"`
	ContentURL      *string   `json:"contentUrl,omitempty" db:"content_url"` // Nullable, hidden for non-enrolled users
	DurationSeconds int       `json:"durationSeconds" db:"duration_seconds"`
	Position        int       `json:"position" db:"position"`
	IsPreview       bool      `json:"isPreview" db:"is_preview"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
