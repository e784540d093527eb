package dto

import "github.com/mert/lectern/internal/app/models"

// CreateCourseRequest represents a request to create a course
type CreateCourseRequest struct {
	Title       string             `json:"title" binding:"required,min=3,max=150"`
	Subtitle    *string            `json:"subtitle,omitempty"`
	Description *string            `json:"description,omitempty"`
	CategoryID  int64              `json:"categoryId" binding:"required,min=1"`
	Level       models.CourseLevel `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL_LEVELS"`
	Price       float64            `json:"price" binding:"gte=0"`
}

// UpdateCourseRequest represents a request to update a course
type UpdateCourseRequest struct {
	Title       string             `json:"title" binding:"required,min=3,max=150"`
	Subtitle    *string            `json:"subtitle,omitempty"`
	Description *string            `json:"description,omitempty"`
	CategoryID  int64              `json:"categoryId" binding:"required,min=1"`
	Level       models.CourseLevel `json:"level" binding:"required,oneof=BEGINNER INTERMEDIATE ADVANCED ALL_LEVELS"`
	Price       float64            `json:"price" binding:"gte=0"`
}

// PublishCourseRequest toggles the published state of a course
type PublishCourseRequest struct {
	Published *bool `json:"published" binding:"required"`
}

// CourseFilterRequest represents course list filters bound from the query string
type CourseFilterRequest struct {
	CategoryID   *int64  `form:"categoryId"`
	InstructorID *int64  `form:"instructorId"`
	Level        *string `form:"level"`
	Search       *string `form:"search"`
	Page         int     `form:"page,default=1"`
	PageSize     int     `form:"pageSize,default=10"`
}

// CourseResponse represents course information returned to clients
type CourseResponse struct {
	ID             int64   `json:"id"`
	Title          string  `json:"title"`
	Subtitle       *string `json:"subtitle,omitempty"`
	Description    *string `json:"description,omitempty"`
	Level          string  `json:"level"`
	Price          float64 `json:"price"`
	CoverImageURL  *string `json:"coverImageUrl,omitempty"`
	IsPublished    bool    `json:"isPublished"`
	CategoryID     int64   `json:"categoryId"`
	CategoryName   string  `json:"categoryName,omitempty"`
	InstructorID   int64   `json:"instructorId"`
	InstructorName string  `json:"instructorName,omitempty"`
}

// CourseListResponse represents the response for a list of courses with pagination
type CourseListResponse struct {
	Courses    []CourseResponse `json:"courses"`
	Pagination PaginationInfo   `json:"pagination"`
}

// FromCourse converts a course model to a CourseResponse
func FromCourse(course *models.Course) CourseResponse {
	if course == nil {
		return CourseResponse{}
	}

	resp := CourseResponse{
		ID:            course.ID,
		Title:         course.Title,
		Subtitle:      course.Subtitle,
		Description:   course.Description,
		Level:         string(course.Level),
		Price:         course.Price,
		CoverImageURL: course.CoverImageURL,
		IsPublished:   course.IsPublished,
		CategoryID:    course.CategoryID,
		InstructorID:  course.InstructorID,
	}

	if course.Category != nil {
		resp.CategoryName = course.Category.Name
	}
	if course.Instructor != nil {
		resp.InstructorName = course.Instructor.FullName()
	}

	return resp
}
