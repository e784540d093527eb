package dto

import "github.com/mert/lectern/internal/app/models"

// EnrollRequest represents a request to enroll in a course
type EnrollRequest struct {
	CourseID int64 `json:"courseId" binding:"required,min=1"`
}

// CompleteLectureRequest marks a lecture as completed within an enrollment
type CompleteLectureRequest struct {
	LectureID int64 `json:"lectureId" binding:"required,min=1"`
}

// EnrollmentResponse represents enrollment information returned to clients
type EnrollmentResponse struct {
	ID                int64          `json:"id"`
	CourseID          int64          `json:"courseId"`
	Status            string         `json:"status"`
	EnrolledAt        string         `json:"enrolledAt"`
	CompletedLectures int64          `json:"completedLectures"`
	TotalLectures     int64          `json:"totalLectures"`
	Course            *CourseResponse `json:"course,omitempty"`
}

// EnrollmentListResponse represents the response for a list of enrollments
type EnrollmentListResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
	Pagination  PaginationInfo       `json:"pagination"`
}

// RosterEntry represents a single student in a course roster
type RosterEntry struct {
	EnrollmentID int64  `json:"enrollmentId"`
	UserID       int64  `json:"userId"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	EnrolledAt   string `json:"enrolledAt"`
}

// RosterResponse represents the roster of a course with pagination
type RosterResponse struct {
	Students   []RosterEntry  `json:"students"`
	Pagination PaginationInfo `json:"pagination"`
}

// FromEnrollment converts an enrollment model to an EnrollmentResponse
func FromEnrollment(enrollment *models.Enrollment, completed, total int64) EnrollmentResponse {
	if enrollment == nil {
		return EnrollmentResponse{}
	}

	resp := EnrollmentResponse{
		ID:                enrollment.ID,
		CourseID:          enrollment.CourseID,
		Status:            string(enrollment.Status),
		EnrolledAt:        enrollment.EnrolledAt.Format("2006-01-02T15:04:05Z07:00"),
		CompletedLectures: completed,
		TotalLectures:     total,
	}

	if enrollment.Course != nil {
		course := FromCourse(enrollment.Course)
		resp.Course = &course
	}

	return resp
}
