package dto

import "github.com/mert/lectern/internal/app/models"

// CreateSectionRequest represents a request to add a section to a course
type CreateSectionRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=150"`
	Position *int   `json:"position,omitempty" binding:"omitempty,min=1"`
}

// UpdateSectionRequest represents a request to update a section
type UpdateSectionRequest struct {
	Title    string `json:"title" binding:"required,min=3,max=150"`
	Position *int   `json:"position,omitempty" binding:"omitempty,min=1"`
}

// CreateLectureRequest represents a request to add a lecture to a section
type CreateLectureRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=150"`
	ContentURL      *string `json:"contentUrl,omitempty" binding:"omitempty,url"`
	DurationSeconds int     `json:"durationSeconds" binding:"gte=0"`
	Position        *int    `json:"position,omitempty" binding:"omitempty,min=1"`
	IsPreview       bool    `json:"isPreview"`
}

// UpdateLectureRequest represents a request to update a lecture
type UpdateLectureRequest struct {
	Title           string  `json:"title" binding:"required,min=3,max=150"`
	ContentURL      *string `json:"contentUrl,omitempty" binding:"omitempty,url"`
	DurationSeconds int     `json:"durationSeconds" binding:"gte=0"`
	Position        *int    `json:"position,omitempty" binding:"omitempty,min=1"`
	IsPreview       bool    `json:"isPreview"`
}

// LectureResponse represents lecture information returned to clients.
// ContentURL is omitted unless the caller may access the lecture content.
type LectureResponse struct {
	ID              int64   `json:"id"`
	SectionID       int64   `json:"sectionId"`
	Title           string  `json:"title"`
	ContentURL      *string `json:"contentUrl,omitempty"`
	DurationSeconds int     `json:"durationSeconds"`
	Position        int     `json:"position"`
	IsPreview       bool    `json:"isPreview"`
}

// SectionResponse represents a section with its lectures
type SectionResponse struct {
	ID       int64             `json:"id"`
	CourseID int64             `json:"courseId"`
	Title    string            `json:"title"`
	Position int               `json:"position"`
	Lectures []LectureResponse `json:"lectures,omitempty"`
}

// FromLecture converts a lecture model to a LectureResponse.
// When includeContent is false the content URL is hidden unless the
// lecture is marked as a free preview.
func FromLecture(lecture *models.Lecture, includeContent bool) LectureResponse {
	if lecture == nil {
		return LectureResponse{}
	}

	resp := LectureResponse{
		ID:              lecture.ID,
		SectionID:       lecture.SectionID,
		Title:           lecture.Title,
		DurationSeconds: lecture.DurationSeconds,
		Position:        lecture.Position,
		IsPreview:       lecture.IsPreview,
	}

	if includeContent || lecture.IsPreview {
		resp.ContentURL = lecture.ContentURL
	}

	return resp
}

// FromSection converts a section model (with lectures) to a SectionResponse
func FromSection(section *models.Section, includeContent bool) SectionResponse {
	if section == nil {
		return SectionResponse{}
	}

	resp := SectionResponse{
		ID:       section.ID,
		CourseID: section.CourseID,
		Title:    section.Title,
		Position: section.Position,
	}

	for _, lecture := range section.Lectures {
		resp.Lectures = append(resp.Lectures, FromLecture(lecture, includeContent))
	}

	return resp
}
