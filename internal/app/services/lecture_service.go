package services

import (
	"context"

	"github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
)

// LectureService handles lecture operations
type LectureService struct {
	lectureRepo LectureRepository
	sectionRepo SectionRepository
	courseRepo  CourseRepository
	authz       *auth.AuthorizationService
}

// NewLectureService creates a new LectureService
func NewLectureService(lectureRepo LectureRepository, sectionRepo SectionRepository, courseRepo CourseRepository, authz *auth.AuthorizationService) *LectureService {
	return &LectureService{
		lectureRepo: lectureRepo,
		sectionRepo: sectionRepo,
		courseRepo:  courseRepo,
		authz:       authz,
	}
}

// CreateLecture adds a lecture to a section of a course owned by the actor.
// Without an explicit position the lecture is appended at the end of the
// section.
func (s *LectureService) CreateLecture(ctx context.Context, sectionID, actorID int64, actorRole models.RoleType, req *dto.CreateLectureRequest) (*models.Lecture, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, section.CourseID); err != nil {
		return nil, err
	}

	lecture := &models.Lecture{
		SectionID:       sectionID,
		Title:           req.Title,
		ContentURL:      req.ContentURL,
		DurationSeconds: req.DurationSeconds,
		IsPreview:       req.IsPreview,
	}
	if req.Position != nil {
		lecture.Position = *req.Position
	}

	if err := s.lectureRepo.Create(ctx, lecture); err != nil {
		return nil, err
	}

	return lecture, nil
}

// GetLecture retrieves a lecture and reports whether the viewer may see
// its content URL. Previews are visible to everyone; otherwise access
// requires enrollment, ownership or an admin role.
func (s *LectureService) GetLecture(ctx context.Context, lectureID, viewerID int64, viewerRole models.RoleType) (*models.Lecture, bool, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, false, err
	}

	courseID, err := s.lectureRepo.GetCourseID(ctx, lectureID)
	if err != nil {
		return nil, false, err
	}

	course, err := s.courseRepo.GetByID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	includeContent, err := s.authz.CanAccessContent(ctx, viewerID, viewerRole, course)
	if err != nil {
		return nil, false, err
	}

	return lecture, includeContent, nil
}

// UpdateLecture updates a lecture's metadata and content URL
func (s *LectureService) UpdateLecture(ctx context.Context, lectureID, actorID int64, actorRole models.RoleType, req *dto.UpdateLectureRequest) (*models.Lecture, error) {
	lecture, err := s.lectureRepo.GetByID(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	courseID, err := s.lectureRepo.GetCourseID(ctx, lectureID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID); err != nil {
		return nil, err
	}

	lecture.Title = req.Title
	lecture.ContentURL = req.ContentURL
	lecture.DurationSeconds = req.DurationSeconds
	lecture.IsPreview = req.IsPreview
	if req.Position != nil {
		lecture.Position = *req.Position
	}

	if err := s.lectureRepo.Update(ctx, lecture); err != nil {
		return nil, err
	}

	return lecture, nil
}

// DeleteLecture removes a lecture
func (s *LectureService) DeleteLecture(ctx context.Context, lectureID, actorID int64, actorRole models.RoleType) error {
	courseID, err := s.lectureRepo.GetCourseID(ctx, lectureID)
	if err != nil {
		return err
	}

	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID); err != nil {
		return err
	}

	return s.lectureRepo.Delete(ctx, lectureID)
}
