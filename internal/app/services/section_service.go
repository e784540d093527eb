package services

import (
	"context"

	"github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// SectionService handles curriculum section operations
type SectionService struct {
	sectionRepo SectionRepository
	lectureRepo LectureRepository
	authz       *auth.AuthorizationService
}

// NewSectionService creates a new SectionService
func NewSectionService(sectionRepo SectionRepository, lectureRepo LectureRepository, authz *auth.AuthorizationService) *SectionService {
	return &SectionService{
		sectionRepo: sectionRepo,
		lectureRepo: lectureRepo,
		authz:       authz,
	}
}

// CreateSection adds a section to a course owned by the actor. Without an
// explicit position the section is appended at the end.
func (s *SectionService) CreateSection(ctx context.Context, courseID, actorID int64, actorRole models.RoleType, req *dto.CreateSectionRequest) (*models.Section, error) {
	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID); err != nil {
		return nil, err
	}

	section := &models.Section{
		CourseID: courseID,
		Title:    req.Title,
	}
	if req.Position != nil {
		section.Position = *req.Position
	}

	if err := s.sectionRepo.Create(ctx, section); err != nil {
		return nil, err
	}

	return section, nil
}

// GetCurriculum retrieves a course's sections with their lectures, in
// position order. Lecture content URLs are included only when the viewer
// may access the course content.
func (s *SectionService) GetCurriculum(ctx context.Context, courseID, viewerID int64, viewerRole models.RoleType, course *models.Course) ([]*models.Section, bool, error) {
	includeContent, err := s.authz.CanAccessContent(ctx, viewerID, viewerRole, course)
	if err != nil {
		return nil, false, err
	}

	sections, err := s.sectionRepo.GetByCourseID(ctx, courseID)
	if err != nil {
		return nil, false, err
	}

	for _, section := range sections {
		lectures, err := s.lectureRepo.GetBySectionID(ctx, section.ID)
		if err != nil {
			return nil, false, err
		}
		section.Lectures = lectures
	}

	return sections, includeContent, nil
}

// UpdateSection updates a section's title and position
func (s *SectionService) UpdateSection(ctx context.Context, sectionID, actorID int64, actorRole models.RoleType, req *dto.UpdateSectionRequest) (*models.Section, error) {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, err
	}

	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, section.CourseID); err != nil {
		return nil, err
	}

	section.Title = req.Title
	if req.Position != nil {
		section.Position = *req.Position
	}

	if err := s.sectionRepo.Update(ctx, section); err != nil {
		return nil, err
	}

	return section, nil
}

// DeleteSection removes a section and its lectures
func (s *SectionService) DeleteSection(ctx context.Context, sectionID, actorID int64, actorRole models.RoleType) error {
	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return err
	}

	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, section.CourseID); err != nil {
		return err
	}

	return s.sectionRepo.Delete(ctx, sectionID)
}

// GetSection retrieves a single section with its lectures, verifying it
// belongs to the given course. Lecture content URLs follow the same
// visibility rules as the full curriculum.
func (s *SectionService) GetSection(ctx context.Context, courseID, sectionID, viewerID int64, viewerRole models.RoleType, course *models.Course) (*models.Section, bool, error) {
	includeContent, err := s.authz.CanAccessContent(ctx, viewerID, viewerRole, course)
	if err != nil {
		return nil, false, err
	}

	section, err := s.sectionRepo.GetByID(ctx, sectionID)
	if err != nil {
		return nil, false, err
	}
	if section.CourseID != courseID {
		return nil, false, apperrors.ErrSectionNotFound
	}

	lectures, err := s.lectureRepo.GetBySectionID(ctx, section.ID)
	if err != nil {
		return nil, false, err
	}
	section.Lectures = lectures

	return section, includeContent, nil
}
