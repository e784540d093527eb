package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/repositories"
	"github.com/mert/lectern/internal/pkg/apperrors"
	"github.com/mert/lectern/internal/pkg/filestorage"
)

// CourseService handles course lifecycle operations
type CourseService struct {
	courseRepo   CourseRepository
	categoryRepo CategoryRepository
	authz        *auth.AuthorizationService
	storage      filestorage.FileStorage
	logger       zerolog.Logger
}

// NewCourseService creates a new CourseService
func NewCourseService(
	courseRepo CourseRepository,
	categoryRepo CategoryRepository,
	authz *auth.AuthorizationService,
	storage filestorage.FileStorage,
	logger zerolog.Logger,
) *CourseService {
	return &CourseService{
		courseRepo:   courseRepo,
		categoryRepo: categoryRepo,
		authz:        authz,
		storage:      storage,
		logger:       logger,
	}
}

// CreateCourse creates an unpublished course owned by the instructor
func (s *CourseService) CreateCourse(ctx context.Context, instructorID int64, req *dto.CreateCourseRequest) (*models.Course, error) {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		return nil, err
	}

	course := &models.Course{
		InstructorID: instructorID,
		CategoryID:   req.CategoryID,
		Title:        req.Title,
		Subtitle:     req.Subtitle,
		Description:  req.Description,
		Level:        req.Level,
		Price:        req.Price,
		IsPublished:  false,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", course.ID).Int64("instructorId", instructorID).Msg("Course created")

	// Reload to attach category and instructor details
	return s.courseRepo.GetByID(ctx, course.ID)
}

// GetCourse retrieves a course. Unpublished courses are only visible to
// their owner and to admins; everyone else gets a not-found.
func (s *CourseService) GetCourse(ctx context.Context, id, viewerID int64, viewerRole models.RoleType) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.authz.CanViewCourse(viewerID, viewerRole, course) {
		return nil, apperrors.ErrCourseNotFound
	}

	return course, nil
}

// ListPublishedCourses retrieves published courses matching the filters
func (s *CourseService) ListPublishedCourses(ctx context.Context, req *dto.CourseFilterRequest) ([]*models.Course, int64, error) {
	filter := repositories.CourseFilter{
		CategoryID:    req.CategoryID,
		InstructorID:  req.InstructorID,
		Search:        req.Search,
		PublishedOnly: true,
	}

	if req.Level != nil {
		level := models.CourseLevel(*req.Level)
		if !models.ValidCourseLevel(level) {
			return nil, 0, fmt.Errorf("%w: unknown course level %q", apperrors.ErrValidationFailed, *req.Level)
		}
		filter.Level = &level
	}

	return s.courseRepo.List(ctx, filter, req.Page, req.PageSize)
}

// ListOwnCourses retrieves an instructor's courses, drafts included
func (s *CourseService) ListOwnCourses(ctx context.Context, instructorID int64, page, pageSize int) ([]*models.Course, int64, error) {
	filter := repositories.CourseFilter{
		InstructorID: &instructorID,
	}
	return s.courseRepo.List(ctx, filter, page, pageSize)
}

// UpdateCourse updates a course owned by the actor
func (s *CourseService) UpdateCourse(ctx context.Context, courseID, actorID int64, actorRole models.RoleType, req *dto.UpdateCourseRequest) (*models.Course, error) {
	course, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != course.CategoryID {
		if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
			return nil, err
		}
	}

	course.Title = req.Title
	course.Subtitle = req.Subtitle
	course.Description = req.Description
	course.CategoryID = req.CategoryID
	course.Level = req.Level
	course.Price = req.Price

	if err := s.courseRepo.Update(ctx, course); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, courseID)
}

// SetPublished publishes or unpublishes a course. Publishing requires at
// least one lecture in the curriculum.
func (s *CourseService) SetPublished(ctx context.Context, courseID, actorID int64, actorRole models.RoleType, published bool) (*models.Course, error) {
	if _, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID); err != nil {
		return nil, err
	}

	if published {
		lectures, err := s.courseRepo.CountLectures(ctx, courseID)
		if err != nil {
			return nil, fmt.Errorf("error counting lectures: %w", err)
		}
		if lectures == 0 {
			return nil, fmt.Errorf("%w: a course needs at least one lecture before publishing", apperrors.ErrValidationFailed)
		}
	}

	if err := s.courseRepo.SetPublished(ctx, courseID, published); err != nil {
		return nil, err
	}

	s.logger.Info().Int64("courseId", courseID).Bool("published", published).Msg("Course publish state changed")
	return s.courseRepo.GetByID(ctx, courseID)
}

// UploadCoverImage stores a cover image for a course and records its URL
func (s *CourseService) UploadCoverImage(ctx context.Context, courseID, actorID int64, actorRole models.RoleType, fileHeader *multipart.FileHeader) (*models.Course, error) {
	course, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID)
	if err != nil {
		return nil, err
	}

	coverURL, err := s.storage.SaveFile(fileHeader, "covers")
	if err != nil {
		if errors.Is(err, filestorage.ErrUnsupportedFileType) || errors.Is(err, filestorage.ErrFileTooLarge) {
			return nil, apperrors.NewBadRequestError(err.Error())
		}
		return nil, err
	}

	if course.CoverImageURL != nil {
		if err := s.storage.DeleteFile(*course.CoverImageURL); err != nil {
			s.logger.Warn().Err(err).Int64("courseId", courseID).Msg("Failed to delete old cover image")
		}
	}

	if err := s.courseRepo.SetCoverImage(ctx, courseID, coverURL); err != nil {
		return nil, err
	}

	return s.courseRepo.GetByID(ctx, courseID)
}

// DeleteCourse removes a course and, through cascades, its curriculum,
// enrollments and wishlist entries.
func (s *CourseService) DeleteCourse(ctx context.Context, courseID, actorID int64, actorRole models.RoleType) error {
	course, err := s.authz.CanManageCourse(ctx, actorID, actorRole, courseID)
	if err != nil {
		return err
	}

	if err := s.courseRepo.Delete(ctx, courseID); err != nil {
		return err
	}

	if course.CoverImageURL != nil {
		if err := s.storage.DeleteFile(*course.CoverImageURL); err != nil {
			s.logger.Warn().Err(err).Int64("courseId", courseID).Msg("Failed to delete cover image")
		}
	}

	s.logger.Info().Int64("courseId", courseID).Msg("Course deleted")
	return nil
}
