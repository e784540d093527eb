package services

import (
	"context"
	"mime/multipart"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	appAuth "github.com/mert/lectern/internal/app/auth"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/app/repositories"
	"github.com/mert/lectern/internal/pkg/apperrors"
	"github.com/mert/lectern/internal/pkg/filestorage"
)

type stubFileStorage struct {
	saveErr  error
	savedURL string
	deleted  []string
}

func (s *stubFileStorage) SaveFile(fileHeader *multipart.FileHeader, subPath string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	return s.savedURL, nil
}

func (s *stubFileStorage) DeleteFile(filePath string) error {
	s.deleted = append(s.deleted, filePath)
	return nil
}

func setupCourseService(t *testing.T) (*CourseService, *MockCourseRepository, *MockCategoryRepository, *MockEnrollmentRepository) {
	t.Helper()
	courseRepo := new(MockCourseRepository)
	categoryRepo := new(MockCategoryRepository)
	enrollmentRepo := new(MockEnrollmentRepository)
	authz := appAuth.NewAuthorizationService(courseRepo, enrollmentRepo)
	svc := NewCourseService(courseRepo, categoryRepo, authz, nil, zerolog.Nop())
	return svc, courseRepo, categoryRepo, enrollmentRepo
}

func draftCourse() *models.Course {
	return &models.Course{
		ID:           10,
		InstructorID: 2,
		CategoryID:   3,
		Title:        "Intro to Go",
		Level:        models.LevelBeginner,
		IsPublished:  false,
	}
}

func TestCourseService_GetCourse(t *testing.T) {
	t.Run("PublishedVisibleToAnyone", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		course := draftCourse()
		course.IsPublished = true
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(course, nil)

		got, err := svc.GetCourse(context.Background(), 10, 0, "")
		require.NoError(t, err)
		assert.Equal(t, int64(10), got.ID)
	})

	t.Run("DraftHiddenFromStudents", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		_, err := svc.GetCourse(context.Background(), 10, 5, models.RoleStudent)
		assert.ErrorIs(t, err, apperrors.ErrCourseNotFound)
	})

	t.Run("DraftVisibleToOwner", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		got, err := svc.GetCourse(context.Background(), 10, 2, models.RoleInstructor)
		require.NoError(t, err)
		assert.False(t, got.IsPublished)
	})

	t.Run("DraftVisibleToAdmin", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		_, err := svc.GetCourse(context.Background(), 10, 99, models.RoleAdmin)
		assert.NoError(t, err)
	})
}

func TestCourseService_CreateCourse(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		svc, courseRepo, categoryRepo, _ := setupCourseService(t)
		categoryRepo.On("GetByID", mock.Anything, int64(3)).Return(&models.Category{ID: 3}, nil)
		courseRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Course")).Return(nil)
		courseRepo.On("GetByID", mock.Anything, mock.AnythingOfType("int64")).Return(draftCourse(), nil)

		course, err := svc.CreateCourse(context.Background(), 2, &dto.CreateCourseRequest{
			Title:      "Intro to Go",
			CategoryID: 3,
			Level:      models.LevelBeginner,
			Price:      29.99,
		})

		require.NoError(t, err)
		assert.False(t, course.IsPublished, "new courses start as drafts")
	})

	t.Run("UnknownCategory", func(t *testing.T) {
		svc, _, categoryRepo, _ := setupCourseService(t)
		categoryRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, apperrors.ErrCategoryNotFound)

		_, err := svc.CreateCourse(context.Background(), 2, &dto.CreateCourseRequest{
			Title:      "Intro to Go",
			CategoryID: 99,
			Level:      models.LevelBeginner,
		})
		assert.ErrorIs(t, err, apperrors.ErrCategoryNotFound)
	})
}

func TestCourseService_SetPublished(t *testing.T) {
	t.Run("PublishWithLectures", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)
		courseRepo.On("CountLectures", mock.Anything, int64(10)).Return(int64(4), nil)
		courseRepo.On("SetPublished", mock.Anything, int64(10), true).Return(nil)

		_, err := svc.SetPublished(context.Background(), 10, 2, models.RoleInstructor, true)
		require.NoError(t, err)
		courseRepo.AssertExpectations(t)
	})

	t.Run("PublishEmptyCourseRejected", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)
		courseRepo.On("CountLectures", mock.Anything, int64(10)).Return(int64(0), nil)

		_, err := svc.SetPublished(context.Background(), 10, 2, models.RoleInstructor, true)
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		courseRepo.AssertNotCalled(t, "SetPublished", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnpublishSkipsLectureCheck", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		published := draftCourse()
		published.IsPublished = true
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(published, nil)
		courseRepo.On("SetPublished", mock.Anything, int64(10), false).Return(nil)

		_, err := svc.SetPublished(context.Background(), 10, 2, models.RoleInstructor, false)
		require.NoError(t, err)
		courseRepo.AssertNotCalled(t, "CountLectures", mock.Anything, mock.Anything)
	})

	t.Run("NotOwner", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		_, err := svc.SetPublished(context.Background(), 10, 99, models.RoleInstructor, true)
		assert.ErrorIs(t, err, apperrors.ErrNotCourseOwner)
	})
}

func TestCourseService_ListPublishedCourses(t *testing.T) {
	t.Run("ForcesPublishedFilter", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.CourseFilter) bool {
			return f.PublishedOnly
		}), 1, 10).Return([]*models.Course{}, int64(0), nil)

		_, _, err := svc.ListPublishedCourses(context.Background(), &dto.CourseFilterRequest{Page: 1, PageSize: 10})
		require.NoError(t, err)
		courseRepo.AssertExpectations(t)
	})

	t.Run("LevelFilterPassedThrough", func(t *testing.T) {
		svc, courseRepo, _, _ := setupCourseService(t)
		courseRepo.On("List", mock.Anything, mock.MatchedBy(func(f repositories.CourseFilter) bool {
			return f.Level != nil && *f.Level == models.LevelBeginner && f.PublishedOnly
		}), 1, 10).Return([]*models.Course{}, int64(0), nil)

		level := string(models.LevelBeginner)
		_, _, err := svc.ListPublishedCourses(context.Background(), &dto.CourseFilterRequest{
			Level: &level, Page: 1, PageSize: 10,
		})
		require.NoError(t, err)
		courseRepo.AssertExpectations(t)
	})

	t.Run("UnknownLevelRejected", func(t *testing.T) {
		svc, _, _, _ := setupCourseService(t)
		level := "EXPERT"

		_, _, err := svc.ListPublishedCourses(context.Background(), &dto.CourseFilterRequest{
			Level: &level, Page: 1, PageSize: 10,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	})
}

func TestCourseService_UploadCoverImage(t *testing.T) {
	newServiceWithStorage := func(t *testing.T, storage filestorage.FileStorage) (*CourseService, *MockCourseRepository) {
		t.Helper()
		courseRepo := new(MockCourseRepository)
		categoryRepo := new(MockCategoryRepository)
		enrollmentRepo := new(MockEnrollmentRepository)
		authz := appAuth.NewAuthorizationService(courseRepo, enrollmentRepo)
		return NewCourseService(courseRepo, categoryRepo, authz, storage, zerolog.Nop()), courseRepo
	}

	t.Run("Success", func(t *testing.T) {
		storage := &stubFileStorage{savedURL: "http://localhost:8080/uploads/covers/new.png"}
		svc, courseRepo := newServiceWithStorage(t, storage)

		oldCover := "http://localhost:8080/uploads/covers/old.png"
		course := draftCourse()
		course.CoverImageURL = &oldCover
		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(course, nil)
		courseRepo.On("SetCoverImage", mock.Anything, int64(10), storage.savedURL).Return(nil)

		_, err := svc.UploadCoverImage(context.Background(), 10, 2, models.RoleInstructor, &multipart.FileHeader{Filename: "new.png"})

		require.NoError(t, err)
		assert.Equal(t, []string{oldCover}, storage.deleted)
		courseRepo.AssertExpectations(t)
	})

	t.Run("InvalidUploadMapsToBadRequest", func(t *testing.T) {
		storage := &stubFileStorage{saveErr: filestorage.ErrUnsupportedFileType}
		svc, courseRepo := newServiceWithStorage(t, storage)

		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		_, err := svc.UploadCoverImage(context.Background(), 10, 2, models.RoleInstructor, &multipart.FileHeader{Filename: "payload.exe"})

		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		assert.Contains(t, err.Error(), "unsupported file type")
		courseRepo.AssertNotCalled(t, "SetCoverImage")
	})

	t.Run("OversizedUploadMapsToBadRequest", func(t *testing.T) {
		storage := &stubFileStorage{saveErr: filestorage.ErrFileTooLarge}
		svc, courseRepo := newServiceWithStorage(t, storage)

		courseRepo.On("GetByID", mock.Anything, int64(10)).Return(draftCourse(), nil)

		_, err := svc.UploadCoverImage(context.Background(), 10, 2, models.RoleInstructor, &multipart.FileHeader{Filename: "huge.png"})

		assert.ErrorIs(t, err, apperrors.ErrBadRequest)
		courseRepo.AssertNotCalled(t, "SetCoverImage")
	})
}
