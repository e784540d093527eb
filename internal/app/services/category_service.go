package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/app/models/dto"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// CategoryService handles category operations. Mutations are restricted
// to administrators at the routing layer.
type CategoryService struct {
	categoryRepo CategoryRepository
}

// NewCategoryService creates a new CategoryService
func NewCategoryService(categoryRepo CategoryRepository) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

// generateSlug derives a URL-friendly slug from a category name
func generateSlug(name string) string {
	var b strings.Builder
	lastDash := true

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// CreateCategory creates a new category
func (s *CategoryService) CreateCategory(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, fmt.Errorf("error checking category name: %w", err)
	}
	if exists {
		return nil, apperrors.ErrCategoryAlreadyExists
	}

	category := &models.Category{
		Name:        name,
		Slug:        generateSlug(name),
		Description: req.Description,
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// GetCategoryByID retrieves a category with its course count
func (s *CategoryService) GetCategoryByID(ctx context.Context, id int64) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.categoryRepo.CountCourses(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error counting courses: %w", err)
	}
	category.CourseCount = count

	return category, nil
}

// GetAllCategories retrieves all categories ordered by name, with course counts
func (s *CategoryService) GetAllCategories(ctx context.Context) ([]*models.Category, error) {
	categories, err := s.categoryRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, category := range categories {
		count, err := s.categoryRepo.CountCourses(ctx, category.ID)
		if err != nil {
			return nil, fmt.Errorf("error counting courses: %w", err)
		}
		category.CourseCount = count
	}

	return categories, nil
}

// UpdateCategory updates a category's name and description; the slug
// follows the new name.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, req *dto.UpdateCategoryRequest) (*models.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name cannot be empty", apperrors.ErrValidationFailed)
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.categoryRepo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, fmt.Errorf("error checking category name: %w", err)
	}
	if exists {
		return nil, apperrors.ErrCategoryAlreadyExists
	}

	category.Name = name
	category.Slug = generateSlug(name)
	category.Description = req.Description

	if err := s.categoryRepo.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

// DeleteCategory removes a category. Categories that still have courses
// cannot be deleted.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	return s.categoryRepo.Delete(ctx, id)
}
