package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// CourseFilter holds optional filters for listing courses
type CourseFilter struct {
	CategoryID   *int64
	InstructorID *int64
	Level        *models.CourseLevel
	Search       *string
	// PublishedOnly restricts results to published courses. Owners and
	// admins list with it disabled.
	PublishedOnly bool
}

// CourseRepository handles database operations for courses
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create creates a new course
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("instructor_id", "category_id", "title", "subtitle", "description", "level", "price", "is_published").
		Values(course.InstructorID, course.CategoryID, course.Title, course.Subtitle,
			course.Description, course.Level, course.Price, false).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).
		Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating course: %w", err)
	}

	return nil
}

// GetByID retrieves a course by ID with category and instructor attached
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.sb.Select(
		"c.id", "c.instructor_id", "c.category_id", "c.title", "c.subtitle", "c.description",
		"c.level", "c.price", "c.cover_image_url", "c.is_published", "c.created_at", "c.updated_at",
		"cat.name", "cat.slug",
		"u.first_name", "u.last_name", "u.email").
		From("courses c").
		Join("categories cat ON cat.id = c.category_id").
		Join("users u ON u.id = c.instructor_id").
		Where(squirrel.Eq{"c.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var course models.Course
	var category models.Category
	var instructor models.User

	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&course.ID,
		&course.InstructorID,
		&course.CategoryID,
		&course.Title,
		&course.Subtitle,
		&course.Description,
		&course.Level,
		&course.Price,
		&course.CoverImageURL,
		&course.IsPublished,
		&course.CreatedAt,
		&course.UpdatedAt,
		&category.Name,
		&category.Slug,
		&instructor.FirstName,
		&instructor.LastName,
		&instructor.Email,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	category.ID = course.CategoryID
	instructor.ID = course.InstructorID
	course.Category = &category
	course.Instructor = &instructor

	return &course, nil
}

// List retrieves courses matching the filter with pagination
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter, page, pageSize int) ([]*models.Course, int64, error) {
	query := r.sb.Select(
		"c.id", "c.instructor_id", "c.category_id", "c.title", "c.subtitle",
		"c.level", "c.price", "c.cover_image_url", "c.is_published",
		"cat.name", "u.first_name", "u.last_name",
		"COUNT(*) OVER()").
		From("courses c").
		Join("categories cat ON cat.id = c.category_id").
		Join("users u ON u.id = c.instructor_id")

	if filter.PublishedOnly {
		query = query.Where(squirrel.Eq{"c.is_published": true})
	}
	if filter.CategoryID != nil {
		query = query.Where(squirrel.Eq{"c.category_id": *filter.CategoryID})
	}
	if filter.InstructorID != nil {
		query = query.Where(squirrel.Eq{"c.instructor_id": *filter.InstructorID})
	}
	if filter.Level != nil {
		query = query.Where(squirrel.Eq{"c.level": *filter.Level})
	}
	if filter.Search != nil && *filter.Search != "" {
		pattern := "%" + *filter.Search + "%"
		query = query.Where(squirrel.Or{
			squirrel.ILike{"c.title": pattern},
			squirrel.ILike{"c.subtitle": pattern},
		})
	}

	offset := (page - 1) * pageSize
	query = query.OrderBy("c.created_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	var total int64

	for rows.Next() {
		var course models.Course
		var category models.Category
		var instructor models.User

		err := rows.Scan(
			&course.ID,
			&course.InstructorID,
			&course.CategoryID,
			&course.Title,
			&course.Subtitle,
			&course.Level,
			&course.Price,
			&course.CoverImageURL,
			&course.IsPublished,
			&category.Name,
			&instructor.FirstName,
			&instructor.LastName,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}

		category.ID = course.CategoryID
		instructor.ID = course.InstructorID
		course.Category = &category
		course.Instructor = &instructor
		courses = append(courses, &course)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Update updates the editable fields of a course
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		Set("category_id", course.CategoryID).
		Set("title", course.Title).
		Set("subtitle", course.Subtitle).
		Set("description", course.Description).
		Set("level", course.Level).
		Set("price", course.Price).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": course.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetPublished updates the published flag of a course
func (r *CourseRepository) SetPublished(ctx context.Context, id int64, published bool) error {
	sql, args, err := r.sb.Update("courses").
		Set("is_published", published).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course published state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// SetCoverImage updates the cover image URL of a course
func (r *CourseRepository) SetCoverImage(ctx context.Context, id int64, coverURL string) error {
	sql, args, err := r.sb.Update("courses").
		Set("cover_image_url", coverURL).
		Set("updated_at", time.Now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating course cover image: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// Delete deletes a course by ID. Sections, lectures, enrollments and
// wishlist entries cascade at the schema level.
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting course: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	return nil
}

// CountLectures returns the total number of lectures across a course
func (r *CourseRepository) CountLectures(ctx context.Context, courseID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM lectures l
		JOIN sections s ON s.id = l.section_id
		WHERE s.course_id = $1`, courseID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting course lectures: %w", err)
	}
	return count, nil
}
