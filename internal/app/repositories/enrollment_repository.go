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
	"github.com/mert/lectern/internal/pkg/dberrors"
)

// EnrollmentRepository handles database operations for enrollments
type EnrollmentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewEnrollmentRepository creates a new EnrollmentRepository
func NewEnrollmentRepository(db *pgxpool.Pool) *EnrollmentRepository {
	return &EnrollmentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create enrolls a user in a course. A partial unique index on
// (user_id, course_id) for non-LEFT rows guards against duplicates.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	sql, args, err := r.sb.Insert("enrollments").
		Columns("user_id", "course_id", "status", "enrolled_at").
		Values(enrollment.UserID, enrollment.CourseID, models.EnrollmentActive, time.Now()).
		Suffix("RETURNING id, enrolled_at").
		ToSql()

	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&enrollment.ID, &enrollment.EnrolledAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	enrollment.Status = models.EnrollmentActive
	return nil
}

// GetByID retrieves an enrollment by ID
func (r *EnrollmentRepository) GetByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "status", "enrolled_at", "completed_at", "left_at").
		From("enrollments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var enrollment models.Enrollment
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.EnrolledAt,
		&enrollment.CompletedAt,
		&enrollment.LeftAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetActiveByUserAndCourse retrieves a user's non-LEFT enrollment in a course
func (r *EnrollmentRepository) GetActiveByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "status", "enrolled_at", "completed_at", "left_at").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID}).
		Where(squirrel.NotEq{"status": models.EnrollmentLeft}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var enrollment models.Enrollment
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.EnrolledAt,
		&enrollment.CompletedAt,
		&enrollment.LeftAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// GetLeftByUserAndCourse retrieves a user's most recent LEFT enrollment
// in a course, if any
func (r *EnrollmentRepository) GetLeftByUserAndCourse(ctx context.Context, userID, courseID int64) (*models.Enrollment, error) {
	sql, args, err := r.sb.Select("id", "user_id", "course_id", "status", "enrolled_at", "completed_at", "left_at").
		From("enrollments").
		Where(squirrel.Eq{"user_id": userID, "course_id": courseID, "status": models.EnrollmentLeft}).
		OrderBy("left_at DESC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var enrollment models.Enrollment
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&enrollment.ID,
		&enrollment.UserID,
		&enrollment.CourseID,
		&enrollment.Status,
		&enrollment.EnrolledAt,
		&enrollment.CompletedAt,
		&enrollment.LeftAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}

	return &enrollment, nil
}

// IsUserEnrolled reports whether a user has a non-LEFT enrollment in a course
func (r *EnrollmentRepository) IsUserEnrolled(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM enrollments
			WHERE user_id = $1 AND course_id = $2 AND status != $3
		)`, userID, courseID, models.EnrollmentLeft).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking enrollment: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves a user's enrollments with their courses, paginated
func (r *EnrollmentRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.Enrollment, int64, error) {
	offset := (page - 1) * pageSize

	sql, args, err := r.sb.Select(
		"e.id", "e.user_id", "e.course_id", "e.status", "e.enrolled_at", "e.completed_at", "e.left_at",
		"c.instructor_id", "c.category_id", "c.title", "c.subtitle", "c.level", "c.price",
		"c.cover_image_url", "c.is_published",
		"COUNT(*) OVER()").
		From("enrollments e").
		Join("courses c ON c.id = e.course_id").
		Where(squirrel.Eq{"e.user_id": userID}).
		Where(squirrel.NotEq{"e.status": models.EnrollmentLeft}).
		OrderBy("e.enrolled_at DESC").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	var total int64

	for rows.Next() {
		var enrollment models.Enrollment
		var course models.Course

		err := rows.Scan(
			&enrollment.ID,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.Status,
			&enrollment.EnrolledAt,
			&enrollment.CompletedAt,
			&enrollment.LeftAt,
			&course.InstructorID,
			&course.CategoryID,
			&course.Title,
			&course.Subtitle,
			&course.Level,
			&course.Price,
			&course.CoverImageURL,
			&course.IsPublished,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}

		course.ID = enrollment.CourseID
		enrollment.Course = &course
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

// ListByCourse retrieves the roster of a course, paginated
func (r *EnrollmentRepository) ListByCourse(ctx context.Context, courseID int64, page, pageSize int) ([]*models.Enrollment, int64, error) {
	offset := (page - 1) * pageSize

	sql, args, err := r.sb.Select(
		"e.id", "e.user_id", "e.course_id", "e.status", "e.enrolled_at", "e.completed_at", "e.left_at",
		"u.email", "u.first_name", "u.last_name",
		"COUNT(*) OVER()").
		From("enrollments e").
		Join("users u ON u.id = e.user_id").
		Where(squirrel.Eq{"e.course_id": courseID}).
		Where(squirrel.NotEq{"e.status": models.EnrollmentLeft}).
		OrderBy("e.enrolled_at").
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()

	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	var total int64

	for rows.Next() {
		var enrollment models.Enrollment
		var user models.User

		err := rows.Scan(
			&enrollment.ID,
			&enrollment.UserID,
			&enrollment.CourseID,
			&enrollment.Status,
			&enrollment.EnrolledAt,
			&enrollment.CompletedAt,
			&enrollment.LeftAt,
			&user.Email,
			&user.FirstName,
			&user.LastName,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}

		user.ID = enrollment.UserID
		enrollment.User = &user
		enrollments = append(enrollments, &enrollment)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return enrollments, total, nil
}

// UpdateStatus transitions an enrollment to a new status, stamping the
// matching timestamp column.
func (r *EnrollmentRepository) UpdateStatus(ctx context.Context, id int64, status models.EnrollmentStatus) error {
	query := r.sb.Update("enrollments").
		Set("status", status).
		Where(squirrel.Eq{"id": id})

	switch status {
	case models.EnrollmentCompleted:
		query = query.Set("completed_at", time.Now())
	case models.EnrollmentLeft:
		query = query.Set("left_at", time.Now())
	case models.EnrollmentActive:
		// Reactivation of a dropped enrollment
		query = query.Set("left_at", nil)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}

	return nil
}

// MarkLectureComplete records a completed lecture for an enrollment.
// Re-completing a lecture is a no-op.
func (r *EnrollmentRepository) MarkLectureComplete(ctx context.Context, enrollmentID, lectureID int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO lecture_progress (enrollment_id, lecture_id, completed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (enrollment_id, lecture_id) DO NOTHING`,
		enrollmentID, lectureID, time.Now())
	if err != nil {
		return fmt.Errorf("error recording lecture progress: %w", err)
	}
	return nil
}

// CountCompletedLectures returns how many lectures an enrollment has completed
func (r *EnrollmentRepository) CountCompletedLectures(ctx context.Context, enrollmentID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM lecture_progress WHERE enrollment_id = $1`,
		enrollmentID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting completed lectures: %w", err)
	}
	return count, nil
}
