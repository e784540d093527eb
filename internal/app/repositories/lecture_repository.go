package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
)

// LectureRepository handles database operations for lectures
type LectureRepository struct {
	db *pgxpool.Pool
}

// NewLectureRepository creates a new lecture repository
func NewLectureRepository(db *pgxpool.Pool) *LectureRepository {
	return &LectureRepository{
		db: db,
	}
}

// Create creates a new lecture. When position is zero the lecture is
// appended after the section's current last lecture.
func (r *LectureRepository) Create(ctx context.Context, lecture *models.Lecture) error {
	if lecture.Position <= 0 {
		next, err := r.nextPosition(ctx, lecture.SectionID)
		if err != nil {
			return err
		}
		lecture.Position = next
	}

	query := `
		INSERT INTO lectures (section_id, title, content_url, duration_seconds, position, is_preview)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query,
		lecture.SectionID,
		lecture.Title,
		lecture.ContentURL,
		lecture.DurationSeconds,
		lecture.Position,
		lecture.IsPreview,
	).Scan(&lecture.ID, &lecture.CreatedAt, &lecture.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating lecture: %w", err)
	}

	return nil
}

// nextPosition returns the next free position within a section
func (r *LectureRepository) nextPosition(ctx context.Context, sectionID int64) (int, error) {
	var next int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM lectures WHERE section_id = $1`,
		sectionID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("error computing next lecture position: %w", err)
	}
	return next, nil
}

// GetByID retrieves a lecture by ID
func (r *LectureRepository) GetByID(ctx context.Context, id int64) (*models.Lecture, error) {
	query := `
		SELECT id, section_id, title, content_url, duration_seconds, position, is_preview, created_at, updated_at
		FROM lectures
		WHERE id = $1
	`

	var lecture models.Lecture
	err := r.db.QueryRow(ctx, query, id).Scan(
		&lecture.ID,
		&lecture.SectionID,
		&lecture.Title,
		&lecture.ContentURL,
		&lecture.DurationSeconds,
		&lecture.Position,
		&lecture.IsPreview,
		&lecture.CreatedAt,
		&lecture.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrLectureNotFound
		}
		return nil, fmt.Errorf("error retrieving lecture: %w", err)
	}

	return &lecture, nil
}

// GetBySectionID retrieves all lectures of a section ordered by position
func (r *LectureRepository) GetBySectionID(ctx context.Context, sectionID int64) ([]*models.Lecture, error) {
	query := `
		SELECT id, section_id, title, content_url, duration_seconds, position, is_preview, created_at, updated_at
		FROM lectures
		WHERE section_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lectures []*models.Lecture
	for rows.Next() {
		var lecture models.Lecture
		if err := rows.Scan(
			&lecture.ID,
			&lecture.SectionID,
			&lecture.Title,
			&lecture.ContentURL,
			&lecture.DurationSeconds,
			&lecture.Position,
			&lecture.IsPreview,
			&lecture.CreatedAt,
			&lecture.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lectures = append(lectures, &lecture)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lectures, nil
}

// GetCourseID resolves the course a lecture belongs to
func (r *LectureRepository) GetCourseID(ctx context.Context, lectureID int64) (int64, error) {
	var courseID int64
	err := r.db.QueryRow(ctx, `
		SELECT s.course_id
		FROM lectures l
		JOIN sections s ON s.id = l.section_id
		WHERE l.id = $1`, lectureID).Scan(&courseID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.ErrLectureNotFound
		}
		return 0, fmt.Errorf("error resolving lecture course: %w", err)
	}
	return courseID, nil
}

// Update updates an existing lecture
func (r *LectureRepository) Update(ctx context.Context, lecture *models.Lecture) error {
	query := `
		UPDATE lectures
		SET title = $1, content_url = $2, duration_seconds = $3, position = $4, is_preview = $5, updated_at = $6
		WHERE id = $7
	`

	cmdTag, err := r.db.Exec(ctx, query,
		lecture.Title,
		lecture.ContentURL,
		lecture.DurationSeconds,
		lecture.Position,
		lecture.IsPreview,
		time.Now(),
		lecture.ID,
	)
	if err != nil {
		return fmt.Errorf("error updating lecture: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLectureNotFound
	}

	return nil
}

// Delete deletes a lecture by ID
func (r *LectureRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM lectures WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting lecture: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrLectureNotFound
	}

	return nil
}
