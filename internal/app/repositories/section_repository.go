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

// SectionRepository handles database operations for course sections
type SectionRepository struct {
	db *pgxpool.Pool
}

// NewSectionRepository creates a new section repository
func NewSectionRepository(db *pgxpool.Pool) *SectionRepository {
	return &SectionRepository{
		db: db,
	}
}

// Create creates a new section. When position is zero the section is
// appended after the course's current last section.
func (r *SectionRepository) Create(ctx context.Context, section *models.Section) error {
	if section.Position <= 0 {
		next, err := r.nextPosition(ctx, section.CourseID)
		if err != nil {
			return err
		}
		section.Position = next
	}

	query := `
		INSERT INTO sections (course_id, title, position)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.db.QueryRow(ctx, query, section.CourseID, section.Title, section.Position).
		Scan(&section.ID, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

// nextPosition returns the next free position within a course
func (r *SectionRepository) nextPosition(ctx context.Context, courseID int64) (int, error) {
	var next int
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), 0) + 1 FROM sections WHERE course_id = $1`,
		courseID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("error computing next section position: %w", err)
	}
	return next, nil
}

// GetByID retrieves a section by ID
func (r *SectionRepository) GetByID(ctx context.Context, id int64) (*models.Section, error) {
	query := `
		SELECT id, course_id, title, position, created_at, updated_at
		FROM sections
		WHERE id = $1
	`

	var section models.Section
	err := r.db.QueryRow(ctx, query, id).Scan(
		&section.ID,
		&section.CourseID,
		&section.Title,
		&section.Position,
		&section.CreatedAt,
		&section.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}

	return &section, nil
}

// GetByCourseID retrieves all sections of a course ordered by position
func (r *SectionRepository) GetByCourseID(ctx context.Context, courseID int64) ([]*models.Section, error) {
	query := `
		SELECT id, course_id, title, position, created_at, updated_at
		FROM sections
		WHERE course_id = $1
		ORDER BY position
	`

	rows, err := r.db.Query(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		var section models.Section
		if err := rows.Scan(
			&section.ID,
			&section.CourseID,
			&section.Title,
			&section.Position,
			&section.CreatedAt,
			&section.UpdatedAt,
		); err != nil {
			return nil, err
		}
		sections = append(sections, &section)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return sections, nil
}

// Update updates an existing section
func (r *SectionRepository) Update(ctx context.Context, section *models.Section) error {
	query := `
		UPDATE sections
		SET title = $1, position = $2, updated_at = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query,
		section.Title, section.Position, time.Now(), section.ID)
	if err != nil {
		return fmt.Errorf("error updating section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}

// Delete deletes a section by ID. Lectures cascade at the schema level.
func (r *SectionRepository) Delete(ctx context.Context, id int64) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM sections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("error deleting section: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrSectionNotFound
	}

	return nil
}
