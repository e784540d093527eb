package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mert/lectern/internal/app/models"
	"github.com/mert/lectern/internal/pkg/apperrors"
	"github.com/mert/lectern/internal/pkg/dberrors"
)

// WishlistRepository handles database operations for wishlist items
type WishlistRepository struct {
	db *pgxpool.Pool
}

// NewWishlistRepository creates a new WishlistRepository
func NewWishlistRepository(db *pgxpool.Pool) *WishlistRepository {
	return &WishlistRepository{db: db}
}

// Add puts a course on a user's wishlist
func (r *WishlistRepository) Add(ctx context.Context, item *models.WishlistItem) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO wishlist_items (user_id, course_id, added_at)
		VALUES ($1, $2, $3)
		RETURNING id, added_at`,
		item.UserID, item.CourseID, time.Now()).Scan(&item.ID, &item.AddedAt)
	if err != nil {
		if dberrors.IsUniqueViolation(err) {
			return apperrors.ErrAlreadyWishlisted
		}
		return fmt.Errorf("error adding wishlist item: %w", err)
	}
	return nil
}

// Remove deletes a course from a user's wishlist
func (r *WishlistRepository) Remove(ctx context.Context, userID, courseID int64) error {
	result, err := r.db.Exec(ctx,
		`DELETE FROM wishlist_items WHERE user_id = $1 AND course_id = $2`,
		userID, courseID)
	if err != nil {
		return fmt.Errorf("error removing wishlist item: %w", err)
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrWishlistItemNotFound
	}

	return nil
}

// Exists reports whether a course is already on a user's wishlist
func (r *WishlistRepository) Exists(ctx context.Context, userID, courseID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM wishlist_items WHERE user_id = $1 AND course_id = $2)`,
		userID, courseID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error checking wishlist item: %w", err)
	}
	return exists, nil
}

// ListByUser retrieves a user's wishlist with the courses attached, paginated
func (r *WishlistRepository) ListByUser(ctx context.Context, userID int64, page, pageSize int) ([]*models.WishlistItem, int64, error) {
	offset := (page - 1) * pageSize

	rows, err := r.db.Query(ctx, `
		SELECT w.id, w.user_id, w.course_id, w.added_at,
		       c.instructor_id, c.category_id, c.title, c.subtitle, c.level, c.price,
		       c.cover_image_url, c.is_published,
		       COUNT(*) OVER()
		FROM wishlist_items w
		JOIN courses c ON c.id = w.course_id
		WHERE w.user_id = $1
		ORDER BY w.added_at DESC
		LIMIT $2 OFFSET $3`,
		userID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var items []*models.WishlistItem
	var total int64

	for rows.Next() {
		var item models.WishlistItem
		var course models.Course

		err := rows.Scan(
			&item.ID,
			&item.UserID,
			&item.CourseID,
			&item.AddedAt,
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

		course.ID = item.CourseID
		item.Course = &course
		items = append(items, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return items, total, nil
}
