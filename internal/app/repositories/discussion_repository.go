package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mert/lectern/internal/app/models"
)

// DiscussionRepository handles database operations for course discussion messages
type DiscussionRepository struct {
	db *pgxpool.Pool
}

// NewDiscussionRepository creates a new DiscussionRepository
func NewDiscussionRepository(db *pgxpool.Pool) *DiscussionRepository {
	return &DiscussionRepository{db: db}
}

// Create persists a discussion message
func (r *DiscussionRepository) Create(ctx context.Context, message *models.DiscussionMessage) error {
	err := r.db.QueryRow(ctx, `
		INSERT INTO discussion_messages (course_id, sender_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		message.CourseID, message.SenderID, message.Content, time.Now()).
		Scan(&message.ID, &message.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating discussion message: %w", err)
	}
	return nil
}

// ListByCourse retrieves a course's discussion history, newest first, paginated
func (r *DiscussionRepository) ListByCourse(ctx context.Context, courseID int64, page, pageSize int) ([]*models.DiscussionMessage, int64, error) {
	offset := (page - 1) * pageSize

	rows, err := r.db.Query(ctx, `
		SELECT m.id, m.course_id, m.sender_id, m.content, m.created_at,
		       u.first_name, u.last_name, u.role,
		       COUNT(*) OVER()
		FROM discussion_messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.course_id = $1
		ORDER BY m.created_at DESC
		LIMIT $2 OFFSET $3`,
		courseID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	var messages []*models.DiscussionMessage
	var total int64

	for rows.Next() {
		var message models.DiscussionMessage
		var sender models.User

		err := rows.Scan(
			&message.ID,
			&message.CourseID,
			&message.SenderID,
			&message.Content,
			&message.CreatedAt,
			&sender.FirstName,
			&sender.LastName,
			&sender.Role,
			&total,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}

		sender.ID = message.SenderID
		message.Sender = &sender
		messages = append(messages, &message)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return messages, total, nil
}
