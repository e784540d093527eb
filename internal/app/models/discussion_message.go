package models

import "time"

// DiscussionMessage is a message posted in a course discussion room.
type DiscussionMessage struct {
	ID        int64     `json:"id" db:"id"`
	CourseID  int64     `json:"courseId" db:"course_id"`
	SenderID  int64     `json:"senderId" db:"sender_id"`
	Content   string    `json:"content" db:"content"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Sender *User `json:"sender,omitempty"`
}
