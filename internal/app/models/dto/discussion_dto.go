package dto

import "github.com/mert/lectern/internal/app/models"

// PostMessageRequest represents a request to post a discussion message over REST
type PostMessageRequest struct {
	Content string `json:"content" binding:"required,min=1,max=4000"`
}

// DiscussionMessageResponse represents a discussion message returned to clients
type DiscussionMessageResponse struct {
	ID         int64  `json:"id"`
	CourseID   int64  `json:"courseId"`
	SenderID   int64  `json:"senderId"`
	SenderName string `json:"senderName,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

// DiscussionHistoryResponse represents paginated discussion history
type DiscussionHistoryResponse struct {
	Messages   []DiscussionMessageResponse `json:"messages"`
	Pagination PaginationInfo              `json:"pagination"`
}

// FromDiscussionMessage converts a message model to a response DTO
func FromDiscussionMessage(msg *models.DiscussionMessage) DiscussionMessageResponse {
	if msg == nil {
		return DiscussionMessageResponse{}
	}

	resp := DiscussionMessageResponse{
		ID:        msg.ID,
		CourseID:  msg.CourseID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if msg.Sender != nil {
		resp.SenderName = msg.Sender.FullName()
	}

	return resp
}
