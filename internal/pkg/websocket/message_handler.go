package websocket

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/mert/lectern/internal/app/models"
)

// MessageStore persists discussion messages
type MessageStore interface {
	Create(ctx context.Context, message *models.DiscussionMessage) error
}

// SenderResolver resolves sender details for outgoing messages
type SenderResolver interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
}

// Persister saves client-originated messages before they are broadcast.
// Messages posted over REST are persisted by the discussion service and
// skip this path.
type Persister struct {
	store  MessageStore
	users  SenderResolver
	hub    *Hub
	logger zerolog.Logger
}

// NewPersister creates a new Persister
func NewPersister(store MessageStore, users SenderResolver, hub *Hub, logger zerolog.Logger) *Persister {
	return &Persister{
		store:  store,
		users:  users,
		hub:    hub,
		logger: logger,
	}
}

// Start consumes the hub's inbound messages in a background goroutine
func (p *Persister) Start() {
	go func() {
		for message := range p.hub.inbound {
			p.handle(message)
		}
	}()
}

func (p *Persister) handle(message *Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	record := &models.DiscussionMessage{
		CourseID: message.CourseID,
		SenderID: message.SenderID,
		Content:  message.Content,
	}

	if err := p.store.Create(ctx, record); err != nil {
		p.logger.Error().
			Err(err).
			Int64("courseId", message.CourseID).
			Int64("senderId", message.SenderID).
			Msg("Failed to persist discussion message")
		return
	}

	message.ID = record.ID
	message.Timestamp = record.CreatedAt

	if sender, err := p.users.GetByID(ctx, message.SenderID); err == nil {
		message.SenderName = sender.FullName()
	}

	p.hub.broadcast <- message
}
