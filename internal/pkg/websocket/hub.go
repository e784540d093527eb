package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/mert/lectern/internal/app/models"
)

// Hub maintains the active discussion clients grouped by course and
// broadcasts messages to them
type Hub struct {
	// Registered clients organized by course ID
	clients map[int64]map[*Client]bool

	// Messages ready to be fanned out to clients
	broadcast chan *Message

	// Client-originated messages awaiting persistence
	inbound chan *Message

	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger zerolog.Logger
}

// Message is the wire format of a discussion message
type Message struct {
	Type       string    `json:"type"`
	CourseID   int64     `json:"courseId"`
	SenderID   int64     `json:"senderId"`
	SenderName string    `json:"senderName,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	ID         int64     `json:"id,omitempty"`
}

// MessageTypeText is the only message type courses exchange today
const MessageTypeText = "text"

// NewHub creates a new Hub
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[int64]map[*Client]bool),
		broadcast:  make(chan *Message, 64),
		inbound:    make(chan *Message, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run processes registrations and broadcasts until the process exits
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.fanOut(message)
		}
	}
}

// BroadcastMessage fans an already persisted discussion message out to the
// connected clients of its course
func (h *Hub) BroadcastMessage(msg *models.DiscussionMessage) {
	message := &Message{
		Type:      MessageTypeText,
		CourseID:  msg.CourseID,
		SenderID:  msg.SenderID,
		Content:   msg.Content,
		Timestamp: msg.CreatedAt,
		ID:        msg.ID,
	}
	if msg.Sender != nil {
		message.SenderName = msg.Sender.FullName()
	}

	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Int64("courseId", msg.CourseID).Msg("Broadcast channel full, dropping message")
	}
}

// ClientCount returns the number of connected clients for a course
func (h *Hub) ClientCount(courseID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.clients[courseID])
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.courseID]; !ok {
		h.clients[client.courseID] = make(map[*Client]bool)
	}
	h.clients[client.courseID][client] = true

	h.logger.Info().
		Int64("courseId", client.courseID).
		Int64("userId", client.userID).
		Msg("Discussion client connected")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.clients[client.courseID]; ok {
		if _, ok := clients[client]; ok {
			delete(clients, client)
			close(client.send)

			if len(clients) == 0 {
				delete(h.clients, client.courseID)
			}

			h.logger.Info().
				Int64("courseId", client.courseID).
				Int64("userId", client.userID).
				Msg("Discussion client disconnected")
		}
	}
}

func (h *Hub) fanOut(message *Message) {
	h.mu.RLock()
	clients := h.clients[message.CourseID]

	data, err := json.Marshal(message)
	if err != nil {
		h.mu.RUnlock()
		h.logger.Error().Err(err).Int64("courseId", message.CourseID).Msg("Failed to marshal message")
		return
	}

	var stalled []*Client
	for client := range clients {
		select {
		case client.send <- data:
		default:
			// Send buffer full, the client is slow or gone
			stalled = append(stalled, client)
		}
	}
	h.mu.RUnlock()

	// Drop stalled clients directly. Going through the unregister channel
	// here would block Run on itself.
	for _, client := range stalled {
		h.unregisterClient(client)
	}
}
