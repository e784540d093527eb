package websocket

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mert/lectern/internal/app/models"
)

func newTestHub() *Hub {
	return NewHub(zerolog.Nop())
}

func newTestClient(hub *Hub, userID, courseID int64) *Client {
	return &Client{
		hub:      hub,
		send:     make(chan []byte, 8),
		userID:   userID,
		courseID: courseID,
		logger:   zerolog.Nop(),
	}
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	t.Run("GroupsClientsByCourse", func(t *testing.T) {
		hub := newTestHub()

		first := newTestClient(hub, 1, 10)
		second := newTestClient(hub, 2, 10)
		other := newTestClient(hub, 3, 20)

		hub.registerClient(first)
		hub.registerClient(second)
		hub.registerClient(other)

		assert.Equal(t, 2, hub.ClientCount(10))
		assert.Equal(t, 1, hub.ClientCount(20))
		assert.Equal(t, 0, hub.ClientCount(99))
	})

	t.Run("UnregisterClosesSendChannel", func(t *testing.T) {
		hub := newTestHub()
		client := newTestClient(hub, 1, 10)

		hub.registerClient(client)
		hub.unregisterClient(client)

		assert.Equal(t, 0, hub.ClientCount(10))

		_, open := <-client.send
		assert.False(t, open, "send channel should be closed after unregister")
	})

	t.Run("UnregisterRemovesEmptyCourseEntry", func(t *testing.T) {
		hub := newTestHub()
		client := newTestClient(hub, 1, 10)

		hub.registerClient(client)
		hub.unregisterClient(client)

		hub.mu.RLock()
		_, exists := hub.clients[10]
		hub.mu.RUnlock()

		assert.False(t, exists, "course entry should be removed when its last client leaves")
	})

	t.Run("UnregisterUnknownClientIsNoOp", func(t *testing.T) {
		hub := newTestHub()
		registered := newTestClient(hub, 1, 10)
		stranger := newTestClient(hub, 2, 10)

		hub.registerClient(registered)
		hub.unregisterClient(stranger)

		assert.Equal(t, 1, hub.ClientCount(10))

		select {
		case _, open := <-stranger.send:
			assert.True(t, open, "stranger's send channel must not be closed")
		default:
		}
	})
}

func TestHub_BroadcastMessage(t *testing.T) {
	t.Run("ConvertsPersistedMessage", func(t *testing.T) {
		hub := newTestHub()

		createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		hub.BroadcastMessage(&models.DiscussionMessage{
			ID:        42,
			CourseID:  10,
			SenderID:  5,
			Content:   "Does the final cover chapter 9?",
			CreatedAt: createdAt,
			Sender:    &models.User{FirstName: "Ada", LastName: "Lovelace"},
		})

		select {
		case msg := <-hub.broadcast:
			assert.Equal(t, MessageTypeText, msg.Type)
			assert.Equal(t, int64(10), msg.CourseID)
			assert.Equal(t, int64(5), msg.SenderID)
			assert.Equal(t, "Ada Lovelace", msg.SenderName)
			assert.Equal(t, "Does the final cover chapter 9?", msg.Content)
			assert.Equal(t, createdAt, msg.Timestamp)
			assert.Equal(t, int64(42), msg.ID)
		default:
			t.Fatal("expected a message on the broadcast channel")
		}
	})

	t.Run("OmitsSenderNameWhenSenderMissing", func(t *testing.T) {
		hub := newTestHub()

		hub.BroadcastMessage(&models.DiscussionMessage{ID: 1, CourseID: 10, SenderID: 5, Content: "hi"})

		msg := <-hub.broadcast
		assert.Empty(t, msg.SenderName)
	})

	t.Run("DropsMessageWhenChannelFull", func(t *testing.T) {
		hub := newTestHub()

		for i := 0; i < cap(hub.broadcast); i++ {
			hub.broadcast <- &Message{}
		}

		// Must not block
		hub.BroadcastMessage(&models.DiscussionMessage{CourseID: 10, Content: "dropped"})

		assert.Len(t, hub.broadcast, cap(hub.broadcast))
	})
}

func TestHub_FanOut(t *testing.T) {
	t.Run("DeliversToCourseClientsOnly", func(t *testing.T) {
		hub := newTestHub()

		enrolled := newTestClient(hub, 1, 10)
		classmate := newTestClient(hub, 2, 10)
		outsider := newTestClient(hub, 3, 20)

		hub.registerClient(enrolled)
		hub.registerClient(classmate)
		hub.registerClient(outsider)

		hub.fanOut(&Message{
			Type:     MessageTypeText,
			CourseID: 10,
			SenderID: 1,
			Content:  "Lecture 3 is up",
		})

		for _, client := range []*Client{enrolled, classmate} {
			select {
			case raw := <-client.send:
				var msg Message
				require.NoError(t, json.Unmarshal(raw, &msg))
				assert.Equal(t, int64(10), msg.CourseID)
				assert.Equal(t, "Lecture 3 is up", msg.Content)
			default:
				t.Fatal("expected the message to be delivered")
			}
		}

		assert.Empty(t, outsider.send, "clients of other courses must not receive the message")
	})

	t.Run("DropsStalledClient", func(t *testing.T) {
		hub := newTestHub()

		stalled := newTestClient(hub, 1, 10)
		stalled.send = make(chan []byte) // no buffer, every send stalls
		hub.registerClient(stalled)

		hub.fanOut(&Message{CourseID: 10, Content: "hello"})

		assert.Equal(t, 0, hub.ClientCount(10))

		_, open := <-stalled.send
		assert.False(t, open, "stalled client's send channel should be closed")
	})

	t.Run("KeepsServingAfterStalledClient", func(t *testing.T) {
		hub := newTestHub()
		go hub.Run()

		stalled := newTestClient(hub, 1, 10)
		stalled.send = make(chan []byte)
		hub.register <- stalled
		require.Eventually(t, func() bool { return hub.ClientCount(10) == 1 }, time.Second, 5*time.Millisecond)

		hub.BroadcastMessage(&models.DiscussionMessage{CourseID: 10, SenderID: 1, Content: "first"})

		healthy := newTestClient(hub, 2, 10)
		registered := make(chan struct{})
		go func() {
			hub.register <- healthy
			close(registered)
		}()
		select {
		case <-registered:
		case <-time.After(time.Second):
			t.Fatal("hub stopped accepting registrations after a stalled client")
		}

		hub.BroadcastMessage(&models.DiscussionMessage{CourseID: 10, SenderID: 1, Content: "second"})

		deadline := time.After(time.Second)
		for {
			select {
			case raw := <-healthy.send:
				if strings.Contains(string(raw), "second") {
					return
				}
			case <-deadline:
				t.Fatal("healthy client did not receive the broadcast")
			}
		}
	})
}
