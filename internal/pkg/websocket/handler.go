package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/mert/lectern/internal/pkg/logger"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are checked by the CORS layer on the upgrade request
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ServeWS upgrades the request to a websocket connection and registers the
// client with the hub. Authorization must happen before calling this.
func ServeWS(hub *Hub, c *gin.Context, userID, courseID int64) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Error().
			Err(err).
			Int64("courseId", courseID).
			Int64("userId", userID).
			Msg("Failed to upgrade connection to websocket")
		return
	}

	client := &Client{
		hub:      hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		userID:   userID,
		courseID: courseID,
		logger:   hub.logger,
	}
	hub.register <- client

	go client.writePump()
	go client.readPump()
}
