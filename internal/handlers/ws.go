package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"quizroom-backend/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type WSHandler struct {
	hub *ws.Hub
	log *slog.Logger
}

func NewWSHandler(hub *ws.Hub, log *slog.Logger) *WSHandler {
	return &WSHandler{hub: hub, log: log}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleRoomSocket godoc
// @Summary      Push channel
// @Description  Persistent bidirectional connection; send {type:"join_room",roomCode} to subscribe
// @Tags         websocket
// @Router       /ws/room [get]
func (h *WSHandler) HandleRoomSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Debug("ws upgrade failed", "error", err)
		return
	}
	defer h.hub.Unsubscribe(conn)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var msg ws.ControlMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			// Undecodable frames are ignored; only transport errors end
			// the connection.
			h.log.Debug("ws control decode failed", "error", err)
			continue
		}
		if msg.Type == ws.ControlJoinRoom && strings.TrimSpace(msg.RoomCode) != "" {
			h.hub.Subscribe(strings.ToUpper(strings.TrimSpace(msg.RoomCode)), conn)
		}
	}
}
