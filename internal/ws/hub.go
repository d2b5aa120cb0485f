package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub is the process-local fan-out registry from room code to open
// websocket connections. Delivery is at-most-once and fire-and-forget:
// a closed or erroring connection is dropped silently, the poller on
// the client side restores correctness. Construct one per process and
// Stop it on shutdown.
type Hub struct {
	log *slog.Logger

	mu      sync.Mutex
	rooms   map[string]map[*websocket.Conn]bool
	conns   map[*websocket.Conn]string
	stopped bool
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[*websocket.Conn]bool),
		conns: make(map[*websocket.Conn]string),
	}
}

// Subscribe adds conn to the room's set, replying joined_room on the
// connection. A connection belongs to at most one room: any prior
// membership is dropped first.
func (h *Hub) Subscribe(code string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}

	h.detach(conn)
	if h.rooms[code] == nil {
		h.rooms[code] = make(map[*websocket.Conn]bool)
	}
	h.rooms[code][conn] = true
	h.conns[conn] = code

	h.write(conn, code, mustMarshal(NewJoinedRoom(code)))
	h.log.Debug("ws subscribe", "room", code, "conns", len(h.rooms[code]))
}

// Unsubscribe removes conn from its room, if any. It does not notify
// other participants: only an explicit leave does that.
func (h *Hub) Unsubscribe(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detach(conn)
}

// Broadcast serializes the event once and writes it to every
// connection currently open in the room's set.
func (h *Hub) Broadcast(code string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("ws marshal", "type", event.EventType(), "error", err)
		return
	}
	h.deliver(code, data)
}

// Stop closes every registered connection and refuses further
// subscriptions.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.stopped = true
	for conn := range h.conns {
		conn.Close()
	}
	h.rooms = make(map[string]map[*websocket.Conn]bool)
	h.conns = make(map[*websocket.Conn]string)
}

func (h *Hub) deliver(code string, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()

	conns, ok := h.rooms[code]
	if !ok {
		return
	}
	for conn := range conns {
		h.write(conn, code, data)
	}
}

// write sends on one connection, dropping it on error. Callers hold
// h.mu, which also serializes writes per connection.
func (h *Hub) write(conn *websocket.Conn, code string, data []byte) {
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.log.Debug("ws write failed, dropping conn", "room", code, "error", err)
		conn.Close()
		h.detach(conn)
	}
}

func (h *Hub) detach(conn *websocket.Conn) {
	code, ok := h.conns[conn]
	if !ok {
		return
	}
	delete(h.conns, conn)
	if set, ok := h.rooms[code]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(h.rooms, code)
		}
	}
}

func mustMarshal(event Event) []byte {
	data, err := json.Marshal(event)
	if err != nil {
		panic(err)
	}
	return data
}
