package player

import (
	"context"
	"encoding/json"
	"strings"

	"quizroom-backend/internal/ws"

	"github.com/gorilla/websocket"
)

// Subscription is one open push channel, decoded into typed events.
type Subscription struct {
	conn   *websocket.Conn
	events chan ws.Event
}

// Subscribe dials the push channel and sends the join_room control
// message for the given code. Events arrive on Events() until the
// connection drops; delivery is best-effort, callers pair this with
// the Poller for correctness.
func (c *Client) Subscribe(ctx context.Context, code string) (*Subscription, error) {
	wsURL := strings.Replace(c.baseURL, "http", "ws", 1) + "/ws/room"
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, wsURL, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}

	if err := conn.WriteJSON(ws.ControlMessage{Type: ws.ControlJoinRoom, RoomCode: code}); err != nil {
		conn.Close()
		return nil, err
	}

	sub := &Subscription{conn: conn, events: make(chan ws.Event, 16)}
	go sub.readLoop()
	return sub, nil
}

func (s *Subscription) Events() <-chan ws.Event { return s.events }

func (s *Subscription) Close() error { return s.conn.Close() }

func (s *Subscription) readLoop() {
	defer close(s.events)
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		event, err := decodeEvent(data)
		if err != nil || event == nil {
			continue
		}
		select {
		case s.events <- event:
		default:
			// Slow consumer: drop rather than block the read loop.
		}
	}
}

func decodeEvent(data []byte) (ws.Event, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, err
	}

	var event ws.Event
	var err error
	switch head.Type {
	case ws.EventPlayerJoined:
		var e ws.PlayerJoined
		err = json.Unmarshal(data, &e)
		event = e
	case ws.EventPlayerLeft:
		var e ws.PlayerLeft
		err = json.Unmarshal(data, &e)
		event = e
	case ws.EventQuizStarted:
		var e ws.QuizStarted
		err = json.Unmarshal(data, &e)
		event = e
	case ws.EventPlayerFinished:
		var e ws.PlayerFinished
		err = json.Unmarshal(data, &e)
		event = e
	case ws.ControlJoinedRoom:
		var e ws.JoinedRoom
		err = json.Unmarshal(data, &e)
		event = e
	default:
		return nil, nil
	}
	return event, err
}
