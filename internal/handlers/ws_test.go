package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quizroom-backend/internal/ws"

	"github.com/gorilla/websocket"
)

func dialRoom(t *testing.T, server *httptest.Server, code string) *websocket.Conn {
	t.Helper()
	wsURL := strings.Replace(server.URL, "http", "ws", 1) + "/ws/room"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := conn.WriteJSON(ws.ControlMessage{Type: ws.ControlJoinRoom, RoomCode: code}); err != nil {
		t.Fatalf("send join_room: %v", err)
	}
	var ack ws.JoinedRoom
	if err := readJSON(t, conn, &ack); err != nil {
		t.Fatalf("read joined_room: %v", err)
	}
	if ack.Type != ws.ControlJoinedRoom || ack.RoomCode != strings.ToUpper(code) {
		t.Fatalf("ack = %+v", ack)
	}
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, out any) error {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}

func TestPushChannelFanOut(t *testing.T) {
	r, hub := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	connA := dialRoom(t, server, "AB3X9K")
	connB := dialRoom(t, server, "ab3x9k") // codes are case-insensitive
	connOther := dialRoom(t, server, "OTHER1")

	hub.Broadcast("AB3X9K", ws.NewQuizStarted("AB3X9K", "Q1", time.Now()))

	for _, conn := range []*websocket.Conn{connA, connB} {
		var event ws.QuizStarted
		if err := readJSON(t, conn, &event); err != nil {
			t.Fatalf("read quiz_started: %v", err)
		}
		if event.Type != ws.EventQuizStarted || event.QuizID != "Q1" {
			t.Errorf("event = %+v", event)
		}
	}

	// The other room must see nothing.
	connOther.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := connOther.ReadMessage(); err == nil {
		t.Error("other room received a broadcast")
	}
}

func TestPushChannelSingleRoomMembership(t *testing.T) {
	r, hub := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	conn := dialRoom(t, server, "FIRST2")

	// Switching rooms drops the old membership.
	if err := conn.WriteJSON(ws.ControlMessage{Type: ws.ControlJoinRoom, RoomCode: "SECOND"}); err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	var ack ws.JoinedRoom
	if err := readJSON(t, conn, &ack); err != nil {
		t.Fatalf("read ack: %v", err)
	}

	hub.Broadcast("FIRST2", ws.NewQuizStarted("FIRST2", "Q1", time.Now()))
	hub.Broadcast("SECOND", ws.NewQuizStarted("SECOND", "Q1", time.Now()))

	var event ws.QuizStarted
	if err := readJSON(t, conn, &event); err != nil {
		t.Fatalf("read: %v", err)
	}
	if event.RoomCode != "SECOND" {
		t.Errorf("got event for %s, want SECOND only", event.RoomCode)
	}
}

func TestPushChannelSurvivesMalformedFrame(t *testing.T) {
	r, hub := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	conn := dialRoom(t, server, "TOUGH7")

	// Garbage input is skipped, not fatal: the connection stays up and
	// keeps its room membership.
	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}

	hub.Broadcast("TOUGH7", ws.NewQuizStarted("TOUGH7", "Q1", time.Now()))

	var event ws.QuizStarted
	if err := readJSON(t, conn, &event); err != nil {
		t.Fatalf("read after garbage frame: %v", err)
	}
	if event.Type != ws.EventQuizStarted || event.RoomCode != "TOUGH7" {
		t.Errorf("event = %+v", event)
	}
}

func TestPushChannelDisconnectCleanup(t *testing.T) {
	r, hub := newTestRouter(t)
	server := httptest.NewServer(r)
	defer server.Close()

	conn := dialRoom(t, server, "GONE42")
	conn.Close()

	// Give the handler a moment to unregister, then broadcasting into
	// the emptied room must not panic or block.
	time.Sleep(50 * time.Millisecond)
	hub.Broadcast("GONE42", ws.NewQuizStarted("GONE42", "Q1", time.Now()))
}

func TestPushChannelEventJSONShape(t *testing.T) {
	data, err := json.Marshal(ws.NewPlayerFinished("AB3X9K", "p1", true, nil))
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded["type"] != ws.EventPlayerFinished {
		t.Errorf("type = %v", decoded["type"])
	}
	if decoded["allFinished"] != true {
		t.Errorf("allFinished = %v", decoded["allFinished"])
	}
}
