package ws

import (
	"time"

	"quizroom-backend/internal/models"
)

// Event kinds carried on the push channel. One struct per kind so each
// payload only declares the fields it actually has.
const (
	EventPlayerJoined   = "player_joined"
	EventPlayerLeft     = "player_left"
	EventQuizStarted    = "quiz_started"
	EventPlayerFinished = "player_finished"

	ControlJoinRoom   = "join_room"
	ControlJoinedRoom = "joined_room"
)

type Event interface {
	EventType() string
}

type PlayerJoined struct {
	Type         string               `json:"type"`
	RoomCode     string               `json:"roomCode"`
	Participant  models.Participant   `json:"participant"`
	Participants []models.Participant `json:"participants"`
}

func NewPlayerJoined(code string, p models.Participant, all []models.Participant) PlayerJoined {
	return PlayerJoined{Type: EventPlayerJoined, RoomCode: code, Participant: p, Participants: all}
}

func (e PlayerJoined) EventType() string { return e.Type }

type PlayerLeft struct {
	Type          string               `json:"type"`
	RoomCode      string               `json:"roomCode"`
	ParticipantID string               `json:"participantId"`
	Participants  []models.Participant `json:"participants"`
}

func NewPlayerLeft(code, participantID string, all []models.Participant) PlayerLeft {
	return PlayerLeft{Type: EventPlayerLeft, RoomCode: code, ParticipantID: participantID, Participants: all}
}

func (e PlayerLeft) EventType() string { return e.Type }

// QuizStarted carries the quiz id only: each client fetches the quiz
// content itself and runs its own countdown.
type QuizStarted struct {
	Type      string    `json:"type"`
	RoomCode  string    `json:"roomCode"`
	QuizID    string    `json:"quizId"`
	StartedAt time.Time `json:"startedAt"`
}

func NewQuizStarted(code, quizID string, at time.Time) QuizStarted {
	return QuizStarted{Type: EventQuizStarted, RoomCode: code, QuizID: quizID, StartedAt: at}
}

func (e QuizStarted) EventType() string { return e.Type }

type PlayerFinished struct {
	Type          string               `json:"type"`
	RoomCode      string               `json:"roomCode"`
	ParticipantID string               `json:"participantId"`
	AllFinished   bool                 `json:"allFinished"`
	Participants  []models.Participant `json:"participants"`
}

func NewPlayerFinished(code, participantID string, allFinished bool, all []models.Participant) PlayerFinished {
	return PlayerFinished{
		Type:          EventPlayerFinished,
		RoomCode:      code,
		ParticipantID: participantID,
		AllFinished:   allFinished,
		Participants:  all,
	}
}

func (e PlayerFinished) EventType() string { return e.Type }

// ControlMessage is what clients send on the push channel; JoinedRoom
// is the hub's acknowledgement.
type ControlMessage struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

type JoinedRoom struct {
	Type     string `json:"type"`
	RoomCode string `json:"roomCode"`
}

func NewJoinedRoom(code string) JoinedRoom {
	return JoinedRoom{Type: ControlJoinedRoom, RoomCode: code}
}

func (e JoinedRoom) EventType() string { return e.Type }
