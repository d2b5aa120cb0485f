package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"quizroom-backend/internal/models"
	"quizroom-backend/internal/store"
	"quizroom-backend/internal/ws"

	"github.com/google/uuid"
)

// Room codes avoid visually ambiguous characters (0/O, 1/I).
const (
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 6
	maxCodeAttempts  = 10
)

// RoomStore is the persistence surface the lifecycle manager needs.
// Every mutation is field-scoped and atomic on the store side; the
// boolean results report whether the conditional filter matched.
type RoomStore interface {
	Insert(ctx context.Context, room *models.Room) error
	FindByCode(ctx context.Context, code string) (*models.Room, error)
	CodeInUse(ctx context.Context, code string) (bool, error)
	AppendParticipant(ctx context.Context, code string, p models.Participant) (bool, error)
	RemoveParticipant(ctx context.Context, code, participantID string) error
	MarkStarted(ctx context.Context, code string, at time.Time) (bool, error)
	FinishParticipant(ctx context.Context, code, participantID string, score, correct, total int, at time.Time) (bool, error)
	MarkCompleted(ctx context.Context, code string, at time.Time) (bool, error)
}

type QuizStore interface {
	FindByID(ctx context.Context, id string) (*models.Quiz, error)
}

// Broadcaster fans lifecycle events out to subscribed clients. The
// in-process hub and the NATS bridge both satisfy it.
type Broadcaster interface {
	Broadcast(code string, event ws.Event)
}

type RoomService struct {
	rooms   RoomStore
	quizzes QuizStore
	events  Broadcaster
	log     *slog.Logger
}

func NewRoomService(rooms RoomStore, quizzes QuizStore, events Broadcaster, log *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, quizzes: quizzes, events: events, log: log}
}

// CreateRoom opens a waiting room for the quiz with the creator as its
// host. The host is the only participant until others join.
func (s *RoomService) CreateRoom(ctx context.Context, quizID, hostName string) (*models.Room, error) {
	quizID = strings.TrimSpace(quizID)
	hostName = strings.TrimSpace(hostName)
	if quizID == "" {
		return nil, &ValidationError{Msg: "quiz id is required"}
	}
	if hostName == "" {
		return nil, &ValidationError{Msg: "host name is required"}
	}

	if _, err := s.quizzes.FindByID(ctx, quizID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &NotFoundError{Msg: "quiz not found"}
		}
		return nil, fmt.Errorf("look up quiz: %w", err)
	}

	code, err := s.allocateCode(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	host := models.Participant{
		ParticipantID: uuid.NewString(),
		DisplayName:   hostName,
		IsHost:        true,
		JoinedAt:      now,
	}
	room := &models.Room{
		Code:         code,
		QuizID:       quizID,
		HostID:       host.ParticipantID,
		Status:       models.RoomStatusWaiting,
		Participants: []models.Participant{host},
		CreatedAt:    now,
	}
	if err := s.rooms.Insert(ctx, room); err != nil {
		return nil, err
	}

	s.log.Info("room created", "room", code, "quiz", quizID)
	return room, nil
}

// JoinRoom appends a participant while the room is still waiting. The
// join window closes when the quiz starts: joining an active or
// completed room reads the same as an unknown code, to keep late
// arrivals from desynchronizing a running quiz.
func (s *RoomService) JoinRoom(ctx context.Context, code, displayName string) (*models.Room, string, error) {
	code = normalizeCode(code)
	displayName = strings.TrimSpace(displayName)
	if code == "" {
		return nil, "", &ValidationError{Msg: "room code is required"}
	}
	if displayName == "" {
		return nil, "", &ValidationError{Msg: "player name is required"}
	}

	p := models.Participant{
		ParticipantID: uuid.NewString(),
		DisplayName:   displayName,
		JoinedAt:      time.Now().UTC(),
	}
	ok, err := s.rooms.AppendParticipant(ctx, code, p)
	if err != nil {
		return nil, "", err
	}
	if !ok {
		return nil, "", &NotFoundError{Msg: "room not found or quiz already started"}
	}

	room, err := s.rooms.FindByCode(ctx, code)
	if err != nil {
		return nil, "", err
	}

	s.events.Broadcast(code, ws.NewPlayerJoined(code, p, room.Participants))
	s.log.Info("player joined", "room", code, "participant", p.ParticipantID)
	return room, p.ParticipantID, nil
}

// StartQuiz transitions waiting -> active. Only the host may start,
// and the host check wins over the status check so a non-host probing
// an already-active room still gets a 403.
func (s *RoomService) StartQuiz(ctx context.Context, code, requesterID string) (*models.Room, error) {
	code = normalizeCode(code)
	if code == "" || requesterID == "" {
		return nil, &ValidationError{Msg: "room code and participant id are required"}
	}

	room, err := s.findRoom(ctx, code)
	if err != nil {
		return nil, err
	}
	host := room.Host()
	if host == nil || host.ParticipantID != requesterID {
		return nil, &AuthorizationError{Msg: "only the host can start"}
	}
	if room.Status != models.RoomStatusWaiting {
		return nil, &StateConflictError{Msg: "quiz already started"}
	}

	now := time.Now().UTC()
	ok, err := s.rooms.MarkStarted(ctx, code, now)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost a start race between our read and the update.
		return nil, &StateConflictError{Msg: "quiz already started"}
	}
	room.Status = models.RoomStatusActive
	room.StartedAt = &now

	s.events.Broadcast(code, ws.NewQuizStarted(code, room.QuizID, now))
	s.log.Info("quiz started", "room", code, "quiz", room.QuizID)
	return room, nil
}

// LeaveRoom removes the participant unconditionally; an absent id or
// an unknown room is a no-op.
func (s *RoomService) LeaveRoom(ctx context.Context, code, participantID string) error {
	code = normalizeCode(code)
	if code == "" || participantID == "" {
		return &ValidationError{Msg: "room code and participant id are required"}
	}

	if err := s.rooms.RemoveParticipant(ctx, code, participantID); err != nil {
		return err
	}
	room, err := s.rooms.FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	s.events.Broadcast(code, ws.NewPlayerLeft(code, participantID, room.Participants))
	s.log.Info("player left", "room", code, "participant", participantID)
	return nil
}

// SubmitResult marks the participant finished and records its score.
// Re-submitting overwrites the score fields but cannot un-finish, so
// allFinished never double-counts. When the last participant finishes
// the room transitions to completed exactly once.
func (s *RoomService) SubmitResult(ctx context.Context, code, participantID string, score, correct, total int) (*models.Room, bool, error) {
	code = normalizeCode(code)
	if code == "" || participantID == "" {
		return nil, false, &ValidationError{Msg: "room code and participant id are required"}
	}

	now := time.Now().UTC()
	ok, err := s.rooms.FinishParticipant(ctx, code, participantID, score, correct, total, now)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		// Only active rooms accept submits. Tell a too-early submit
		// apart from an unknown room or participant.
		room, err := s.rooms.FindByCode(ctx, code)
		if err == nil && room.Status == models.RoomStatusWaiting {
			return nil, false, &StateConflictError{Msg: "quiz has not started"}
		}
		return nil, false, &NotFoundError{Msg: "room or participant not found"}
	}

	room, err := s.findRoom(ctx, code)
	if err != nil {
		return nil, false, err
	}

	allFinished := room.AllFinished()
	if allFinished && room.Status == models.RoomStatusActive {
		completed, err := s.rooms.MarkCompleted(ctx, code, now)
		if err != nil {
			return nil, false, err
		}
		if completed {
			room.Status = models.RoomStatusCompleted
			room.CompletedAt = &now
			s.log.Info("room completed", "room", code)
		}
	}

	s.events.Broadcast(code, ws.NewPlayerFinished(code, participantID, allFinished, room.Participants))
	return room, allFinished, nil
}

// GetRoom returns the authoritative snapshot the reconciliation poller
// relies on.
func (s *RoomService) GetRoom(ctx context.Context, code string) (*models.Room, error) {
	code = normalizeCode(code)
	if code == "" {
		return nil, &ValidationError{Msg: "room code is required"}
	}
	return s.findRoom(ctx, code)
}

func (s *RoomService) findRoom(ctx context.Context, code string) (*models.Room, error) {
	room, err := s.rooms.FindByCode(ctx, code)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Msg: "room not found"}
	}
	if err != nil {
		return nil, err
	}
	return room, nil
}

func (s *RoomService) allocateCode(ctx context.Context) (string, error) {
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := generateCode()
		inUse, err := s.rooms.CodeInUse(ctx, code)
		if err != nil {
			return "", err
		}
		if !inUse {
			return code, nil
		}
	}
	return "", ErrRoomCodeExhausted
}

func generateCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[rand.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

// Codes are case-insensitive on input and uppercase internally.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
