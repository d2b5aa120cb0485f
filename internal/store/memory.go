package store

import (
	"context"
	"sync"
	"time"

	"quizroom-backend/internal/models"
)

// MemoryRoomStore mirrors RoomStore semantics in process memory. It
// backs tests and local development without a running Mongo.
type MemoryRoomStore struct {
	mu    sync.Mutex
	rooms map[string]*models.Room
}

func NewMemoryRoomStore() *MemoryRoomStore {
	return &MemoryRoomStore{rooms: make(map[string]*models.Room)}
}

func (s *MemoryRoomStore) Insert(_ context.Context, room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cloneRoom(room)
	s.rooms[room.Code] = &clone
	return nil
}

func (s *MemoryRoomStore) FindByCode(_ context.Context, code string) (*models.Room, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil, ErrNotFound
	}
	clone := cloneRoom(room)
	return &clone, nil
}

func (s *MemoryRoomStore) CodeInUse(_ context.Context, code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	return ok && room.Status != models.RoomStatusCompleted, nil
}

func (s *MemoryRoomStore) AppendParticipant(_ context.Context, code string, p models.Participant) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Status != models.RoomStatusWaiting {
		return false, nil
	}
	room.Participants = append(room.Participants, p)
	return true, nil
}

func (s *MemoryRoomStore) RemoveParticipant(_ context.Context, code, participantID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok {
		return nil
	}
	kept := room.Participants[:0]
	for _, p := range room.Participants {
		if p.ParticipantID != participantID {
			kept = append(kept, p)
		}
	}
	room.Participants = kept
	return nil
}

func (s *MemoryRoomStore) MarkStarted(_ context.Context, code string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Status != models.RoomStatusWaiting {
		return false, nil
	}
	room.Status = models.RoomStatusActive
	room.StartedAt = &at
	return true, nil
}

func (s *MemoryRoomStore) FinishParticipant(_ context.Context, code, participantID string, score, correct, total int, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Status != models.RoomStatusActive {
		return false, nil
	}
	for i := range room.Participants {
		if room.Participants[i].ParticipantID == participantID {
			p := &room.Participants[i]
			p.Finished = true
			p.Score = score
			p.CorrectAnswers = correct
			p.TotalQuestions = total
			p.FinishedAt = &at
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryRoomStore) MarkCompleted(_ context.Context, code string, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	room, ok := s.rooms[code]
	if !ok || room.Status != models.RoomStatusActive {
		return false, nil
	}
	room.Status = models.RoomStatusCompleted
	room.CompletedAt = &at
	return true, nil
}

func cloneRoom(room *models.Room) models.Room {
	clone := *room
	clone.Participants = append([]models.Participant(nil), room.Participants...)
	return clone
}

// MemoryQuizStore serves seeded quiz content.
type MemoryQuizStore struct {
	mu      sync.Mutex
	quizzes map[string]models.Quiz
}

func NewMemoryQuizStore(quizzes ...models.Quiz) *MemoryQuizStore {
	s := &MemoryQuizStore{quizzes: make(map[string]models.Quiz)}
	for _, q := range quizzes {
		s.quizzes[q.ID] = q
	}
	return s
}

func (s *MemoryQuizStore) FindByID(_ context.Context, id string) (*models.Quiz, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	quiz, ok := s.quizzes[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &quiz, nil
}
