package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quizroom-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned by lookups when no document matches.
var ErrNotFound = errors.New("not found")

// RoomStore persists rooms with field-scoped atomic operations only:
// no read-modify-write, so concurrent joins or submits never clobber
// each other's participant entries.
type RoomStore struct {
	col *mongo.Collection
}

func NewRoomStore(db *mongo.Database) *RoomStore {
	return &RoomStore{col: db.Collection("rooms")}
}

func (s *RoomStore) Insert(ctx context.Context, room *models.Room) error {
	if _, err := s.col.InsertOne(ctx, room); err != nil {
		return fmt.Errorf("insert room: %w", err)
	}
	return nil
}

func (s *RoomStore) FindByCode(ctx context.Context, code string) (*models.Room, error) {
	var room models.Room
	err := s.col.FindOne(ctx, bson.M{"code": code}).Decode(&room)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find room %s: %w", code, err)
	}
	return &room, nil
}

// CodeInUse reports whether a non-completed room already holds the code.
func (s *RoomStore) CodeInUse(ctx context.Context, code string) (bool, error) {
	n, err := s.col.CountDocuments(ctx, bson.M{
		"code":   code,
		"status": bson.M{"$ne": models.RoomStatusCompleted},
	})
	if err != nil {
		return false, fmt.Errorf("count rooms with code %s: %w", code, err)
	}
	return n > 0, nil
}

// AppendParticipant pushes p onto the participant list iff the room is
// still waiting. Returns false when no waiting room matched the code,
// which covers both an unknown code and a closed join window.
func (s *RoomStore) AppendParticipant(ctx context.Context, code string, p models.Participant) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"code": code, "status": models.RoomStatusWaiting},
		bson.M{"$push": bson.M{"participants": p}},
	)
	if err != nil {
		return false, fmt.Errorf("append participant to %s: %w", code, err)
	}
	return res.MatchedCount > 0, nil
}

// RemoveParticipant pulls the participant out of the list. A missing
// participant or room is a no-op.
func (s *RoomStore) RemoveParticipant(ctx context.Context, code, participantID string) error {
	_, err := s.col.UpdateOne(ctx,
		bson.M{"code": code},
		bson.M{"$pull": bson.M{"participants": bson.M{"participant_id": participantID}}},
	)
	if err != nil {
		return fmt.Errorf("remove participant from %s: %w", code, err)
	}
	return nil
}

// MarkStarted moves waiting -> active. Returns false when the room was
// not in waiting, so a second start loses the race cleanly.
func (s *RoomStore) MarkStarted(ctx context.Context, code string, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"code": code, "status": models.RoomStatusWaiting},
		bson.M{"$set": bson.M{"status": models.RoomStatusActive, "started_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("mark room %s started: %w", code, err)
	}
	return res.MatchedCount > 0, nil
}

// FinishParticipant marks one participant finished and records its
// result fields via the positional operator. Only an active room
// matches, so a submit cannot pre-finish a participant before the quiz
// starts. Re-submitting overwrites the score fields but cannot
// un-finish. Returns false when the room is not active or the
// participant is unknown.
func (s *RoomStore) FinishParticipant(ctx context.Context, code, participantID string, score, correct, total int, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{
			"code":                        code,
			"status":                      models.RoomStatusActive,
			"participants.participant_id": participantID,
		},
		bson.M{"$set": bson.M{
			"participants.$.finished":        true,
			"participants.$.score":           score,
			"participants.$.correct_answers": correct,
			"participants.$.total_questions": total,
			"participants.$.finished_at":     at,
		}},
	)
	if err != nil {
		return false, fmt.Errorf("finish participant in %s: %w", code, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkCompleted moves active -> completed. The conditional filter makes
// the transition exactly-once: when two submits race, only one matches.
func (s *RoomStore) MarkCompleted(ctx context.Context, code string, at time.Time) (bool, error) {
	res, err := s.col.UpdateOne(ctx,
		bson.M{"code": code, "status": models.RoomStatusActive},
		bson.M{"$set": bson.M{"status": models.RoomStatusCompleted, "completed_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("mark room %s completed: %w", code, err)
	}
	return res.MatchedCount > 0, nil
}
