package store

import (
	"context"
	"errors"
	"fmt"

	"quizroom-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// QuizStore is read-only: quiz content is authored elsewhere.
type QuizStore struct {
	col *mongo.Collection
}

func NewQuizStore(db *mongo.Database) *QuizStore {
	return &QuizStore{col: db.Collection("quizzes")}
}

func (s *QuizStore) FindByID(ctx context.Context, id string) (*models.Quiz, error) {
	var quiz models.Quiz
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&quiz)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find quiz %s: %w", id, err)
	}
	return &quiz, nil
}
