package services

import (
	"context"
	"errors"
	"fmt"

	"quizroom-backend/internal/models"
	"quizroom-backend/internal/store"
)

// QuizService is the read-only gateway to quiz content: clients fetch
// question lists from it and solo attempts are evaluated against it.
type QuizService struct {
	quizzes QuizStore
}

func NewQuizService(quizzes QuizStore) *QuizService {
	return &QuizService{quizzes: quizzes}
}

func (s *QuizService) GetQuiz(ctx context.Context, id string) (*models.Quiz, error) {
	if id == "" {
		return nil, &ValidationError{Msg: "quiz id is required"}
	}
	quiz, err := s.quizzes.FindByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Msg: "quiz not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("look up quiz: %w", err)
	}
	return quiz, nil
}

// ScoreSoloAttempt evaluates a finished solo attempt with the quiz's
// negative-marking factor. Nothing is persisted: the records go back
// to the caller for its review screen.
func (s *QuizService) ScoreSoloAttempt(ctx context.Context, quizID string, selections map[int]int) (*AttemptResult, error) {
	quiz, err := s.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	result := SoloScoringFor(quiz).Score(quiz.Questions, selections)
	return &result, nil
}
