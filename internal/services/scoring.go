package services

import (
	"math"

	"quizroom-backend/internal/models"
)

// AttemptResult is the scoring engine's output for one attempt.
type AttemptResult struct {
	CorrectCount    int                           `json:"correctCount"`
	IncorrectCount  int                           `json:"incorrectCount"`
	UnansweredCount int                           `json:"unansweredCount"`
	PercentageScore int                           `json:"percentageScore"`
	AdjustedScore   float64                       `json:"adjustedScore"`
	Records         []models.QuestionAnswerRecord `json:"records"`
}

// ScoringStrategy evaluates an ordered question list against the
// player's selections (absent index = unanswered). Solo and
// multiplayer scoring are deliberately different product behaviors;
// keep them as two named strategies, do not unify.
type ScoringStrategy interface {
	Name() string
	Score(questions []models.Question, selections map[int]int) AttemptResult
}

// SoloScoring applies negative marking: 2 points per correct answer
// minus the configured factor per incorrect one (unanswered is free),
// floored at zero.
type SoloScoring struct {
	NegativeMarking float64
}

// SoloScoringFor builds the solo strategy from the quiz's configured
// negative-marking factor.
func SoloScoringFor(quiz *models.Quiz) SoloScoring {
	return SoloScoring{NegativeMarking: quiz.NegativeMarkingFactor()}
}

func (SoloScoring) Name() string { return "solo" }

func (s SoloScoring) Score(questions []models.Question, selections map[int]int) AttemptResult {
	result := tally(questions, selections)
	adjusted := float64(result.CorrectCount*2) - float64(result.IncorrectCount)*s.NegativeMarking
	result.AdjustedScore = math.Max(0, adjusted)
	return result
}

// MultiplayerScoring awards one point per correct answer with no
// negative marking. Points accumulate as each question is answered
// rather than in one batch at the end.
type MultiplayerScoring struct {
	points  int
	correct int
}

func NewMultiplayerScoring() *MultiplayerScoring {
	return &MultiplayerScoring{}
}

func (*MultiplayerScoring) Name() string { return "multiplayer" }

// Award records one answered question and returns the running total.
func (m *MultiplayerScoring) Award(correct bool) int {
	if correct {
		m.points++
		m.correct++
	}
	return m.points
}

func (m *MultiplayerScoring) Points() int { return m.points }

func (m *MultiplayerScoring) Correct() int { return m.correct }

func (m *MultiplayerScoring) Score(questions []models.Question, selections map[int]int) AttemptResult {
	result := tally(questions, selections)
	result.AdjustedScore = float64(result.CorrectCount)
	return result
}

func tally(questions []models.Question, selections map[int]int) AttemptResult {
	result := AttemptResult{
		Records: make([]models.QuestionAnswerRecord, 0, len(questions)),
	}
	for i, q := range questions {
		selected, ok := selections[i]
		if !ok {
			selected = models.UnansweredOption
		}
		correct := selected != models.UnansweredOption && selected == q.CorrectOption
		switch {
		case correct:
			result.CorrectCount++
		case selected == models.UnansweredOption:
			result.UnansweredCount++
		default:
			result.IncorrectCount++
		}
		result.Records = append(result.Records, models.QuestionAnswerRecord{
			QuestionID:          q.ID,
			SelectedOptionIndex: selected,
			CorrectOptionIndex:  q.CorrectOption,
			IsCorrect:           correct,
			QuestionText:        q.Text,
			OptionTexts:         q.Options,
		})
	}
	if len(questions) > 0 {
		result.PercentageScore = int(math.Round(float64(result.CorrectCount) / float64(len(questions)) * 100))
	}
	return result
}
