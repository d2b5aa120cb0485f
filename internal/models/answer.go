package models

// UnansweredOption marks a question the player never answered.
const UnansweredOption = -1

// QuestionAnswerRecord is produced per question of an attempt for the
// review screen. It is transient: never persisted by this service.
type QuestionAnswerRecord struct {
	QuestionID          string   `json:"questionId"`
	SelectedOptionIndex int      `json:"selectedOptionIndex"`
	CorrectOptionIndex  int      `json:"correctOptionIndex"`
	IsCorrect           bool     `json:"isCorrect"`
	QuestionText        string   `json:"questionText"`
	OptionTexts         []string `json:"optionTexts"`
}
