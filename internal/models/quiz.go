package models

// Quiz content is owned by the quiz authoring side of the product; this
// service only ever reads it: question lists for attempts and the
// negative-marking factor for solo scoring.
type Quiz struct {
	ID              string     `bson:"_id" json:"id"`
	Title           string     `bson:"title" json:"title"`
	Questions       []Question `bson:"questions" json:"questions"`
	NegativeMarking *float64   `bson:"negative_marking,omitempty" json:"negativeMarking,omitempty"`
	QuestionSeconds int        `bson:"question_seconds,omitempty" json:"questionSeconds,omitempty"`
}

type Question struct {
	ID            string   `bson:"question_id" json:"questionId"`
	Text          string   `bson:"text" json:"text"`
	Options       []string `bson:"options" json:"options"`
	CorrectOption int      `bson:"correct_option" json:"correctOption"`
}

const (
	// DefaultNegativeMarking applies when a quiz does not configure one.
	DefaultNegativeMarking = 0.66

	// DefaultQuestionSeconds is the per-question countdown ceiling.
	DefaultQuestionSeconds = 30
)

// NegativeMarkingFactor resolves the quiz's configured factor, falling
// back to the default when unset.
func (q *Quiz) NegativeMarkingFactor() float64 {
	if q.NegativeMarking == nil {
		return DefaultNegativeMarking
	}
	return *q.NegativeMarking
}

// SecondsPerQuestion resolves the countdown duration, falling back to
// the default when unset.
func (q *Quiz) SecondsPerQuestion() int {
	if q.QuestionSeconds <= 0 {
		return DefaultQuestionSeconds
	}
	return q.QuestionSeconds
}
