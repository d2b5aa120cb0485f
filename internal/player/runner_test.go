package player

import (
	"sync"
	"testing"
	"time"

	"quizroom-backend/internal/models"

	"github.com/jonboulle/clockwork"
)

func twoOptionQuiz(questions, seconds int) models.Quiz {
	quiz := models.Quiz{ID: "Q1", Title: "test", QuestionSeconds: seconds}
	for i := 0; i < questions; i++ {
		quiz.Questions = append(quiz.Questions, models.Question{
			ID:            string(rune('a' + i)),
			Text:          "question",
			Options:       []string{"right", "wrong"},
			CorrectOption: 0,
		})
	}
	return quiz
}

type questionLog struct {
	mu      sync.Mutex
	indexes []int
}

func (l *questionLog) record(idx int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.indexes = append(l.indexes, idx)
}

func (l *questionLog) seen(idx int) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, i := range l.indexes {
		if i == idx {
			return true
		}
	}
	return false
}

// advanceUntil steps the fake clock forward until cond holds, failing
// the test if it never does.
func advanceUntil(t *testing.T, clock *clockwork.FakeClock, cond func() bool) {
	t.Helper()
	for i := 0; i < 500; i++ {
		if cond() {
			return
		}
		clock.Advance(100 * time.Millisecond)
		time.Sleep(time.Millisecond)
	}
	t.Fatal("condition never reached")
}

func TestSoloRunnerAnswersAdvanceImmediately(t *testing.T) {
	runner := NewRunner(RunnerConfig{
		Quiz:  twoOptionQuiz(3, 30),
		Mode:  ModeSolo,
		Clock: clockwork.NewFakeClock(),
	})
	runner.Start()

	runner.Answer(0)
	runner.Answer(1)
	runner.Answer(0)

	select {
	case <-runner.Done():
	case <-time.After(time.Second):
		t.Fatal("solo runner never finished")
	}

	outcome, ok := runner.Outcome()
	if !ok {
		t.Fatal("Outcome not ready after Done")
	}
	if outcome.Result.CorrectCount != 2 || outcome.Result.IncorrectCount != 1 {
		t.Errorf("result = %+v, want 2 correct 1 incorrect", outcome.Result)
	}
	// Solo: 2 points per correct minus 0.66 per incorrect.
	if got := outcome.Result.AdjustedScore; got < 3.33 || got > 3.35 {
		t.Errorf("AdjustedScore = %v, want 3.34", got)
	}
}

func TestSoloRunnerIgnoresAnswersAfterFinish(t *testing.T) {
	runner := NewRunner(RunnerConfig{
		Quiz:  twoOptionQuiz(1, 30),
		Mode:  ModeSolo,
		Clock: clockwork.NewFakeClock(),
	})
	runner.Start()
	runner.Answer(0)
	<-runner.Done()

	runner.Answer(1) // must be a no-op

	outcome, _ := runner.Outcome()
	if outcome.Result.CorrectCount != 1 {
		t.Errorf("late answer mutated the outcome: %+v", outcome.Result)
	}
}

func TestMultiplayerRunnerDelayAndTimeout(t *testing.T) {
	clock := clockwork.NewFakeClock()
	questions := &questionLog{}

	runner := NewRunner(RunnerConfig{
		Quiz:       twoOptionQuiz(2, 2),
		Mode:       ModeMultiplayer,
		Clock:      clock,
		OnQuestion: func(idx int) { questions.record(idx) },
	})
	runner.Start()

	// Correct answer on question 0; the next question only appears
	// after the feedback delay.
	runner.Answer(0)
	if questions.seen(1) {
		t.Fatal("advanced before the feedback delay")
	}
	advanceUntil(t, clock, func() bool { return questions.seen(1) })

	// Let question 1 time out: it must be recorded as unanswered.
	advanceUntil(t, clock, func() bool {
		select {
		case <-runner.Done():
			return true
		default:
			return false
		}
	})

	outcome, ok := runner.Outcome()
	if !ok {
		t.Fatal("Outcome not ready")
	}
	if outcome.Points != 1 {
		t.Errorf("Points = %d, want 1", outcome.Points)
	}
	if outcome.Selections[1] != models.UnansweredOption {
		t.Errorf("question 1 selection = %d, want %d", outcome.Selections[1], models.UnansweredOption)
	}
	if outcome.Result.CorrectCount != 1 || outcome.Result.UnansweredCount != 1 {
		t.Errorf("result = %+v, want 1 correct 1 unanswered", outcome.Result)
	}
	// Multiplayer: one point per correct, no negative marking.
	if outcome.Result.AdjustedScore != 1 {
		t.Errorf("AdjustedScore = %v, want 1", outcome.Result.AdjustedScore)
	}
}

func TestMultiplayerRunnerIgnoresRepeatAnswer(t *testing.T) {
	clock := clockwork.NewFakeClock()

	runner := NewRunner(RunnerConfig{
		Quiz:  twoOptionQuiz(1, 30),
		Mode:  ModeMultiplayer,
		Clock: clock,
	})
	runner.Start()

	// A double click inside the feedback delay: the question index has
	// not advanced yet, so the repeat lands on the same question and
	// must not award a second point or overwrite the selection.
	runner.Answer(0)
	runner.Answer(1)

	advanceUntil(t, clock, func() bool {
		select {
		case <-runner.Done():
			return true
		default:
			return false
		}
	})

	outcome, ok := runner.Outcome()
	if !ok {
		t.Fatal("Outcome not ready")
	}
	if outcome.Points != 1 {
		t.Errorf("Points = %d, want 1 (one correct answer)", outcome.Points)
	}
	if outcome.Selections[0] != 0 {
		t.Errorf("selection = %d, want the first answer kept", outcome.Selections[0])
	}
	if outcome.Result.CorrectCount != 1 || outcome.Result.IncorrectCount != 0 {
		t.Errorf("result = %+v, want 1 correct 0 incorrect", outcome.Result)
	}
}

func TestRunnerEmptyQuizFinishesImmediately(t *testing.T) {
	runner := NewRunner(RunnerConfig{
		Quiz:  models.Quiz{ID: "empty"},
		Mode:  ModeSolo,
		Clock: clockwork.NewFakeClock(),
	})
	runner.Start()

	select {
	case <-runner.Done():
	case <-time.After(time.Second):
		t.Fatal("empty quiz never finished")
	}
}
