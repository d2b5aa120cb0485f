package player

import (
	"sync"
	"time"

	"quizroom-backend/internal/models"
	"quizroom-backend/internal/services"

	"github.com/jonboulle/clockwork"
)

type Mode int

const (
	ModeSolo Mode = iota
	ModeMultiplayer
)

// MultiplayerFeedbackDelay is how long the answer highlight stays on
// screen before the next question in multiplayer; solo advances
// immediately.
const MultiplayerFeedbackDelay = 1500 * time.Millisecond

// Outcome is the finished attempt, batch-scored with the mode's
// strategy. Points carries the multiplayer running total (equal to the
// correct count by construction).
type Outcome struct {
	Mode       Mode
	Result     services.AttemptResult
	Points     int
	Selections map[int]int
}

// RunnerConfig wires a Runner. Clock defaults to the real clock,
// callbacks may be nil.
type RunnerConfig struct {
	Quiz       models.Quiz
	Mode       Mode
	Clock      clockwork.Clock
	OnQuestion func(index int)
	OnTick     func(index, remaining int)
	OnFinish   func(Outcome)
}

// Runner drives one attempt through the quiz's questions: it owns the
// active question index, one Countdown per question, and the mode's
// scoring strategy. Answer races the countdown; whichever fires first
// advances the question exactly once.
type Runner struct {
	quiz          models.Quiz
	mode          Mode
	clock         clockwork.Clock
	feedbackDelay time.Duration
	onQuestion    func(index int)
	onTick        func(index, remaining int)
	onFinish      func(Outcome)

	mu         sync.Mutex
	idx        int
	selections map[int]int
	multi      *services.MultiplayerScoring
	countdown  *Countdown
	finished   bool
	outcome    Outcome
	done       chan struct{}
}

func NewRunner(cfg RunnerConfig) *Runner {
	clock := cfg.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	r := &Runner{
		quiz:       cfg.Quiz,
		mode:       cfg.Mode,
		clock:      clock,
		onQuestion: cfg.OnQuestion,
		onTick:     cfg.OnTick,
		onFinish:   cfg.OnFinish,
		selections: make(map[int]int),
		done:       make(chan struct{}),
	}
	if cfg.Mode == ModeMultiplayer {
		r.multi = services.NewMultiplayerScoring()
		r.feedbackDelay = MultiplayerFeedbackDelay
	}
	return r
}

// Start begins the first question's countdown.
func (r *Runner) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.quiz.Questions) == 0 {
		r.finishLocked()
		return
	}
	r.startCountdownLocked()
	if r.onQuestion != nil {
		go r.onQuestion(0)
	}
}

// Answer records the selected option for the current question and
// advances: immediately in solo, after the feedback delay in
// multiplayer. Answers after the attempt finished, and repeat answers
// for a question already answered (a double click inside the feedback
// delay), are ignored.
func (r *Runner) Answer(option int) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	idx := r.idx
	if _, answered := r.selections[idx]; answered {
		r.mu.Unlock()
		return
	}
	r.selections[idx] = option
	if r.multi != nil {
		r.multi.Award(option == r.quiz.Questions[idx].CorrectOption)
	}
	r.countdown.Stop()
	delay := r.feedbackDelay
	r.mu.Unlock()

	if delay > 0 {
		go func() {
			<-r.clock.After(delay)
			r.advance(idx)
		}()
		return
	}
	r.advance(idx)
}

// Done is closed once the attempt has finished.
func (r *Runner) Done() <-chan struct{} { return r.done }

// Outcome returns the final result; ok is false until finished.
func (r *Runner) Outcome() (Outcome, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.outcome, r.finished
}

// timeUp handles countdown expiry for question idx: multiplayer
// records the question as unanswered, solo simply moves on (absent
// selections already score as unanswered).
func (r *Runner) timeUp(idx int) {
	r.mu.Lock()
	if r.finished || idx != r.idx {
		r.mu.Unlock()
		return
	}
	if r.mode == ModeMultiplayer {
		r.selections[idx] = models.UnansweredOption
		r.multi.Award(false)
	}
	r.mu.Unlock()
	r.advance(idx)
}

// advance moves past question from, guarding against stale calls when
// the index already changed.
func (r *Runner) advance(from int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished || from != r.idx {
		return
	}
	r.countdown.Stop()
	if r.idx == len(r.quiz.Questions)-1 {
		r.finishLocked()
		return
	}
	r.idx++
	r.startCountdownLocked()
	if r.onQuestion != nil {
		go r.onQuestion(r.idx)
	}
}

func (r *Runner) startCountdownLocked() {
	idx := r.idx
	r.countdown = NewCountdown(r.clock, r.quiz.SecondsPerQuestion(),
		func(remaining int) {
			if r.onTick != nil {
				r.onTick(idx, remaining)
			}
		},
		func() { r.timeUp(idx) },
	)
	r.countdown.Start()
}

func (r *Runner) finishLocked() {
	r.finished = true

	var strategy services.ScoringStrategy = services.SoloScoringFor(&r.quiz)
	points := 0
	if r.mode == ModeMultiplayer {
		strategy = r.multi
		points = r.multi.Points()
	}
	selections := make(map[int]int, len(r.selections))
	for k, v := range r.selections {
		selections[k] = v
	}
	r.outcome = Outcome{
		Mode:       r.mode,
		Result:     strategy.Score(r.quiz.Questions, selections),
		Points:     points,
		Selections: selections,
	}
	close(r.done)
	if r.onFinish != nil {
		go r.onFinish(r.outcome)
	}
}
