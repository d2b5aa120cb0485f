package player

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Countdown is one question's timer: it starts at the quiz-configured
// seconds, ticks down by one, and fires onExpire at zero. The timer is
// a ceiling per question, not a shared clock; a new Countdown is
// created whenever the active question changes, so unused time never
// carries over.
type Countdown struct {
	clock    clockwork.Clock
	seconds  int
	onTick   func(remaining int)
	onExpire func()

	mu        sync.Mutex
	remaining int
	stop      chan struct{}
	stopped   bool
}

func NewCountdown(clock clockwork.Clock, seconds int, onTick func(int), onExpire func()) *Countdown {
	return &Countdown{
		clock:     clock,
		seconds:   seconds,
		onTick:    onTick,
		onExpire:  onExpire,
		remaining: seconds,
		stop:      make(chan struct{}),
	}
}

func (c *Countdown) Start() {
	go c.run()
}

// Stop cancels the countdown; selecting an answer before expiry calls
// this. Safe to call more than once.
func (c *Countdown) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.stopped {
		c.stopped = true
		close(c.stop)
	}
}

func (c *Countdown) Remaining() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.remaining
}

func (c *Countdown) run() {
	ticker := c.clock.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.Chan():
		}

		c.mu.Lock()
		if c.stopped {
			c.mu.Unlock()
			return
		}
		c.remaining--
		remaining := c.remaining
		if remaining <= 0 {
			c.stopped = true
			close(c.stop)
		}
		c.mu.Unlock()

		if c.onTick != nil {
			c.onTick(remaining)
		}
		if remaining <= 0 {
			if c.onExpire != nil {
				c.onExpire()
			}
			return
		}
	}
}
