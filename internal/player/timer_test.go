package player

import (
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

type tickRecorder struct {
	mu      sync.Mutex
	ticks   []int
	expired bool
	done    chan struct{}
}

func newTickRecorder() *tickRecorder {
	return &tickRecorder{done: make(chan struct{})}
}

func (r *tickRecorder) onTick(remaining int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ticks = append(r.ticks, remaining)
}

func (r *tickRecorder) onExpire() {
	r.mu.Lock()
	r.expired = true
	r.mu.Unlock()
	close(r.done)
}

func (r *tickRecorder) snapshot() ([]int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int(nil), r.ticks...), r.expired
}

func waitForTicks(t *testing.T, rec *tickRecorder, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		ticks, _ := rec.snapshot()
		if len(ticks) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d ticks", n)
}

func TestCountdownTicksDownAndExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newTickRecorder()

	cd := NewCountdown(clock, 3, rec.onTick, rec.onExpire)
	cd.Start()

	for i := 0; i < 3; i++ {
		clock.BlockUntil(1)
		clock.Advance(time.Second)
		waitForTicks(t, rec, i+1)
	}

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("countdown never expired")
	}

	ticks, expired := rec.snapshot()
	if !expired {
		t.Error("onExpire not called")
	}
	if len(ticks) != 3 || ticks[0] != 2 || ticks[2] != 0 {
		t.Errorf("ticks = %v, want [2 1 0]", ticks)
	}
	if cd.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", cd.Remaining())
	}
}

func TestCountdownStopCancelsExpiry(t *testing.T) {
	clock := clockwork.NewFakeClock()
	rec := newTickRecorder()

	cd := NewCountdown(clock, 5, rec.onTick, rec.onExpire)
	cd.Start()

	clock.BlockUntil(1)
	clock.Advance(time.Second)
	cd.Stop()
	cd.Stop() // repeated stop is safe

	clock.Advance(10 * time.Second)
	time.Sleep(20 * time.Millisecond)

	_, expired := rec.snapshot()
	if expired {
		t.Error("onExpire fired after Stop")
	}
}
