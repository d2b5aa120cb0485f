package player

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"quizroom-backend/internal/models"

	"github.com/jonboulle/clockwork"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// snapshotServer serves a sequence of snapshots, repeating the last.
func snapshotServer(t *testing.T, polls *atomic.Int32, snapshots ...RoomSnapshot) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(polls.Add(1)) - 1
		if n >= len(snapshots) {
			n = len(snapshots) - 1
		}
		json.NewEncoder(w).Encode(snapshots[n])
	}))
	t.Cleanup(server.Close)
	return server
}

func TestPollerStopsWhenCompleted(t *testing.T) {
	var polls atomic.Int32
	server := snapshotServer(t, &polls,
		RoomSnapshot{RoomCode: "AB3X9K", Status: models.RoomStatusActive,
			Participants: []models.Participant{{ParticipantID: "p1"}, {ParticipantID: "p2", Finished: true}}},
		RoomSnapshot{RoomCode: "AB3X9K", Status: models.RoomStatusCompleted,
			Participants: []models.Participant{{ParticipantID: "p1", Finished: true}, {ParticipantID: "p2", Finished: true}}},
	)

	clock := clockwork.NewFakeClock()
	poller := NewPoller(NewClient(server.URL), 2*time.Second, clock, discardLogger())

	type result struct {
		snapshot *RoomSnapshot
		err      error
	}
	resultCh := make(chan result, 1)
	go func() {
		snapshot, err := poller.WaitForCompletion(context.Background(), "AB3X9K")
		resultCh <- result{snapshot, err}
	}()

	// First tick observes the still-active room, second the completed one.
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)
	for polls.Load() < 1 {
		time.Sleep(time.Millisecond)
	}
	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	select {
	case res := <-resultCh:
		if res.err != nil {
			t.Fatalf("WaitForCompletion: %v", res.err)
		}
		if res.snapshot.Status != models.RoomStatusCompleted {
			t.Errorf("status = %q, want completed", res.snapshot.Status)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller never returned")
	}

	if polls.Load() != 2 {
		t.Errorf("polls = %d, want 2", polls.Load())
	}
}

func TestPollerStopsWhenAllFinishedWithoutCompletedStatus(t *testing.T) {
	var polls atomic.Int32
	// Every participant finished but the completion broadcast raced the
	// status write on another instance: the poller must still stop.
	server := snapshotServer(t, &polls,
		RoomSnapshot{RoomCode: "AB3X9K", Status: models.RoomStatusActive,
			Participants: []models.Participant{{ParticipantID: "p1", Finished: true}}},
	)

	clock := clockwork.NewFakeClock()
	poller := NewPoller(NewClient(server.URL), 2*time.Second, clock, discardLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		snapshot, err := poller.WaitForCompletion(context.Background(), "AB3X9K")
		if err != nil {
			t.Errorf("WaitForCompletion: %v", err)
			return
		}
		if !snapshot.Finished() {
			t.Errorf("snapshot not finished: %+v", snapshot)
		}
	}()

	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("poller never returned")
	}
}

func TestPollerAbortsOnVanishedRoom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "room not found"})
	}))
	t.Cleanup(server.Close)

	clock := clockwork.NewFakeClock()
	poller := NewPoller(NewClient(server.URL), 2*time.Second, clock, discardLogger())

	errCh := make(chan error, 1)
	go func() {
		_, err := poller.WaitForCompletion(context.Background(), "ZZZZZZ")
		errCh <- err
	}()

	clock.BlockUntil(1)
	clock.Advance(2 * time.Second)

	select {
	case err := <-errCh:
		var apiErr *APIError
		if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
			t.Errorf("err = %v, want 404 APIError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller never returned")
	}
}

func TestPollerHonorsContextCancel(t *testing.T) {
	clock := clockwork.NewFakeClock()
	poller := NewPoller(NewClient("http://127.0.0.1:0"), 2*time.Second, clock, discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		_, err := poller.WaitForCompletion(ctx, "AB3X9K")
		errCh <- err
	}()

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller ignored cancellation")
	}
}
