package player

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultPollInterval matches the server's POLL_INTERVAL default.
const DefaultPollInterval = 2 * time.Second

// Poller reconciles room completion when push delivery cannot be
// assumed durable: once a submit comes back with allFinished=false,
// the client polls the authoritative snapshot until the room completes.
// Whichever signal lands first, push or poll, wins; the other is a
// no-op.
type Poller struct {
	client   *Client
	interval time.Duration
	clock    clockwork.Clock
	log      *slog.Logger
}

func NewPoller(client *Client, interval time.Duration, clock clockwork.Clock, log *slog.Logger) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{client: client, interval: interval, clock: clock, log: log}
}

// WaitForCompletion polls GET room/{code} on the fixed interval until
// the room is completed or every participant has finished, then
// returns the final snapshot. Transient fetch errors are retried on
// the next tick; a vanished room aborts.
func (p *Poller) WaitForCompletion(ctx context.Context, code string) (*RoomSnapshot, error) {
	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.Chan():
		}

		snapshot, err := p.client.GetRoom(ctx, code)
		if err != nil {
			var apiErr *APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				return nil, err
			}
			p.log.Warn("poll failed, retrying", "room", code, "error", err)
			continue
		}
		if snapshot.Finished() {
			p.log.Debug("room finished", "room", code, "status", snapshot.Status)
			return snapshot, nil
		}
	}
}
