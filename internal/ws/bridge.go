package ws

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
)

const bridgeSubjectPrefix = "quizroom.events."

// Bridge routes broadcasts through NATS so fan-out reaches every
// process instance, not only the one that handled the mutation. Local
// delivery happens when the subscription echoes the event back, so a
// single code path feeds the hub regardless of which instance
// published.
type Bridge struct {
	hub *Hub
	nc  *nats.Conn
	sub *nats.Subscription
	log *slog.Logger
}

func NewBridge(hub *Hub, url string, log *slog.Logger) (*Bridge, error) {
	nc, err := nats.Connect(url,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	b := &Bridge{hub: hub, nc: nc, log: log}
	b.sub, err = nc.Subscribe(bridgeSubjectPrefix+">", b.onMessage)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("subscribe %s>: %w", bridgeSubjectPrefix, err)
	}
	return b, nil
}

// Broadcast publishes the event for every instance, including this one.
func (b *Bridge) Broadcast(code string, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		b.log.Error("bridge marshal", "type", event.EventType(), "error", err)
		return
	}
	if err := b.nc.Publish(bridgeSubjectPrefix+code, data); err != nil {
		b.log.Warn("bridge publish failed, delivering locally", "room", code, "error", err)
		b.hub.deliver(code, data)
	}
}

func (b *Bridge) onMessage(msg *nats.Msg) {
	code := strings.TrimPrefix(msg.Subject, bridgeSubjectPrefix)
	b.hub.deliver(code, msg.Data)
}

func (b *Bridge) Close() {
	if b.sub != nil {
		b.sub.Unsubscribe()
	}
	b.nc.Close()
}
