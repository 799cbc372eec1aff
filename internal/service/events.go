package service

import (
	"context"
	"time"

	"github.com/NureAlam68/magical-meals-server/internal/logging"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, topic, key string, event any) error
}

type Event struct {
	Type string    `json:"type"`
	At   time.Time `json:"at"`
	Data any       `json:"data"`
}

// publish is best effort: a failed publish is logged and otherwise ignored.
func publish(ctx context.Context, p EventPublisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	ev := Event{Type: typ, At: time.Now().UTC(), Data: data}
	if err := p.PublishEvent(ctx, topic, key, ev); err != nil {
		logging.FromContext(ctx).Warn("event_publish_error", "topic", topic, "type", typ, "error", err)
	}
}
