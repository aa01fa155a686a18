package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"dashpos/internal/connections/rabbitmq"
	"dashpos/internal/domain"
)

// Publisher fans domain events out through the events_topic exchange. The
// realtime subscriber picks them up and forwards them to websocket clients.
type Publisher struct {
	mq  *rabbitmq.Client
	log *zap.Logger
}

func NewPublisher(mq *rabbitmq.Client, log *zap.Logger) *Publisher {
	return &Publisher{mq: mq, log: log}
}

// Publish is best-effort: a broken bus must not fail the originating request,
// so failures are logged and swallowed.
func (p *Publisher) Publish(ctx context.Context, businessID, event string, data any) {
	if p == nil || p.mq == nil {
		return
	}
	body, err := json.Marshal(domain.Event{
		Event:      event,
		BusinessID: businessID,
		Timestamp:  time.Now().UTC(),
		Data:       data,
	})
	if err != nil {
		p.log.Error("event_marshal_failed", zap.String("event", event), zap.Error(err))
		return
	}

	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	key := fmt.Sprintf("events.%s.%s", businessID, event)
	if err := p.mq.Publish(pctx, rabbitmq.EventsExchange, key, body); err != nil {
		p.log.Error("event_publish_failed",
			zap.String("event", event),
			zap.String("business_id", businessID),
			zap.Error(err))
	}
}
