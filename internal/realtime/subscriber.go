package realtime

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"dashpos/internal/connections/rabbitmq"
	"dashpos/internal/domain"
)

// Subscriber drains the realtime queue and hands each event to the hub.
type Subscriber struct {
	mq  *rabbitmq.Client
	hub *Hub
	log *zap.Logger
}

func NewSubscriber(mq *rabbitmq.Client, hub *Hub, log *zap.Logger) *Subscriber {
	return &Subscriber{mq: mq, hub: hub, log: log}
}

// Run consumes until the context is cancelled or the broker channel closes.
// Undecodable messages are rejected without requeue so the DLX keeps them.
func (s *Subscriber) Run(ctx context.Context) error {
	deliveries, err := s.mq.Consume(rabbitmq.RealtimeQueue, "realtime-fanout", 50)
	if err != nil {
		return err
	}
	s.log.Info("realtime subscriber started", zap.String("queue", rabbitmq.RealtimeQueue))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				s.log.Warn("delivery channel closed")
				return nil
			}
			var ev domain.Event
			if err := json.Unmarshal(d.Body, &ev); err != nil {
				s.log.Error("undecodable event", zap.Error(err), zap.String("routing_key", d.RoutingKey))
				_ = d.Reject(false)
				continue
			}
			s.hub.Broadcast(ev)
			_ = d.Ack(false)
		}
	}
}
