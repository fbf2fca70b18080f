package notify

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bidmarket/pkg/metrics"
)

// RoutingKeyRequested is the routing key notification events are published
// under on the events exchange.
const RoutingKeyRequested = "notification.requested"

// Event is a plain-text email to be delivered by the notifier worker.
type Event struct {
	ID      string `json:"id"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Publisher is the slice of the MQ publisher the dispatcher needs.
type Publisher interface {
	Publish(routingKey string, payload any) error
}

// Dispatcher publishes notification events best-effort. Delivery failure is
// logged and counted, never propagated: the state transition the
// notification announces has already happened.
type Dispatcher struct {
	pub    Publisher
	logger *zap.Logger
}

func NewDispatcher(pub Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{pub: pub, logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, to, subject, body string) {
	event := Event{
		ID:      uuid.NewString(),
		To:      to,
		Subject: subject,
		Body:    body,
	}

	if err := d.pub.Publish(RoutingKeyRequested, event); err != nil {
		d.logger.Error("Failed to publish notification event",
			zap.String("event_id", event.ID),
			zap.String("to", to),
			zap.Error(err),
		)
		metrics.IncrementNotification("publish_failed")
		return
	}

	d.logger.Info("Notification event published",
		zap.String("event_id", event.ID),
		zap.String("to", to),
	)
	metrics.IncrementNotification("published")
}
