package notify

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"bidmarket/pkg/metrics"
)

// Mailer delivers a plain-text message to an email address.
type Mailer interface {
	Send(to, subject, body string) error
}

// Acquirer gates event processing to once per event id.
type Acquirer interface {
	AcquireOnce(ctx context.Context, eventID string) bool
}

// RequestedHandler consumes notification.requested events and delivers them
// over the mailer. Send failures are logged and swallowed so the message is
// acked instead of requeueing a mail that already missed its moment.
type RequestedHandler struct {
	mailer  Mailer
	deduper Acquirer
	logger  *zap.Logger
}

func NewRequestedHandler(mailer Mailer, deduper Acquirer, logger *zap.Logger) *RequestedHandler {
	return &RequestedHandler{mailer: mailer, deduper: deduper, logger: logger}
}

func (h *RequestedHandler) Handle(ctx context.Context, raw json.RawMessage) error {
	var event Event
	if err := json.Unmarshal(raw, &event); err != nil {
		h.logger.Error("Failed to unmarshal notification event", zap.Error(err))
		return err
	}

	if !h.deduper.AcquireOnce(ctx, event.ID) {
		metrics.IncrementNotification("deduplicated")
		return nil
	}

	h.logger.Info("Sending notification email",
		zap.String("event_id", event.ID),
		zap.String("to", event.To),
		zap.String("subject", event.Subject),
	)

	if err := h.mailer.Send(event.To, event.Subject, event.Body); err != nil {
		h.logger.Error("Failed to send notification email",
			zap.String("event_id", event.ID),
			zap.String("to", event.To),
			zap.Error(err),
		)
		metrics.IncrementNotification("send_failed")
		return nil
	}

	metrics.IncrementNotification("sent")
	return nil
}
