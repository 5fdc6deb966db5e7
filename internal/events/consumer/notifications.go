package consumer

import (
	"context"
	"log/slog"

	"credito/internal/platform/kafka/consumer"
	"credito/internal/platform/metrics"
)

// NotificationHandler logs whatever arrives on the notifications topic.
type NotificationHandler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewNotificationHandler(logger *slog.Logger, m *metrics.Metrics) *NotificationHandler {
	return &NotificationHandler{logger: logger, metrics: m}
}

func (h *NotificationHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	h.metrics.IncrementEventsConsumed(msg.Topic)
	h.logger.InfoContext(ctx, "credit notification received",
		"topic", msg.Topic,
		"key", string(msg.Key),
		"value", string(msg.Value),
	)
	return nil
}
