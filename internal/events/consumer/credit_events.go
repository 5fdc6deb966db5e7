package consumer

import (
	"context"
	"log/slog"

	"credito/internal/events"
	"credito/internal/platform/kafka/consumer"
	"credito/internal/platform/metrics"
)

// CreditEventHandler logs credit lifecycle events. It never fails a message:
// malformed values are counted as dropped and committed.
type CreditEventHandler struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func NewCreditEventHandler(logger *slog.Logger, m *metrics.Metrics) *CreditEventHandler {
	return &CreditEventHandler{logger: logger, metrics: m}
}

func (h *CreditEventHandler) Handle(ctx context.Context, msg *consumer.Message) error {
	h.metrics.IncrementEventsConsumed(msg.Topic)

	ev, err := events.Parse(string(msg.Value))
	if err != nil {
		h.metrics.IncrementEventsDropped(metrics.DropMalformed)
		h.logger.WarnContext(ctx, "malformed credit event",
			"topic", msg.Topic,
			"key", string(msg.Key),
			"value", string(msg.Value),
			"error", err,
		)
		return nil
	}

	attrs := []any{"credit_id", ev.CreditID, "topic", msg.Topic}
	switch ev.Type {
	case events.TypeCreated:
		h.logger.InfoContext(ctx, "credit created", append(attrs, "number", ev.Detail)...)
	case events.TypeUpdated:
		h.logger.InfoContext(ctx, "credit updated", append(attrs, "number", ev.Detail)...)
	case events.TypeDeleted:
		h.logger.InfoContext(ctx, "credit deleted", append(attrs, "number", ev.Detail)...)
	case events.TypeStatusChanged:
		h.logger.InfoContext(ctx, "credit status changed", append(attrs, "status", ev.Detail)...)
	default:
		h.logger.WarnContext(ctx, "unknown credit event type", append(attrs, "type", string(ev.Type))...)
	}
	return nil
}
