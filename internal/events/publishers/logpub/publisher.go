// Package logpub writes credit events to the log instead of a broker. It is
// the backend for local runs without Kafka or Redis.
package logpub

import (
	"context"
	"log/slog"

	"credito/internal/events"
	"credito/internal/platform/metrics"
)

type Publisher struct {
	logger  *slog.Logger
	metrics *metrics.Metrics
}

func New(logger *slog.Logger, m *metrics.Metrics) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger, metrics: m}
}

func (p *Publisher) Publish(ctx context.Context, topic string, ev events.Event) error {
	p.logger.InfoContext(ctx, "credit event",
		"topic", topic,
		"key", ev.Key(),
		"type", string(ev.Type),
		"value", ev.Encode(),
	)
	p.metrics.IncrementEventsPublished(topic, string(ev.Type))
	return nil
}
