// Package redis publishes credit events over Redis pub/sub, using the topic
// name as the channel.
package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"credito/internal/events"
	"credito/internal/platform/metrics"
)

// Publisher issues a PUBLISH per event.
type Publisher struct {
	client  redis.Cmdable
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(client redis.Cmdable, opts ...Option) *Publisher {
	p := &Publisher{client: client, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Publisher) Publish(ctx context.Context, topic string, ev events.Event) error {
	receivers, err := p.client.Publish(ctx, topic, ev.Encode()).Result()
	if err != nil {
		p.metrics.IncrementPublishFailures(topic)
		return fmt.Errorf("publish %s to %s: %w", ev.Type, topic, err)
	}
	p.metrics.IncrementEventsPublished(topic, string(ev.Type))
	p.logger.DebugContext(ctx, "credit event published",
		"channel", topic,
		"event", ev.String(),
		"receivers", receivers,
	)
	return nil
}
