// Package kafka publishes credit events to Kafka topics.
package kafka

import (
	"context"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"credito/internal/events"
	"credito/internal/platform/metrics"
)

// Producer is the subset of *kgo.Client the publisher needs.
type Producer interface {
	TryProduce(ctx context.Context, r *kgo.Record, promise func(*kgo.Record, error))
	Flush(ctx context.Context) error
	Close()
}

// Publisher hands records to the client's buffer and returns immediately.
// Delivery outcomes are reported through logs and metrics only.
type Publisher struct {
	producer Producer
	logger   *slog.Logger
	metrics  *metrics.Metrics
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

func New(producer Producer, opts ...Option) *Publisher {
	p := &Publisher{producer: producer, logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish never blocks on a slow broker: when the client buffer is full the
// record fails at once through the promise.
func (p *Publisher) Publish(ctx context.Context, topic string, ev events.Event) error {
	// The record outlives the request that triggered it.
	ctx = context.WithoutCancel(ctx)
	record := &kgo.Record{
		Topic: topic,
		Key:   []byte(ev.Key()),
		Value: []byte(ev.Encode()),
	}
	p.producer.TryProduce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.metrics.IncrementPublishFailures(topic)
			p.logger.WarnContext(ctx, "failed to deliver credit event",
				"topic", topic,
				"key", string(r.Key),
				"event", ev.String(),
				"error", err,
			)
			return
		}
		p.metrics.IncrementEventsPublished(topic, string(ev.Type))
		p.logger.DebugContext(ctx, "credit event delivered",
			"topic", r.Topic,
			"partition", r.Partition,
			"offset", r.Offset,
			"event", ev.String(),
		)
	})
	return nil
}

// Close flushes buffered records before closing the client.
func (p *Publisher) Close() error {
	err := p.producer.Flush(context.Background())
	p.producer.Close()
	return err
}
