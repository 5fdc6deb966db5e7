package events

import (
	"context"
	"log/slog"

	"credito/internal/platform/metrics"
	"credito/pkg/platform/circuit"
	"credito/pkg/platform/sentinel"
)

// Breaker drops events while the wrapped publisher keeps failing, so an
// unavailable broker cannot slow down the request path.
type Breaker struct {
	next    Publisher
	breaker *circuit.Breaker
	logger  *slog.Logger
	metrics *metrics.Metrics
}

type BreakerOption func(*Breaker)

func WithBreakerLogger(logger *slog.Logger) BreakerOption {
	return func(b *Breaker) {
		b.logger = logger
	}
}

func WithBreakerMetrics(m *metrics.Metrics) BreakerOption {
	return func(b *Breaker) {
		b.metrics = m
	}
}

func NewBreaker(next Publisher, cb *circuit.Breaker, opts ...BreakerOption) *Breaker {
	b := &Breaker{next: next, breaker: cb, logger: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Publish forwards ev unless the circuit is open, in which case it returns
// sentinel.ErrUnavailable without contacting the broker.
func (b *Breaker) Publish(ctx context.Context, topic string, ev Event) error {
	if !b.breaker.Allow() {
		b.metrics.IncrementEventsDropped(metrics.DropCircuitOpen)
		return sentinel.ErrUnavailable
	}

	if err := b.next.Publish(ctx, topic, ev); err != nil {
		if _, change := b.breaker.RecordFailure(); change.Opened {
			b.logger.WarnContext(ctx, "event publisher circuit opened",
				"breaker", b.breaker.Name(),
				"topic", topic,
				"error", err,
			)
		}
		return err
	}

	if _, change := b.breaker.RecordSuccess(); change.Closed {
		b.logger.InfoContext(ctx, "event publisher circuit closed",
			"breaker", b.breaker.Name(),
		)
	}
	return nil
}

func (b *Breaker) Close() error {
	if c, ok := b.next.(Closer); ok {
		return c.Close()
	}
	return nil
}
