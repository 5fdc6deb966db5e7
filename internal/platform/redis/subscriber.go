package redis

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"credito/internal/platform/kafka/consumer"
)

// Subscriber feeds pub/sub messages to the same Handler the Kafka consumer
// uses. The channel name becomes the message topic. Pub/sub has no keys,
// offsets or redelivery, so a handler error is only logged.
type Subscriber struct {
	client   *redis.Client
	channels []string
	handler  consumer.Handler
	logger   *slog.Logger
}

func NewSubscriber(client *redis.Client, channels []string, handler consumer.Handler, logger *slog.Logger) *Subscriber {
	if logger == nil {
		logger = slog.Default()
	}
	return &Subscriber{client: client, channels: channels, handler: handler, logger: logger}
}

// Run subscribes and dispatches until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) error {
	sub := s.client.Subscribe(ctx, s.channels...)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("subscribe %v: %w", s.channels, err)
	}
	s.logger.InfoContext(ctx, "redis subscriber started", "channels", s.channels)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			m := &consumer.Message{Topic: msg.Channel, Value: []byte(msg.Payload)}
			if err := s.handler.Handle(ctx, m); err != nil {
				s.logger.ErrorContext(ctx, "message handler failed",
					"channel", msg.Channel,
					"error", err,
				)
			}
		}
	}
}
