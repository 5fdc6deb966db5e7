// Package consumer runs a franz-go consumer group and hands each record to a
// Handler.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"credito/internal/platform/kafka"
)

// Message is a consumed record, detached from the client library.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Timestamp time.Time
}

// Handler processes one message. Returning nil commits it.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// client is the subset of *kgo.Client the poll loop drives.
type client interface {
	PollFetches(ctx context.Context) kgo.Fetches
	CommitRecords(ctx context.Context, rs ...*kgo.Record) error
	SetOffsets(offsets map[string]map[int32]kgo.EpochOffset)
	Close()
}

const defaultRetryBackoff = time.Second

// Consumer polls a set of topics as a member of one consumer group.
type Consumer struct {
	client       client
	handler      Handler
	group        string
	logger       *slog.Logger
	retryBackoff time.Duration
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

// WithRetryBackoff sets the pause before a failed record is fetched again.
func WithRetryBackoff(d time.Duration) Option {
	return func(c *Consumer) {
		c.retryBackoff = d
	}
}

// New joins group and subscribes to topics. Offsets are committed manually
// after the handler accepts a record.
func New(cfg kafka.Config, group string, topics []string, handler Handler, opts ...Option) (*Consumer, error) {
	if group == "" {
		return nil, errors.New("consumer group is required")
	}
	client, err := kafka.NewClient(cfg,
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topics...),
		kgo.DisableAutoCommit(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, err
	}
	return newConsumer(client, group, handler, opts...), nil
}

func newConsumer(cl client, group string, handler Handler, opts ...Option) *Consumer {
	c := &Consumer{
		client:       cl,
		handler:      handler,
		group:        group,
		logger:       slog.Default(),
		retryBackoff: defaultRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled or the client is closed. When a handler
// fails, nothing past the failed record is committed on its partition: the
// partition is rewound to that record and retried after the backoff.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consumer started", "group", c.group)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() || ctx.Err() != nil {
			c.logger.InfoContext(context.WithoutCancel(ctx), "consumer stopped", "group", c.group)
			return nil
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "fetch failed",
				"group", c.group,
				"topic", topic,
				"partition", partition,
				"error", err,
			)
		})

		var done []*kgo.Record
		rewind := make(map[string]map[int32]kgo.EpochOffset)
		fetches.EachRecord(func(r *kgo.Record) {
			if _, failed := rewind[r.Topic][r.Partition]; failed {
				return
			}
			if err := c.handler.Handle(ctx, fromRecord(r)); err != nil {
				c.logger.ErrorContext(ctx, "message handler failed",
					"group", c.group,
					"topic", r.Topic,
					"partition", r.Partition,
					"offset", r.Offset,
					"error", err,
				)
				if rewind[r.Topic] == nil {
					rewind[r.Topic] = make(map[int32]kgo.EpochOffset)
				}
				rewind[r.Topic][r.Partition] = kgo.EpochOffset{Epoch: r.LeaderEpoch, Offset: r.Offset}
				return
			}
			done = append(done, r)
		})

		if len(done) > 0 {
			if err := c.client.CommitRecords(ctx, done...); err != nil && ctx.Err() == nil {
				c.logger.WarnContext(ctx, "offset commit failed", "group", c.group, "error", err)
			}
		}
		if len(rewind) > 0 {
			// SetOffsets also drops fetches already buffered for these partitions.
			c.client.SetOffsets(rewind)
			wait(ctx, c.retryBackoff)
		}
	}
}

func wait(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Close leaves the group and releases the client.
func (c *Consumer) Close() error {
	c.client.Close()
	return nil
}

func fromRecord(r *kgo.Record) *Message {
	return &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Timestamp: r.Timestamp,
	}
}

func (m *Message) String() string {
	return fmt.Sprintf("%s/%d@%d", m.Topic, m.Partition, m.Offset)
}
