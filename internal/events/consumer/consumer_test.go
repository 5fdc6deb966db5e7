package consumer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"credito/internal/events"
	"credito/internal/platform/kafka/consumer"
	"credito/internal/platform/metrics"
)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func message(topic, value string) *consumer.Message {
	return &consumer.Message{Topic: topic, Key: []byte("1"), Value: []byte(value)}
}

func TestCreditEventHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("logs each known type", func(t *testing.T) {
		cases := map[string]string{
			"CREATED:1:CR001":           "credit created",
			"UPDATED:1:CR001":           "credit updated",
			"DELETED:1:CR001":           "credit deleted",
			"STATUS_CHANGED:1:INACTIVE": "credit status changed",
		}
		for value, want := range cases {
			var buf bytes.Buffer
			m := metrics.NewWithRegisterer(prometheus.NewRegistry())
			h := NewCreditEventHandler(newLogger(&buf), m)

			require.NoError(t, h.Handle(ctx, message(events.TopicCreditEvents, value)))
			assert.Contains(t, buf.String(), want, value)
			assert.Contains(t, buf.String(), "credit_id=1", value)
			assert.Equal(t, 1.0, promtest.ToFloat64(m.EventsConsumed.WithLabelValues(events.TopicCreditEvents)))
		}
	})

	t.Run("warns on unknown types", func(t *testing.T) {
		var buf bytes.Buffer
		h := NewCreditEventHandler(newLogger(&buf), nil)

		require.NoError(t, h.Handle(ctx, message(events.TopicCreditEvents, "ARCHIVED:1:CR001")))
		assert.Contains(t, buf.String(), "level=WARN")
		assert.Contains(t, buf.String(), "type=ARCHIVED")
	})

	t.Run("malformed values are dropped without failing", func(t *testing.T) {
		var buf bytes.Buffer
		m := metrics.NewWithRegisterer(prometheus.NewRegistry())
		h := NewCreditEventHandler(newLogger(&buf), m)

		for _, value := range []string{"", "CREATED", "CREATED:abc:CR001"} {
			require.NoError(t, h.Handle(ctx, message(events.TopicCreditEvents, value)))
		}
		assert.Equal(t, 3.0, promtest.ToFloat64(m.EventsDropped.WithLabelValues(metrics.DropMalformed)))
	})
}

func TestRouter(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	logger := newLogger(&buf)

	var handled []string
	r := NewRouter(logger)
	r.Register(events.TopicCreditEvents, consumer.HandlerFunc(func(_ context.Context, msg *consumer.Message) error {
		handled = append(handled, string(msg.Value))
		return nil
	}))
	r.Register(events.TopicCreditNotifications, NewNotificationHandler(logger, nil))

	require.NoError(t, r.Handle(ctx, message(events.TopicCreditEvents, "CREATED:1:CR001")))
	require.NoError(t, r.Handle(ctx, message(events.TopicCreditNotifications, "hello")))
	require.NoError(t, r.Handle(ctx, message("other-topic", "ignored")))

	assert.Equal(t, []string{"CREATED:1:CR001"}, handled)
	assert.Contains(t, buf.String(), "credit notification received")
	assert.Contains(t, buf.String(), "no handler for topic")
	assert.ElementsMatch(t, []string{events.TopicCreditEvents, events.TopicCreditNotifications}, r.Topics())
}
