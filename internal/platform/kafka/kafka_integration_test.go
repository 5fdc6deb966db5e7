//go:build integration

package kafka_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"

	"credito/internal/events"
	kafkapub "credito/internal/events/publishers/kafka"
	"credito/internal/platform/kafka"
	"credito/internal/platform/kafka/consumer"
	"credito/pkg/testutil/containers"
)

func TestEnsureTopicsIsIdempotent(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	client, err := kafka.NewClient(kafka.Config{Brokers: rp.Brokers})
	require.NoError(t, err)
	defer client.Close()

	ctx := context.Background()
	name := "credit-events-" + uuid.NewString()
	spec := kafka.TopicSpec{Name: name, Partitions: events.CreditEventsPartitions}

	require.NoError(t, kafka.EnsureTopics(ctx, client, 1, spec))
	require.NoError(t, kafka.EnsureTopics(ctx, client, 1, spec))

	details, err := kadm.NewClient(client).ListTopics(ctx, name)
	require.NoError(t, err)
	assert.Len(t, details[name].Partitions, events.CreditEventsPartitions)
}

func TestPublishedEventsReachConsumerGroup(t *testing.T) {
	rp := containers.GetManager().GetRedpanda(t)
	cfg := kafka.Config{Brokers: rp.Brokers, ClientID: "credito-test"}
	topic := "credit-events-" + uuid.NewString()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	producer, err := kafka.NewClient(cfg)
	require.NoError(t, err)
	require.NoError(t, kafka.EnsureTopics(ctx, producer, 1, kafka.TopicSpec{Name: topic, Partitions: 1}))

	pub := kafkapub.New(producer)
	require.NoError(t, pub.Publish(ctx, topic, events.Created(1, "CR001")))
	require.NoError(t, pub.Publish(ctx, topic, events.StatusChanged(1, "INACTIVE")))
	require.NoError(t, pub.Close())

	received := make(chan *consumer.Message, 2)
	c, err := consumer.New(cfg, "group-"+uuid.NewString(), []string{topic},
		consumer.HandlerFunc(func(_ context.Context, msg *consumer.Message) error {
			received <- msg
			return nil
		}),
	)
	require.NoError(t, err)
	defer c.Close()

	runCtx, stop := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- c.Run(runCtx) }()

	var values []string
	for len(values) < 2 {
		select {
		case msg := <-received:
			assert.Equal(t, "1", string(msg.Key))
			values = append(values, string(msg.Value))
		case <-ctx.Done():
			t.Fatalf("timed out waiting for events, got %v", values)
		}
	}
	stop()
	require.NoError(t, <-done)

	assert.Equal(t, []string{"CREATED:1:CR001", "STATUS_CHANGED:1:INACTIVE"}, values)
}
