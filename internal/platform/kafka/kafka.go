// Package kafka builds franz-go clients and provisions the topics the
// service produces to.
package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Config holds the broker connection settings.
type Config struct {
	Brokers           []string
	ClientID          string
	ReplicationFactor int16
}

// TopicSpec describes a topic to provision.
type TopicSpec struct {
	Name       string
	Partitions int32
}

// NewClient creates a client for cfg. Extra options are appended after the
// connection settings, so callers can turn it into a producer or a group
// consumer.
func NewClient(cfg Config, opts ...kgo.Opt) (*kgo.Client, error) {
	if len(cfg.Brokers) == 0 {
		return nil, errors.New("kafka: no brokers configured")
	}
	base := []kgo.Opt{kgo.SeedBrokers(cfg.Brokers...)}
	if cfg.ClientID != "" {
		base = append(base, kgo.ClientID(cfg.ClientID))
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return client, nil
}

// EnsureTopics creates the given topics. A topic that already exists counts
// as provisioned; its partition count is left as is.
func EnsureTopics(ctx context.Context, client *kgo.Client, replicationFactor int16, topics ...TopicSpec) error {
	if replicationFactor < 1 {
		replicationFactor = 1
	}
	adm := kadm.NewClient(client)
	for _, t := range topics {
		resp, err := adm.CreateTopic(ctx, t.Partitions, replicationFactor, nil, t.Name)
		if err == nil {
			err = resp.Err
		}
		if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create topic %s: %w", t.Name, err)
		}
	}
	return nil
}

// Ping checks that at least one broker answers.
func Ping(ctx context.Context, client *kgo.Client) error {
	if err := client.Ping(ctx); err != nil {
		return fmt.Errorf("kafka ping: %w", err)
	}
	return nil
}
