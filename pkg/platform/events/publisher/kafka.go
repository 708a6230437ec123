// Package publisher delivers outbox entries to Kafka.
package publisher

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"
)

// Kafka publishes workflow events to a single topic, keyed by request id so
// every event for one request lands on the same partition in order.
type Kafka struct {
	client *kgo.Client
	topic  string
}

// NewKafka connects to the brokers and ensures the topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string) (*Kafka, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.AllowAutoTopicCreation(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}

	// Pre-existing topics are left alone; any other creation failure
	// surfaces on the first produce, which retries.
	adm := kadm.NewClient(client)
	_, _ = adm.CreateTopic(ctx, 3, 1, nil, topic)

	return &Kafka{client: client, topic: topic}, nil
}

// Publish produces one record synchronously. The outbox worker marks the
// entry published only after this returns nil, so delivery is at-least-once.
func (k *Kafka) Publish(ctx context.Context, key string, payload []byte) error {
	record := &kgo.Record{
		Topic: k.topic,
		Key:   []byte(key),
		Value: payload,
	}
	if err := k.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce event: %w", err)
	}
	return nil
}

// Close flushes and releases the client.
func (k *Kafka) Close() {
	k.client.Close()
}
