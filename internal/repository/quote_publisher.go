package repository

import (
	"context"

	"FlowShift/internal/domain/repository"
	pkgkafka "FlowShift/pkg/kafka"
)

// Producer is the subset of pkg/kafka.Producer the publisher needs.
type Producer interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	PublishBatch(ctx context.Context, topic string, messages []pkgkafka.Message) error
	Close() error
}

// KafkaPublisher writes quote ticks to a topic keyed by symbol.
type KafkaPublisher struct {
	producer Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer Producer, topic string) repository.QuotePublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, t *repository.QuoteTick) error {
	return p.producer.Publish(ctx, p.topic, []byte(t.Symbol), t)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, ticks []*repository.QuoteTick) error {
	if len(ticks) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(ticks))
	for i, t := range ticks {
		msgs[i] = pkgkafka.Message{Key: []byte(t.Symbol), Value: t}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}

// NoopPublisher drops every tick. It stands in when Kafka is disabled.
type NoopPublisher struct{}

func NewNoopPublisher() repository.QuotePublisher { return NoopPublisher{} }

func (NoopPublisher) Publish(context.Context, *repository.QuoteTick) error { return nil }
func (NoopPublisher) PublishBatch(context.Context, []*repository.QuoteTick) error { return nil }
func (NoopPublisher) Close() error { return nil }
