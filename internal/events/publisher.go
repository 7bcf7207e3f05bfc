package events

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/societyhub/backend/internal/models"
)

// Publisher delivers a batch of outbox events.
type Publisher interface {
	Publish(ctx context.Context, events []models.OutboxEvent) error
	Close() error
}

// KafkaPublisher writes events to one topic, keyed by the event key so events
// about the same record land in the same partition.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
			BatchTimeout:           50 * time.Millisecond,
		},
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, events []models.OutboxEvent) error {
	msgs := make([]kafka.Message, len(events))
	for i, ev := range events {
		msgs[i] = kafka.Message{
			Key:   []byte(ev.Key),
			Value: ev.Payload,
			Time:  ev.CreatedAt,
			Headers: []kafka.Header{
				{Key: "event_type", Value: []byte(ev.Topic)},
				{Key: "event_id", Value: []byte(ev.ID.String())},
			},
		}
	}
	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("failed to write events to kafka: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error { return p.writer.Close() }

// LogPublisher logs events instead of sending them anywhere. It is used when
// no brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, events []models.OutboxEvent) error {
	for _, ev := range events {
		p.logger.Info("event", "topic", ev.Topic, "key", ev.Key, "payload", string(ev.Payload), "component", "outbox")
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
