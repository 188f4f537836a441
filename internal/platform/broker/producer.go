package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaProducer publishes reservation events; the topic travels on each message.
type KafkaProducer struct {
	writer messageWriter
}

func NewKafkaProducer(brokers []string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, event domain.Event) error {
	if event.Topic == "" {
		return fmt.Errorf("publish %s.%s: empty topic", event.Entity, event.Action)
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	msg := kafka.Message{
		Topic: event.Topic,
		Key:   []byte(event.ResourceID),
		Value: value,
		Time:  event.Timestamp,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s: %w", event.Topic, err)
	}
	slog.Debug("kafka message published", slog.String("topic", event.Topic), slog.String("resourceId", event.ResourceID))
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}

var _ port.EventPublisher = (*KafkaProducer)(nil)
