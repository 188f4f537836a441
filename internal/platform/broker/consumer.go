package broker

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"reservaMesa/internal/modules/reservations/domain"
)

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

type KafkaConsumer struct {
	reader messageReader
}

func NewKafkaConsumer(brokers []string, groupID string, topic string) *KafkaConsumer {
	return &KafkaConsumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers: brokers,
			GroupID: groupID,
			Topic:   topic,
		}),
	}
}

// Consume reads until ctx is cancelled or the reader is closed.
func (c *KafkaConsumer) Consume(ctx context.Context, handler func(*domain.Event) error) error {
	defer c.reader.Close()
	for {
		m, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			slog.Warn("kafka read error", slog.Any("error", err))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}
		event := decodeMessage(m)
		slog.Info("kafka message consumed",
			slog.String("topic", m.Topic),
			slog.Int("partition", m.Partition),
			slog.Int64("offset", m.Offset),
			slog.String("entity", event.Entity),
			slog.String("action", event.Action),
			slog.String("resourceId", event.ResourceID),
		)
		if err := handler(event); err != nil {
			slog.Warn("kafka handler error", slog.String("topic", event.Topic), slog.Any("error", err))
		}
	}
}

func decodeMessage(m kafka.Message) *domain.Event {
	event := &domain.Event{}
	if err := json.Unmarshal(m.Value, event); err != nil {
		entity, action := inferEntityActionFromTopic(m.Topic)
		return &domain.Event{
			Topic:      m.Topic,
			Entity:     entity,
			Action:     action,
			ResourceID: string(m.Key),
			Data:       string(m.Value),
			Timestamp:  time.Now().UTC(),
		}
	}

	// The topic the message arrived on decides which handler runs.
	if m.Topic != "" {
		event.Topic = m.Topic
	}
	if event.Entity == "" || event.Action == "" {
		entity, action := inferEntityActionFromTopic(event.Topic)
		event.Entity = firstNonEmpty(event.Entity, entity)
		event.Action = firstNonEmpty(event.Action, action)
	}
	if event.ResourceID == "" {
		event.ResourceID = string(m.Key)
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = firstTime(m.Time, time.Now()).UTC()
	}
	return event
}

func inferEntityActionFromTopic(topic string) (string, string) {
	parts := strings.Split(topic, ".")
	if len(parts) >= 2 {
		entity := strings.TrimSpace(parts[len(parts)-2])
		action := strings.TrimSpace(parts[len(parts)-1])
		if entity != "" && action != "" {
			return strings.TrimSuffix(entity, "s"), action
		}
	}
	return strings.TrimSpace(topic), "unknown"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func firstTime(values ...time.Time) time.Time {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return time.Time{}
}
