package broker

import (
	"context"
	"log/slog"

	"reservaMesa/internal/modules/reservations/domain"
)

// Dispatcher routes a decoded event to the handler registered for its topic.
type Dispatcher interface {
	Dispatch(ctx context.Context, event *domain.Event) error
}

// StartKafkaConsumers starts one consumer goroutine per topic.
func StartKafkaConsumers(
	ctx context.Context,
	dispatcher Dispatcher,
	brokers []string,
	groupID string,
	topics []string,
) {
	if len(brokers) == 0 {
		// kafka.NewReader panics on an empty broker list.
		return
	}
	for _, topic := range topics {
		go func(tp string) {
			consumer := NewKafkaConsumer(brokers, groupID, tp)
			err := consumer.Consume(ctx, func(event *domain.Event) error {
				return dispatcher.Dispatch(ctx, event)
			})
			slog.Info("kafka consumer stopped", slog.String("topic", tp), slog.Any("reason", err))
		}(topic)
	}
}
