package port

import (
	"context"

	"reservaMesa/internal/modules/reservations/domain"
)

// EventPublisher emits domain events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// TopicHandler consumes events for a single topic.
type TopicHandler interface {
	Topic() string
	Handle(ctx context.Context, event *domain.Event) error
}

// VoucherBroadcaster pushes an issued voucher to clients waiting on its payment ID.
type VoucherBroadcaster interface {
	BroadcastVoucher(paymentID string, event *domain.Event)
}
