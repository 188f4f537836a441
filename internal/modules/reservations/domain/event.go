package domain

import "time"

const (
	EntityReservation = "reservation"
	EntityVoucher     = "voucher"

	ActionCreated = "created"
	ActionIssued  = "issued"
)

// Event is the envelope exchanged over the broker and pushed to websocket clients.
type Event struct {
	Topic      string            `json:"topic"`
	Entity     string            `json:"entity"`
	Action     string            `json:"action"`
	ResourceID string            `json:"resourceId"`
	Metadata   map[string]string `json:"metadata,omitempty"`
	Data       any               `json:"data"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewReservationCreatedEvent announces a new pending reservation.
func NewReservationCreatedEvent(topic string, reservation Reservation, now time.Time) Event {
	return Event{
		Topic:      topic,
		Entity:     EntityReservation,
		Action:     ActionCreated,
		ResourceID: reservation.ID,
		Metadata: map[string]string{
			"paymentId": reservation.PaymentID,
			"date":      reservation.Date,
			"time":      reservation.Time,
		},
		Data:      reservation,
		Timestamp: now.UTC(),
	}
}

// NewVoucherIssuedEvent announces a voucher; ResourceID carries the payment ID subscribers key on.
func NewVoucherIssuedEvent(topic string, voucher Voucher, now time.Time) Event {
	return Event{
		Topic:      topic,
		Entity:     EntityVoucher,
		Action:     ActionIssued,
		ResourceID: voucher.PaymentID,
		Metadata:   map[string]string{"code": voucher.Code},
		Data:       voucher,
		Timestamp:  now.UTC(),
	}
}
