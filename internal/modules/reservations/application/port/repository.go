package port

import (
	"context"
	"time"

	"reservaMesa/internal/modules/reservations/domain"
)

// ReservationRepository persists reservations.
type ReservationRepository interface {
	Create(ctx context.Context, reservation domain.Reservation) error
	AttachPayment(ctx context.Context, reservationID, paymentID, invoiceURL string) error
	// Confirm marks the reservation confirmed with the voucher code. Confirming an already
	// confirmed reservation must keep the original code.
	Confirm(ctx context.Context, reservationID, voucherCode string, confirmedAt time.Time) (domain.Reservation, error)
	// Cancel releases a PENDING_PAYMENT reservation. Confirmed or already cancelled rows
	// are left untouched and returned as stored.
	Cancel(ctx context.Context, reservationID string, cancelledAt time.Time) (domain.Reservation, error)
	FindByID(ctx context.Context, id string) (domain.Reservation, error)
	FindByPaymentID(ctx context.Context, paymentID string) (domain.Reservation, error)
	// TablesBooked sums the tables held by non-cancelled reservations in the slot.
	TablesBooked(ctx context.Context, date, slot string) (int, error)
	List(ctx context.Context, query domain.ListQuery) (domain.ReservationList, error)
}
