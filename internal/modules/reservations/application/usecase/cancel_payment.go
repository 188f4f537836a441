package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"reservaMesa/internal/modules/reservations/application/port"
	"reservaMesa/internal/modules/reservations/domain"
	"reservaMesa/internal/shared/metrics"
)

// CancelPaymentUseCase releases the tables of a reservation whose payment failed,
// expired or was deleted at the provider.
type CancelPaymentUseCase struct {
	repo port.ReservationRepository
	now  func() time.Time
}

func NewCancelPaymentUseCase(repo port.ReservationRepository) *CancelPaymentUseCase {
	return &CancelPaymentUseCase{repo: repo, now: time.Now}
}

// Execute is idempotent for cancelled reservations. A reservation already paid keeps its
// voucher and yields ErrAlreadyConfirmed.
func (uc *CancelPaymentUseCase) Execute(ctx context.Context, paymentID string) (domain.Reservation, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return domain.Reservation{}, domain.ErrMissingPaymentID
	}

	reservation, err := uc.repo.FindByPaymentID(ctx, paymentID)
	if err != nil {
		return domain.Reservation{}, err
	}
	switch reservation.Status {
	case domain.ReservationStatusCancelled:
		return reservation, nil
	case domain.ReservationStatusConfirmed:
		return reservation, domain.ErrAlreadyConfirmed
	}

	cancelled, err := uc.repo.Cancel(ctx, reservation.ID, uc.now().UTC())
	if err != nil {
		return domain.Reservation{}, fmt.Errorf("cancel reservation: %w", err)
	}
	if cancelled.Status != domain.ReservationStatusCancelled {
		// Confirmed between the lookup and the update.
		return cancelled, domain.ErrAlreadyConfirmed
	}
	metrics.ReservationsCancelled.WithLabelValues("payment_failed").Inc()
	slog.Info("reservation cancelled",
		slog.String("reservationId", cancelled.ID),
		slog.String("paymentId", paymentID),
		slog.Int("tables", cancelled.TablesNeeded),
	)
	return cancelled, nil
}
